package config

import (
	"image/color"
	"strings"

	"github.com/pkg/errors"
)

// Horizontal is the horizontal anchor of the watermark text block.
type Horizontal string

// Vertical is the vertical anchor of the watermark text block.
type Vertical string

const (
	Left  Horizontal = "left"
	Right Horizontal = "right"

	Top    Vertical = "top"
	Bottom Vertical = "bottom"
)

// Position selects one anchor per axis, e.g. "right bottom".
type Position struct {
	Horizontal Horizontal
	Vertical   Vertical
}

// Default flag values
const (
	DefaultPosition         = "right bottom"
	DefaultFontFamily       = "Helvetica, Arial"
	DefaultFontSize         = 1.0
	DefaultOpacity          = 0.75
	DefaultLineSpacing      = 0.2
	DefaultShadowOffset     = 0.04
	DefaultShadowBlurRadius = 0.05
	DefaultQuality          = 95
)

// DefaultShadowColor is opaque black.
var DefaultShadowColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// ParsePosition parses a whitespace-separated list of anchor tokens.
// Each token overrides the axis it belongs to; the starting point is
// the default right-bottom anchor.
func ParsePosition(s string) (Position, error) {
	p := Position{Horizontal: Right, Vertical: Bottom}
	for _, tok := range strings.Fields(s) {
		switch tok {
		case "left":
			p.Horizontal = Left
		case "right":
			p.Horizontal = Right
		case "top":
			p.Vertical = Top
		case "bottom":
			p.Vertical = Bottom
		default:
			return Position{}, errors.Errorf("unrecognized position: %q", tok)
		}
	}
	return p, nil
}

// Style is the full watermark configuration for one job. It is built
// once, from CLI flags or from a sidecar file, and never mutated.
type Style struct {
	Text             string // newline-separated lines
	Position         Position
	FontSize         float64 // scale factor relative to min(imageW, imageH)
	Opacity          float64 // [0, 1], applied to the final alpha channel
	LineSpacing      float64 // fraction of line height between lines
	ShadowOffset     float64 // fraction of the computed margin
	ShadowBlurRadius float64 // fraction of the computed margin
	ShadowColor      color.NRGBA
	FontFile         string // resolved font path
}

// Lines splits the watermark text into its logical lines.
func (s *Style) Lines() []string {
	return strings.Split(s.Text, "\n")
}
