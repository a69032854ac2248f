package render

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/photomark/photomark/internal/config"
)

// calibrationText is the fixed sample used to probe a font's rendered
// line height during auto-sizing.
const calibrationText = "摄影/后期：@02_yuyuko"

const (
	fontSizeStart   = 2
	fontSizeStep    = 2
	fontSizeCeiling = 2048
	fontDPI         = 72
)

var textColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Compositor renders a text watermark with a drop shadow onto images
// using a single parsed font.
type Compositor struct {
	font *opentype.Font
}

// NewCompositor loads and parses the font at fontFile. Collection files
// (.ttc) contribute their first font.
func NewCompositor(fontFile string) (*Compositor, error) {
	data, err := os.ReadFile(fontFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read font file %s", fontFile)
	}

	var fnt *opentype.Font
	if strings.EqualFold(filepath.Ext(fontFile), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse font collection %s", fontFile)
		}
		fnt, err = coll.Font(0)
		if err != nil {
			return nil, errors.Wrapf(err, "load first font of collection %s", fontFile)
		}
	} else {
		fnt, err = opentype.Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse font %s", fontFile)
		}
	}

	return &Compositor{font: fnt}, nil
}

// Composite returns a new image with the watermark text and its drop
// shadow alpha-composited over base. The input image is not modified.
func (c *Compositor) Composite(base image.Image, style *config.Style) (*image.NRGBA, error) {
	out := imaging.Clone(base)
	if strings.TrimSpace(style.Text) == "" {
		return out, nil
	}

	imW := out.Bounds().Dx()
	imH := out.Bounds().Dy()

	face, margin, err := c.fitFace(imW, imH, style.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	layer := drawTextLayer(imW, imH, face, margin, style)

	shadow := makeShadow(layer,
		int(float64(margin)*style.ShadowOffset),
		style.ShadowColor,
		style.ShadowBlurRadius*float64(margin))

	// Text over its shadow, then the whole layer's alpha scaled by opacity.
	draw.Draw(shadow, shadow.Bounds(), layer, image.Point{}, draw.Over)
	scaleAlpha(shadow, style.Opacity)

	draw.Draw(out, out.Bounds(), shadow, image.Point{}, draw.Over)
	return out, nil
}

// fitFace grows the font size in fixed steps until the calibration
// string's rendered line height exceeds min(imW, imH) * 0.04 * scale.
// The final line height doubles as the layout margin.
func (c *Compositor) fitFace(imW, imH int, scale float64) (font.Face, int, error) {
	minDim := imW
	if imH < minDim {
		minDim = imH
	}
	threshold := float64(minDim) * 0.04 * scale

	for size := fontSizeStart; size <= fontSizeCeiling; size += fontSizeStep {
		face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     fontDPI,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, 0, errors.Wrap(err, "create font face")
		}

		bounds, _ := font.BoundString(face, calibrationText)
		lineHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()
		if float64(lineHeight) > threshold {
			return face, lineHeight, nil
		}
		face.Close()
	}
	return nil, 0, errors.Errorf(
		"font size exceeded %dpt without reaching the target line height", fontSizeCeiling)
}

// drawTextLayer renders every line of the watermark at full alpha onto
// a transparent buffer of the target image's size.
func drawTextLayer(imW, imH int, face font.Face, margin int, style *config.Style) *image.NRGBA {
	layer := image.NewNRGBA(image.Rect(0, 0, imW, imH))

	lines := style.Lines()
	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	spacing := style.LineSpacing * float64(margin)

	wmHeight := float64(len(lines)*lineHeight) + spacing*float64(len(lines)-1)

	y := float64(margin)
	if style.Position.Vertical == config.Bottom {
		y = float64(imH) - wmHeight - float64(margin)
	}

	src := image.NewUniform(textColor)
	for _, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		x := margin
		if style.Position.Horizontal == config.Right {
			x = imW - width - margin
		}

		d := font.Drawer{
			Dst:  layer,
			Src:  src,
			Face: face,
			Dot:  fixed.P(x, int(y)+metrics.Ascent.Ceil()),
		}
		d.DrawString(line)

		y += float64(lineHeight) + spacing
	}
	return layer
}

// scaleAlpha multiplies only the alpha channel by factor, leaving the
// color channels untouched.
func scaleAlpha(img *image.NRGBA, factor float64) {
	if factor < 0 {
		factor = 0
	} else if factor > 1 {
		factor = 1
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			row[i] = uint8(float64(row[i]) * factor)
		}
	}
}
