package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// makeShadow builds the drop shadow for a text layer: a same-sized
// buffer filled with the shadow color wherever the text has coverage,
// with the text's alpha scaled by the shadow color's own alpha,
// translated by offset pixels on both axes and Gaussian-blurred.
// Pixels translated past the layer's edge are dropped.
func makeShadow(textLayer *image.NRGBA, offset int, shadowColor color.NRGBA, blurRadius float64) *image.NRGBA {
	b := textLayer.Bounds()
	shadow := image.NewNRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := textLayer.NRGBAAt(x, y).A
			if a == 0 {
				continue
			}
			tx, ty := x+offset, y+offset
			if tx < b.Min.X || ty < b.Min.Y || tx >= b.Max.X || ty >= b.Max.Y {
				continue
			}
			shadow.SetNRGBA(tx, ty, color.NRGBA{
				R: shadowColor.R,
				G: shadowColor.G,
				B: shadowColor.B,
				A: uint8(uint16(a) * uint16(shadowColor.A) / 255),
			})
		}
	}

	if blurRadius > 0 {
		shadow = imaging.Blur(shadow, blurRadius)
	}
	return shadow
}
