package textures

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ScaleToFit scales src into a width x height image, preserving its aspect
// ratio. The unused margins on one axis are left transparent black.
func ScaleToFit(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	sb := src.Bounds()
	if sb.Empty() || width <= 0 || height <= 0 {
		return dst
	}

	targetAspect := float64(width) / float64(height)
	srcAspect := float64(sb.Dx()) / float64(sb.Dy())

	var scaledW, scaledH float64
	if srcAspect > targetAspect {
		scaledW = float64(width)
		scaledH = float64(width) / float64(sb.Dx()) * float64(sb.Dy())
	} else {
		scaledW = float64(height) / float64(sb.Dy()) * float64(sb.Dx())
		scaledH = float64(height)
	}

	marginX := int(math.Round((float64(width) - scaledW) / 2))
	marginY := int(math.Round((float64(height) - scaledH) / 2))
	target := image.Rect(marginX, marginY, width-marginX, height-marginY)

	draw.CatmullRom.Scale(dst, target, src, sb, draw.Src, nil)
	return dst
}

// vflip returns a vertically flipped copy of src.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
