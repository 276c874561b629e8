package scroller

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Style describes how the banner looks on the overlay surface.
type Style struct {
	// BackgroundIntensity is the grey level of the strip, 0..1.
	BackgroundIntensity float64
	// BackgroundAlpha is the nominal strip opacity once fully faded in.
	BackgroundAlpha  float64
	OffsetFromBottom int
	FontSizePx       float64
	ScrollStepPx     int
	TextColor        color.RGBA
}

// DefaultStyle returns the banner look used by the demo.
func DefaultStyle() Style {
	return Style{
		BackgroundIntensity: 0.15,
		BackgroundAlpha:     0.65,
		OffsetFromBottom:    100,
		FontSizePx:          40,
		ScrollStepPx:        6,
		TextColor:           color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Overlay renders the banner onto a 2D surface that is later uploaded as the
// overlay texture.
type Overlay struct {
	surface *image.RGBA
	strip   image.Rectangle
	text    *TextScroller
	style   Style
	timing  Timing
}

// NewOverlay creates a width x height transparent surface with a banner strip
// placed style.OffsetFromBottom pixels above the bottom edge.
func NewOverlay(width, height int, message string, style Style, timing Timing) (*Overlay, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid overlay size %dx%d", width, height)
	}
	face, err := NewFace(style.FontSizePx)
	if err != nil {
		return nil, err
	}
	text := NewTextScroller(face, message, width, style.ScrollStepPx, style.TextColor)

	y := height - style.OffsetFromBottom
	if y < 0 {
		y = 0
	}
	o := &Overlay{
		surface: image.NewRGBA(image.Rect(0, 0, width, height)),
		strip:   image.Rect(0, y, width, y+text.TextAreaHeight()).Intersect(image.Rect(0, 0, width, height)),
		text:    text,
		style:   style,
		timing:  timing,
	}
	return o, nil
}

// Surface returns the backing image.
func (o *Overlay) Surface() *image.RGBA {
	return o.surface
}

// Strip returns the banner area on the surface.
func (o *Overlay) Strip() image.Rectangle {
	return o.strip
}

// Text returns the scroller drawing the message.
func (o *Overlay) Text() *TextScroller {
	return o.text
}

// Render redraws the banner for state s and returns the surface. Nothing is
// drawn during the lead-in. The message only moves on DisplayText renders.
func (o *Overlay) Render(s State) *image.RGBA {
	if s.Phase == LeadIn {
		return o.surface
	}

	draw.Draw(o.surface, o.strip, image.Transparent, image.Point{}, draw.Src)

	alpha := s.BackgroundAlpha(o.style.BackgroundAlpha, o.timing)
	grey := uint8(clampUnit(o.style.BackgroundIntensity) * 255)
	bg := color.NRGBA{R: grey, G: grey, B: grey, A: uint8(clampUnit(alpha)*255 + 0.5)}
	draw.Draw(o.surface, o.strip, image.NewUniform(bg), image.Point{}, draw.Over)

	if s.Phase == DisplayText {
		o.text.Render(o.surface.SubImage(o.strip).(*image.RGBA))
		o.text.Advance()
	}
	return o.surface
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
