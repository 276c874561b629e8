package scroller

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// textPadding is the vertical margin above and below the glyphs, in pixels.
const textPadding = 6

// NewFace returns the bold Go font rasterized at sizePx pixels.
func NewFace(sizePx float64) (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scroller font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scroller font face: %w", err)
	}
	return face, nil
}

// TextScroller draws a single line of text that moves right to left across
// a fixed-width area, wrapping once the text has fully left the area.
type TextScroller struct {
	face      font.Face
	message   string
	color     color.Color
	stepPx    int
	areaWidth int
	textWidth int
	offset    int
}

// NewTextScroller creates a scroller for message over an area areaWidth
// pixels wide that moves stepPx pixels per Advance.
func NewTextScroller(face font.Face, message string, areaWidth, stepPx int, c color.Color) *TextScroller {
	return &TextScroller{
		face:      face,
		message:   message,
		color:     c,
		stepPx:    stepPx,
		areaWidth: areaWidth,
		textWidth: font.MeasureString(face, message).Ceil(),
	}
}

// TextAreaHeight is the height of the strip needed to hold one line.
func (t *TextScroller) TextAreaHeight() int {
	return t.face.Metrics().Height.Ceil() + 2*textPadding
}

// TextWidth is the rendered width of the whole message.
func (t *TextScroller) TextWidth() int {
	return t.textWidth
}

// Offset is the number of pixels scrolled since the message last entered.
func (t *TextScroller) Offset() int {
	return t.offset
}

// Render draws the message at its current position into dst, clipped to
// dst's bounds. The message enters from the right edge of dst.
func (t *TextScroller) Render(dst draw.Image) {
	b := dst.Bounds()
	baseline := b.Min.Y + textPadding + t.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(t.color),
		Face: t.face,
		Dot:  fixed.P(b.Min.X+t.areaWidth-t.offset, baseline),
	}
	d.DrawString(t.message)
}

// Advance moves the message one step to the left.
func (t *TextScroller) Advance() {
	t.offset += t.stepPx
	if t.offset > t.areaWidth+t.textWidth {
		t.offset = 0
	}
}
