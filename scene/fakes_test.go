package scene

import (
	"fmt"
	"image"
	"strconv"

	"github.com/richinsley/goshaderdemo/graphics"
	"github.com/richinsley/goshaderdemo/scroller"
)

// fakeStore hands out handles 1..n for programs and 101..100+n for textures.
type fakeStore struct {
	programs int
	textures int
	overlay  graphics.Texture
}

func (s *fakeStore) ProgramCount() int { return s.programs }
func (s *fakeStore) TextureCount() int { return s.textures }
func (s *fakeStore) OverlayTexture() graphics.Texture {
	return s.overlay
}

func (s *fakeStore) Program(i int) graphics.Program {
	if i < 0 || i >= s.programs {
		return 0
	}
	return graphics.Program(i + 1)
}

func (s *fakeStore) Texture(i int) graphics.Texture {
	if i < 0 || i >= s.textures {
		return 0
	}
	return graphics.Texture(i + 101)
}

// fakeDevice records every call as a short string.
type fakeDevice struct {
	calls      []string
	nextBuffer graphics.Buffer
	uploads    int
	draws      int
	lastTime   float32
	deleted    []graphics.Buffer
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) reset() { d.calls = nil }

func (d *fakeDevice) CreateStaticBuffer(data []float32) graphics.Buffer {
	d.nextBuffer++
	d.record("buffer %d len=%d", d.nextBuffer, len(data))
	return d.nextBuffer
}

func (d *fakeDevice) DeleteBuffer(b graphics.Buffer) {
	d.deleted = append(d.deleted, b)
}

func (d *fakeDevice) UseProgram(p graphics.Program) { d.record("use %d", p) }

func (d *fakeDevice) AttribLocation(p graphics.Program, name string) int32 {
	switch name {
	case graphics.AttribVertexPosition:
		return 0
	case graphics.AttribTextureCoord:
		return 1
	}
	return -1
}

func (d *fakeDevice) UniformLocation(p graphics.Program, name string) int32 {
	switch name {
	case graphics.UniformSampler:
		return 10
	case graphics.UniformOverlay:
		return 11
	case graphics.UniformTime:
		return 12
	case graphics.UniformAudioLevel:
		return 13
	}
	return -1
}

func (d *fakeDevice) EnableVertexAttribArray(loc int32) { d.record("enable %d", loc) }
func (d *fakeDevice) BindArrayBuffer(b graphics.Buffer)  { d.record("bindbuf %d", b) }
func (d *fakeDevice) VertexAttribPointer(loc, size int32) {
	d.record("attrib %d size=%d", loc, size)
}
func (d *fakeDevice) Clear()                          { d.record("clear") }
func (d *fakeDevice) ActiveTexture(unit uint32)       { d.record("unit %d", unit) }
func (d *fakeDevice) BindTexture(t graphics.Texture)  { d.record("bindtex %d", t) }
func (d *fakeDevice) Uniform1i(loc int32, v int32)    { d.record("uniform1i %d=%d", loc, v) }
func (d *fakeDevice) UploadTexture(t graphics.Texture, img *image.RGBA) {
	d.uploads++
	d.record("upload %d", t)
}

func (d *fakeDevice) Uniform1f(loc int32, v float32) {
	if loc == 12 {
		d.lastTime = v
	}
	d.record("uniform1f %d=%g", loc, v)
}

func (d *fakeDevice) DrawTriangleStrip(first, count int32) {
	d.draws++
	d.record("draw %d %d", first, count)
}

// fakeOverlay counts renders and remembers the states it was asked for.
type fakeOverlay struct {
	states []scroller.State
	img    *image.RGBA
}

func (o *fakeOverlay) Render(s scroller.State) *image.RGBA {
	o.states = append(o.states, s)
	if o.img == nil {
		o.img = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	return o.img
}

// seqRand returns the given values in order, then repeats the last one.
type seqRand struct {
	values []float64
	i      int
}

func (r *seqRand) Float64() float64 {
	v := r.values[len(r.values)-1]
	if r.i < len(r.values) {
		v = r.values[r.i]
	}
	r.i++
	return v
}

type constLevel float32

func (l constLevel) Level() float32 { return float32(l) }

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float32) string { return fmt.Sprintf("%g", f) }
