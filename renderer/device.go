package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderdemo/graphics"
	"github.com/richinsley/goshaderdemo/textures"
)

// GLDevice issues the scene's draw calls against the current OpenGL 4.1
// core context.
type GLDevice struct {
	quadVAO uint32
	// names maps source uniform names to the translator's names, per program.
	names     map[graphics.Program]map[string]string
	locations map[graphics.Program]map[string]int32
}

// NewGLDevice creates the vertex array object the quad attributes live in.
// The GL context must be current.
func NewGLDevice() *GLDevice {
	d := &GLDevice{
		names:     make(map[graphics.Program]map[string]string),
		locations: make(map[graphics.Program]map[string]int32),
	}
	gl.GenVertexArrays(1, &d.quadVAO)
	gl.BindVertexArray(d.quadVAO)
	return d
}

func (d *GLDevice) registerProgram(p graphics.Program, names map[string]string) {
	d.names[p] = names
	delete(d.locations, p)
}

func (d *GLDevice) mappedName(p graphics.Program, name string) string {
	if m, ok := d.names[p]; ok {
		if n, ok := m[name]; ok {
			return n
		}
	}
	return name
}

// location caches attribute and uniform lookups. Attributes and uniforms
// share the cache; the two never collide in the effect interface.
func (d *GLDevice) location(p graphics.Program, name string, lookup func(uint32, *uint8) int32) int32 {
	cache, ok := d.locations[p]
	if !ok {
		cache = make(map[string]int32)
		d.locations[p] = cache
	}
	if loc, ok := cache[name]; ok {
		return loc
	}
	loc := lookup(uint32(p), gl.Str(d.mappedName(p, name)+"\x00"))
	cache[name] = loc
	return loc
}

func (d *GLDevice) CreateStaticBuffer(data []float32) graphics.Buffer {
	if len(data) == 0 {
		return 0
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return graphics.Buffer(vbo)
}

func (d *GLDevice) DeleteBuffer(b graphics.Buffer) {
	if b == 0 {
		return
	}
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *GLDevice) UseProgram(p graphics.Program) {
	gl.UseProgram(uint32(p))
}

func (d *GLDevice) AttribLocation(p graphics.Program, name string) int32 {
	return d.location(p, name, gl.GetAttribLocation)
}

func (d *GLDevice) UniformLocation(p graphics.Program, name string) int32 {
	return d.location(p, name, gl.GetUniformLocation)
}

func (d *GLDevice) EnableVertexAttribArray(loc int32) {
	if loc < 0 {
		return
	}
	gl.BindVertexArray(d.quadVAO)
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *GLDevice) BindArrayBuffer(b graphics.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
}

func (d *GLDevice) VertexAttribPointer(loc int32, size int32) {
	if loc < 0 {
		return
	}
	gl.VertexAttribPointer(uint32(loc), size, gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *GLDevice) Clear() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *GLDevice) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *GLDevice) BindTexture(t graphics.Texture) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *GLDevice) UploadTexture(t graphics.Texture, img *image.RGBA) {
	textures.Upload(t, img)
}

func (d *GLDevice) Uniform1i(loc int32, v int32) {
	if loc < 0 {
		return
	}
	gl.Uniform1i(loc, v)
}

func (d *GLDevice) Uniform1f(loc int32, v float32) {
	if loc < 0 {
		return
	}
	gl.Uniform1f(loc, v)
}

func (d *GLDevice) DrawTriangleStrip(first, count int32) {
	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, first, count)
}

// DeleteProgram releases p and forgets its cached locations.
func (d *GLDevice) DeleteProgram(p graphics.Program) {
	if p == 0 {
		return
	}
	gl.DeleteProgram(uint32(p))
	delete(d.names, p)
	delete(d.locations, p)
}

// Destroy releases the vertex array object.
func (d *GLDevice) Destroy() {
	if d.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &d.quadVAO)
		d.quadVAO = 0
	}
}
