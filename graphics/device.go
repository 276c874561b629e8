package graphics

import "image"

// Program identifies a linked GPU shader program. The zero value is absent.
type Program uint32

// Texture identifies a GPU 2D texture. The zero value is absent.
type Texture uint32

// Buffer identifies a GPU vertex buffer. The zero value is absent.
type Buffer uint32

// Shader interface names shared by the effect library and the scene engine.
const (
	AttribVertexPosition = "aVertexPosition"
	AttribTextureCoord   = "aTextureCoord"
	UniformSampler       = "uSampler"
	UniformOverlay       = "uOverlaySampler"
	UniformTime          = "currentTimeMs"
	UniformAudioLevel    = "uAudioLevel"
)

// Device is the subset of GPU operations the scene engine issues each frame.
// Locations follow GL conventions: a negative location means the name is not
// active in the program and operations on it are ignored.
type Device interface {
	// CreateStaticBuffer uploads vertex data that never changes afterwards.
	CreateStaticBuffer(data []float32) Buffer
	DeleteBuffer(b Buffer)

	UseProgram(p Program)
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) int32
	EnableVertexAttribArray(loc int32)
	BindArrayBuffer(b Buffer)
	// VertexAttribPointer describes tightly packed float components of the
	// currently bound array buffer.
	VertexAttribPointer(loc int32, size int32)

	Clear()
	ActiveTexture(unit uint32)
	BindTexture(t Texture)
	// UploadTexture replaces the full contents of t with img.
	UploadTexture(t Texture, img *image.RGBA)

	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)

	DrawTriangleStrip(first, count int32)
}
