// Package scene drives the demo's single scene: it rotates shader/texture
// pairs on a fixed cadence, keeps the banner overlay in step with the primary
// render and issues the full-screen quad draw.
package scene

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/richinsley/goshaderdemo/graphics"
	"github.com/richinsley/goshaderdemo/scroller"
)

// Store is the read-only resource collection the engine selects from.
// Out-of-range indices yield zero handles.
type Store interface {
	ProgramCount() int
	Program(index int) graphics.Program
	TextureCount() int
	Texture(index int) graphics.Texture
	OverlayTexture() graphics.Texture
}

// Overlay renders the banner surface for a scroller state.
type Overlay interface {
	Render(s scroller.State) *image.RGBA
}

// LevelSource supplies an optional 0..1 audio level to the shaders.
type LevelSource interface {
	Level() float32
}

// Texture units used by the effect shaders.
const (
	sceneTextureUnit   = 0
	overlayTextureUnit = 1
)

// Quad geometry, drawn as a triangle strip.
var (
	quadVertices = []float32{
		-1.0, 1.0, 0.0, // upper left
		-1.0, -1.0, 0.0, // lower left
		1.0, 1.0, 0.0, // upper right
		1.0, -1.0, 0.0, // lower right
	}
	quadTextureCoordinates = []float32{
		0.0, 0.0,
		0.0, 1.0,
		1.0, 0.0,
		1.0, 1.0,
	}
)

const (
	vertexSize            = 3
	textureCoordinateSize = 2
	quadVertexCount       = 4
)

// Engine is the scene transformation engine. It is not safe for concurrent
// use; Step must be called from the goroutine owning the GPU context.
type Engine struct {
	cfg     Config
	store   Store
	device  graphics.Device
	overlay Overlay
	rng     RandomSource
	level   LevelSource

	state    State
	scroller scroller.State

	vertexBuffer   graphics.Buffer
	texCoordBuffer graphics.Buffer
	program        graphics.Program
	texture        graphics.Texture
	forceRotation  bool
}

// New creates the engine and its static quad buffers. The store must hold at
// least one program and one texture.
func New(cfg Config, store Store, device graphics.Device, overlay Overlay, rng RandomSource) (*Engine, error) {
	if store == nil || device == nil || rng == nil {
		return nil, errors.New("scene requires a store, a device and a random source")
	}
	if store.ProgramCount() == 0 {
		return nil, errors.New("resource store holds no shader programs")
	}
	if store.TextureCount() == 0 {
		return nil, errors.New("resource store holds no textures")
	}
	if cfg.ScrollerUpdateInterval < 1 {
		cfg.ScrollerUpdateInterval = 1
	}

	e := &Engine{
		cfg:     cfg,
		store:   store,
		device:  device,
		overlay: overlay,
		rng:     rng,
	}
	e.vertexBuffer = device.CreateStaticBuffer(quadVertices)
	e.texCoordBuffer = device.CreateStaticBuffer(quadTextureCoordinates)
	if e.vertexBuffer == 0 || e.texCoordBuffer == 0 {
		e.Destroy()
		return nil, fmt.Errorf("failed to create quad buffers")
	}
	return e, nil
}

// SetLevelSource attaches an audio level feed. A nil source disables it.
func (e *Engine) SetLevelSource(l LevelSource) {
	e.level = l
}

// State returns a snapshot of the rotation bookkeeping.
func (e *Engine) State() State {
	return e.state
}

// ScrollerState returns the banner phase.
func (e *Engine) ScrollerState() scroller.State {
	return e.scroller
}

// ForceRotation makes the next Step start a new cycle.
func (e *Engine) ForceRotation() {
	e.forceRotation = true
}

// Step advances the scene by elapsedMs and renders one frame. A zero delta
// re-renders the current frame without moving any timer or the redraw tick.
func (e *Engine) Step(elapsedMs float64) {
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	e.advanceIfDue()
	e.updateOverlay(elapsedMs)
	e.draw()

	e.state = e.state.elapse(elapsedMs)
}

func (e *Engine) advanceIfDue() {
	if !e.state.cycleDue(e.cfg) && !e.forceRotation {
		return
	}
	e.forceRotation = false
	e.state = rotate(e.state, e.cfg, e.store.ProgramCount(), e.store.TextureCount(), e.rng)
	log.Printf("Cycle %d: effect %d, texture %d", e.state.Cycles, e.state.ShaderIndex, e.state.TextureIndex)

	e.useProgram(e.store.Program(e.state.ShaderIndex))
	e.useTexture(e.store.Texture(e.state.TextureIndex))
}

// useProgram activates p and enables its vertex inputs. An absent program
// keeps the previous one bound.
func (e *Engine) useProgram(p graphics.Program) {
	if p == 0 {
		return
	}
	d := e.device
	d.UseProgram(p)
	d.EnableVertexAttribArray(d.AttribLocation(p, graphics.AttribVertexPosition))
	d.EnableVertexAttribArray(d.AttribLocation(p, graphics.AttribTextureCoord))
	e.program = p
}

// useTexture binds t as the scene texture. An absent texture keeps the
// previous one bound.
func (e *Engine) useTexture(t graphics.Texture) {
	if t == 0 {
		return
	}
	e.device.ActiveTexture(sceneTextureUnit)
	e.device.BindTexture(t)
	e.texture = t
}

// updateOverlay redraws and uploads the banner on redraw frames, then moves
// the banner's phase timer on.
func (e *Engine) updateOverlay(elapsedMs float64) {
	if elapsedMs == 0 {
		return
	}

	var redraw bool
	e.state, redraw = e.state.tick(e.cfg.ScrollerUpdateInterval)
	if redraw && e.overlay != nil {
		img := e.overlay.Render(e.scroller)
		if tex := e.store.OverlayTexture(); tex != 0 && img != nil {
			e.device.ActiveTexture(overlayTextureUnit)
			e.device.UploadTexture(tex, img)
		}
	}

	e.scroller = e.scroller.Advance(elapsedMs, e.cfg.Scroller)
}

func (e *Engine) draw() {
	d := e.device
	d.Clear()
	if e.program == 0 || e.texture == 0 {
		return
	}
	p := e.program

	d.BindArrayBuffer(e.vertexBuffer)
	d.VertexAttribPointer(d.AttribLocation(p, graphics.AttribVertexPosition), vertexSize)
	d.BindArrayBuffer(e.texCoordBuffer)
	d.VertexAttribPointer(d.AttribLocation(p, graphics.AttribTextureCoord), textureCoordinateSize)

	d.ActiveTexture(sceneTextureUnit)
	d.BindTexture(e.texture)
	d.Uniform1i(d.UniformLocation(p, graphics.UniformSampler), sceneTextureUnit)

	if overlay := e.store.OverlayTexture(); overlay != 0 {
		d.ActiveTexture(overlayTextureUnit)
		d.BindTexture(overlay)
		d.Uniform1i(d.UniformLocation(p, graphics.UniformOverlay), overlayTextureUnit)
	}

	d.Uniform1f(d.UniformLocation(p, graphics.UniformTime), float32(e.state.ShaderTime()))
	if e.level != nil {
		d.Uniform1f(d.UniformLocation(p, graphics.UniformAudioLevel), e.level.Level())
	}

	d.DrawTriangleStrip(0, quadVertexCount)
}

// Destroy releases the quad buffers. Store resources are owned elsewhere.
func (e *Engine) Destroy() {
	if e.vertexBuffer != 0 {
		e.device.DeleteBuffer(e.vertexBuffer)
		e.vertexBuffer = 0
	}
	if e.texCoordBuffer != 0 {
		e.device.DeleteBuffer(e.texCoordBuffer)
		e.texCoordBuffer = 0
	}
}
