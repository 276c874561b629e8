package renderer

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderdemo/graphics"
	options "github.com/richinsley/goshaderdemo/options"
	"github.com/richinsley/goshaderdemo/resources"
	"github.com/richinsley/goshaderdemo/scene"
	"github.com/richinsley/goshaderdemo/scroller"
	shader "github.com/richinsley/goshaderdemo/shader"
	"github.com/richinsley/goshaderdemo/textures"
)

// glInitOnce ensures gl.Init() is called only once per process.
var glInitOnce sync.Once

// DefaultMessage is the banner text when none is given.
const DefaultMessage = "goshaderdemo: GPU effects rotating over your pictures. Press N for the next effect, Escape to quit."

type Renderer struct {
	context           graphics.Context
	device            *GLDevice
	store             *resources.Store
	overlay           *scroller.Overlay
	scene             *scene.Engine
	offscreenRenderer *OffscreenRenderer
	width             int
	height            int
	recordMode        bool
}

// NewRenderer makes ctx current, loads the GL bindings and, in record mode,
// creates the offscreen target.
func NewRenderer(ctx graphics.Context, options *options.DemoOptions, recordMode bool) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		recordMode: recordMode,
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if recordMode {
		r.width, r.height = *options.Width, *options.Height
		var err error
		r.offscreenRenderer, err = NewOffscreenRenderer(r.width, r.height)
		if err != nil {
			return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
		}
	} else {
		r.width, r.height = r.context.GetFramebufferSize()
	}
	return r, nil
}

// InitScene compiles the effect library, loads the images, creates the
// overlay and builds the scene engine.
func (r *Renderer) InitScene(options *options.DemoOptions) error {
	r.device = NewGLDevice()
	r.store = resources.NewStore()

	imagePaths, err := resources.ImagePaths(*options.ImageDir)
	if err != nil {
		return err
	}

	loader := &resources.Loader{
		Programs: &ProgramBuilder{device: r.device},
		Textures: textures.Factory{
			Width:  r.width,
			Height: r.height,
			Wrap:   "clamp",
			Filter: "linear",
		},
		Progress: func(fraction float64) {
			log.Printf("Loading resources: %3.0f%%", fraction*100)
		},
	}
	if err := loader.Load(r.store, shader.Effects(), imagePaths); err != nil {
		return fmt.Errorf("failed to load resources: %w", err)
	}

	overlayTexture, err := textures.NewOverlayTexture(r.width, r.height)
	if err != nil {
		return fmt.Errorf("failed to create overlay texture: %w", err)
	}
	r.store.SetOverlayTexture(overlayTexture)

	cfg := sceneConfig(options)

	style := scroller.DefaultStyle()
	if options.FontSize != nil && *options.FontSize > 0 {
		style.FontSizePx = *options.FontSize
	}
	message := DefaultMessage
	if options.Message != nil && *options.Message != "" {
		message = *options.Message
	}
	r.overlay, err = scroller.NewOverlay(r.width, r.height, message, style, cfg.Scroller)
	if err != nil {
		return fmt.Errorf("failed to create overlay: %w", err)
	}

	seed := uint64(0)
	if options.Seed != nil {
		seed = *options.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Printf("Scene seed %d", seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	r.scene, err = scene.New(cfg, r.store, r.device, r.overlay, rng)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	return nil
}

// sceneConfig applies the command line overrides to the stock timings.
func sceneConfig(options *options.DemoOptions) scene.Config {
	cfg := scene.DefaultConfig()
	if options.CycleMs != nil && *options.CycleMs > 0 {
		cfg.MaxCycleDurationMs = *options.CycleMs
	}
	if options.JitterMs != nil && *options.JitterMs >= 0 {
		cfg.MaxRandomOffsetMs = *options.JitterMs
	}
	if options.Interval != nil && *options.Interval > 0 {
		cfg.ScrollerUpdateInterval = *options.Interval
	}
	return cfg
}

// SetLevelSource feeds an audio level to the effects' uAudioLevel uniform.
func (r *Renderer) SetLevelSource(l scene.LevelSource) {
	if r.scene != nil {
		r.scene.SetLevelSource(l)
	}
}

// ForceRotation selects a new effect and image on the next frame.
func (r *Renderer) ForceRotation() {
	if r.scene != nil {
		r.scene.ForceRotation()
	}
}

// Run drives the scene from the window's timer until the window closes.
func (r *Renderer) Run() {
	var clock frameClock
	for !r.context.ShouldClose() {
		delta := clock.tick(r.context.Time())

		fbWidth, fbHeight := r.context.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		r.scene.Step(delta)

		r.context.EndFrame()
	}
	state := r.scene.State()
	log.Printf("Stopped after %d cycles, %.1f s", state.Cycles, state.TotalElapsedMs/1000)
}

func (r *Renderer) Shutdown() {
	if r.scene != nil {
		r.scene.Destroy()
	}
	if r.store != nil {
		for _, p := range r.store.Programs() {
			r.device.DeleteProgram(p)
		}
		textures.Delete(r.store.Textures()...)
		textures.Delete(r.store.OverlayTexture())
	}
	if r.device != nil {
		r.device.Destroy()
	}
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
	}
}
