package scene

import (
	"math"

	"github.com/richinsley/goshaderdemo/scroller"
)

// Config holds the engine's fixed timing parameters.
type Config struct {
	// MaxCycleDurationMs is how long a shader/texture pair stays active.
	MaxCycleDurationMs float64
	// MaxRandomOffsetMs bounds the per-cycle jitter added to the shader time.
	MaxRandomOffsetMs float64
	// ScrollerUpdateInterval is the number of frames between overlay redraws.
	ScrollerUpdateInterval int
	Scroller               scroller.Timing
}

// DefaultConfig returns the demo's stock timings.
func DefaultConfig() Config {
	return Config{
		MaxCycleDurationMs:     7000,
		MaxRandomOffsetMs:      1000,
		ScrollerUpdateInterval: 3,
		Scroller:               scroller.DefaultTiming(),
	}
}

// State is the engine's rotation and timing bookkeeping.
type State struct {
	TotalElapsedMs    float64
	CycleElapsedMs    float64
	CycleTimeOffsetMs float64
	ShaderIndex       int
	TextureIndex      int
	// ScrollerTicks counts frames since the overlay was last redrawn.
	ScrollerTicks int
	FirstCycleRun bool
	// Cycles is the number of selections made so far.
	Cycles int
}

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// ShaderTime is the value fed to the shader's time uniform.
func (s State) ShaderTime() float64 {
	return s.CycleTimeOffsetMs + s.CycleElapsedMs
}

func (s State) cycleDue(cfg Config) bool {
	return !s.FirstCycleRun || s.CycleElapsedMs > cfg.MaxCycleDurationMs
}

// rotate starts a new cycle with a freshly drawn time offset and indices.
// Both counts must be positive.
func rotate(s State, cfg Config, programs, textures int, rng RandomSource) State {
	s.CycleElapsedMs = 0
	s.CycleTimeOffsetMs = cfg.MaxRandomOffsetMs * rng.Float64()
	s.ShaderIndex = pickIndex(rng, programs)
	s.TextureIndex = pickIndex(rng, textures)
	s.Cycles++
	return s
}

// pickIndex rounds a scaled uniform draw, so the end indices get half the
// weight of the inner ones and repeats of the previous index are possible.
func pickIndex(rng RandomSource, count int) int {
	return int(math.Round(rng.Float64() * float64(count-1)))
}

// tick counts one frame towards the next overlay redraw and reports whether
// this frame is a redraw frame.
func (s State) tick(interval int) (State, bool) {
	s.ScrollerTicks++
	if s.ScrollerTicks >= interval {
		s.ScrollerTicks = 0
		return s, true
	}
	return s, false
}

// elapse records deltaMs of frame time once the frame has been issued.
func (s State) elapse(deltaMs float64) State {
	s.FirstCycleRun = true
	s.TotalElapsedMs += deltaMs
	s.CycleElapsedMs += deltaMs
	return s
}
