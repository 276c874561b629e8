package renderer

// frameClock turns absolute timestamps into per-frame deltas in
// milliseconds. The first tick reports zero.
type frameClock struct {
	lastMs  float64
	started bool
}

func (c *frameClock) tick(nowSeconds float64) float64 {
	nowMs := nowSeconds * 1000
	if !c.started {
		c.started = true
		c.lastMs = nowMs
		return 0
	}
	delta := nowMs - c.lastMs
	c.lastMs = nowMs
	if delta < 0 {
		return 0
	}
	return delta
}

// fixedClock advances by exactly one frame period per tick, for rendering
// that is not paced by the display. The first tick reports zero.
type fixedClock struct {
	frameMs float64
	started bool
}

func newFixedClock(fps int) *fixedClock {
	if fps <= 0 {
		fps = 60
	}
	return &fixedClock{frameMs: 1000 / float64(fps)}
}

func (c *fixedClock) tick() float64 {
	if !c.started {
		c.started = true
		return 0
	}
	return c.frameMs
}
