package scene

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/richinsley/goshaderdemo/graphics"
	"github.com/richinsley/goshaderdemo/scroller"
)

type harness struct {
	engine  *Engine
	store   *fakeStore
	device  *fakeDevice
	overlay *fakeOverlay
}

func newHarness(t *testing.T, cfg Config, programs, textures int) *harness {
	t.Helper()
	h := &harness{
		store:   &fakeStore{programs: programs, textures: textures, overlay: 500},
		device:  &fakeDevice{},
		overlay: &fakeOverlay{},
	}
	e, err := New(cfg, h.store, h.device, h.overlay, rand.New(rand.NewPCG(7, 11)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.engine = e
	h.device.reset()
	return h
}

func TestNewRejectsEmptyStore(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if _, err := New(DefaultConfig(), &fakeStore{programs: 0, textures: 3}, &fakeDevice{}, nil, rng); err == nil {
		t.Error("expected error for store without programs")
	}
	if _, err := New(DefaultConfig(), &fakeStore{programs: 3, textures: 0}, &fakeDevice{}, nil, rng); err == nil {
		t.Error("expected error for store without textures")
	}
	if _, err := New(DefaultConfig(), &fakeStore{programs: 1, textures: 1}, nil, nil, rng); err == nil {
		t.Error("expected error for nil device")
	}
}

func TestNewCreatesQuadBuffers(t *testing.T) {
	d := &fakeDevice{}
	_, err := New(DefaultConfig(), &fakeStore{programs: 1, textures: 1}, d, nil, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []string{"buffer 1 len=12", "buffer 2 len=8"}
	if !slices.Equal(d.calls, want) {
		t.Errorf("calls = %v, want %v", d.calls, want)
	}
}

func TestSelectionStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))
	cfg := DefaultConfig()
	for _, count := range []int{1, 2, 3, 5, 12, 100} {
		var s State
		for trial := 0; trial < 2000; trial++ {
			s = rotate(s, cfg, count, count, rng)
			if s.ShaderIndex < 0 || s.ShaderIndex > count-1 {
				t.Fatalf("count %d: shader index %d out of range", count, s.ShaderIndex)
			}
			if s.TextureIndex < 0 || s.TextureIndex > count-1 {
				t.Fatalf("count %d: texture index %d out of range", count, s.TextureIndex)
			}
			if s.CycleTimeOffsetMs < 0 || s.CycleTimeOffsetMs >= cfg.MaxRandomOffsetMs {
				t.Fatalf("offset %v out of range", s.CycleTimeOffsetMs)
			}
		}
	}
}

func TestSelectionReachesBothEnds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	seen := map[int]bool{}
	var s State
	for i := 0; i < 1000; i++ {
		s = rotate(s, DefaultConfig(), 5, 5, rng)
		seen[s.ShaderIndex] = true
	}
	for i := 0; i < 5; i++ {
		if !seen[i] {
			t.Errorf("index %d never selected", i)
		}
	}
}

func TestRotateUsesDrawOrder(t *testing.T) {
	rng := &seqRand{values: []float64{0.5, 0.0, 0.99}}
	s := rotate(State{CycleElapsedMs: 8000}, DefaultConfig(), 5, 12, rng)
	if s.CycleElapsedMs != 0 {
		t.Errorf("cycle elapsed = %v, want 0", s.CycleElapsedMs)
	}
	if s.CycleTimeOffsetMs != 500 {
		t.Errorf("offset = %v, want 500", s.CycleTimeOffsetMs)
	}
	if s.ShaderIndex != 0 {
		t.Errorf("shader = %d, want 0", s.ShaderIndex)
	}
	if s.TextureIndex != 11 {
		t.Errorf("texture = %d, want 11", s.TextureIndex)
	}
}

func TestFirstStepRotates(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 5, 12)
	h.engine.Step(16)

	st := h.engine.State()
	if st.Cycles != 1 {
		t.Fatalf("cycles = %d, want 1", st.Cycles)
	}
	if !st.FirstCycleRun {
		t.Error("first cycle flag not set")
	}
	prog := h.store.Program(st.ShaderIndex)
	if !slices.Contains(h.device.calls, "use "+itoa(int(prog))) {
		t.Errorf("program %d not activated: %v", prog, h.device.calls)
	}
	if !slices.Contains(h.device.calls, "enable 0") || !slices.Contains(h.device.calls, "enable 1") {
		t.Errorf("vertex inputs not enabled: %v", h.device.calls)
	}
	if h.device.draws != 1 {
		t.Errorf("draws = %d, want 1", h.device.draws)
	}
}

func TestRotationAfterCycleDuration(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 5, 12)

	h.engine.Step(7001)
	if got := h.engine.State().Cycles; got != 1 {
		t.Fatalf("cycles after first step = %d, want 1", got)
	}
	h.engine.Step(1)

	st := h.engine.State()
	if st.Cycles != 2 {
		t.Errorf("cycles = %d, want exactly one rotation after the initial selection", st.Cycles)
	}
	if st.CycleElapsedMs != 1 {
		t.Errorf("cycle elapsed = %v, want 1", st.CycleElapsedMs)
	}
	if st.TotalElapsedMs != 7002 {
		t.Errorf("total elapsed = %v, want 7002", st.TotalElapsedMs)
	}
}

func TestNoRotationAtExactDuration(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 5, 12)
	h.engine.Step(7000)
	h.engine.Step(1)
	if got := h.engine.State().Cycles; got != 1 {
		t.Errorf("cycles = %d, want 1", got)
	}
}

func TestForceRotation(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 5, 12)
	h.engine.Step(10)
	h.engine.ForceRotation()
	h.engine.Step(10)
	st := h.engine.State()
	if st.Cycles != 2 {
		t.Errorf("cycles = %d, want 2", st.Cycles)
	}
	if st.CycleElapsedMs != 10 {
		t.Errorf("cycle elapsed = %v, want 10", st.CycleElapsedMs)
	}
}

func TestOverlayRedrawCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollerUpdateInterval = 3
	h := newHarness(t, cfg, 2, 2)

	var redrawFrames []int
	for frame := 1; frame <= 12; frame++ {
		before := h.device.uploads
		h.engine.Step(16)
		if h.device.uploads != before {
			redrawFrames = append(redrawFrames, frame)
		}
		if ticks := h.engine.State().ScrollerTicks; ticks < 0 || ticks > cfg.ScrollerUpdateInterval {
			t.Fatalf("frame %d: ticks %d outside [0,%d]", frame, ticks, cfg.ScrollerUpdateInterval)
		}
	}
	want := []int{3, 6, 9, 12}
	if !slices.Equal(redrawFrames, want) {
		t.Errorf("redraw frames = %v, want %v", redrawFrames, want)
	}
	if len(h.overlay.states) != len(want) {
		t.Errorf("overlay renders = %d, want %d", len(h.overlay.states), len(want))
	}
}

func TestOverlayUploadPrecedesDraw(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollerUpdateInterval = 1
	h := newHarness(t, cfg, 1, 1)
	h.engine.Step(16)

	upload := slices.Index(h.device.calls, "upload 500")
	draw := slices.Index(h.device.calls, "draw 0 4")
	if upload < 0 || draw < 0 || upload > draw {
		t.Fatalf("upload at %d, draw at %d: %v", upload, draw, h.device.calls)
	}
	if h.device.calls[upload-1] != "unit 1" {
		t.Errorf("overlay uploaded on %q, want unit 1", h.device.calls[upload-1])
	}
}

func TestOverlayRendersStateBeforeAdvance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollerUpdateInterval = 1
	h := newHarness(t, cfg, 1, 1)

	h.engine.Step(4000)
	h.engine.Step(3000)
	h.engine.Step(16)

	want := []scroller.Phase{scroller.LeadIn, scroller.FadeIn, scroller.DisplayText}
	var got []scroller.Phase
	for _, s := range h.overlay.states {
		got = append(got, s.Phase)
	}
	if !slices.Equal(got, want) {
		t.Errorf("rendered phases = %v, want %v", got, want)
	}
}

func TestScrollerReachesDisplayText(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scroller = scroller.Timing{LeadInMs: 4000, FadeInMs: 3000}
	h := newHarness(t, cfg, 1, 1)

	h.engine.Step(4000)
	h.engine.Step(3000)

	s := h.engine.ScrollerState()
	if s.Phase != scroller.DisplayText || s.PhaseElapsedMs != 0 {
		t.Errorf("scroller = %v/%v, want display-text/0", s.Phase, s.PhaseElapsedMs)
	}
}

func TestZeroStepIsIdempotent(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 5, 12)
	h.engine.Step(0)
	first := h.engine.State()
	firstScroller := h.engine.ScrollerState()
	uploads := h.device.uploads

	for i := 0; i < 50; i++ {
		h.engine.Step(0)
	}
	if got := h.engine.State(); got != first {
		t.Errorf("state changed: %+v, want %+v", got, first)
	}
	if got := h.engine.ScrollerState(); got != firstScroller {
		t.Errorf("scroller changed: %+v, want %+v", got, firstScroller)
	}
	if h.device.uploads != uploads {
		t.Errorf("uploads went from %d to %d", uploads, h.device.uploads)
	}
	if h.device.draws != 51 {
		t.Errorf("draws = %d, want 51", h.device.draws)
	}
}

func TestDrawSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollerUpdateInterval = 100
	h := newHarness(t, cfg, 1, 1)
	h.engine.SetLevelSource(constLevel(0.25))
	h.engine.Step(16)
	h.device.reset()
	h.engine.Step(16)

	st := h.engine.State()
	want := []string{
		"clear",
		"bindbuf 1",
		"attrib 0 size=3",
		"bindbuf 2",
		"attrib 1 size=2",
		"unit 0",
		"bindtex 101",
		"uniform1i 10=0",
		"unit 1",
		"bindtex 500",
		"uniform1i 11=1",
		"uniform1f 12=" + ftoa(float32(st.CycleTimeOffsetMs+16)),
		"uniform1f 13=0.25",
		"draw 0 4",
	}
	if !slices.Equal(h.device.calls, want) {
		t.Errorf("calls =\n%v\nwant\n%v", h.device.calls, want)
	}
}

func TestShaderTimeIncludesOffset(t *testing.T) {
	cfg := DefaultConfig()
	h := &harness{store: &fakeStore{programs: 1, textures: 1}, device: &fakeDevice{}}
	e, err := New(cfg, h.store, h.device, nil, &seqRand{values: []float64{0.25}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Step(100)
	e.Step(100)
	if h.device.lastTime != 350 {
		t.Errorf("time uniform = %v, want 350", h.device.lastTime)
	}
}

func TestAbsentHandlesSkipDraw(t *testing.T) {
	d := &fakeDevice{}
	e, err := New(DefaultConfig(), absentStore{}, d, &fakeOverlay{}, &seqRand{values: []float64{0.5}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e.Step(16)
	if d.draws != 0 {
		t.Errorf("draws = %d, want 0", d.draws)
	}
	if slices.ContainsFunc(d.calls, func(c string) bool { return c == "use 0" || c == "bindtex 0" }) {
		t.Errorf("absent handle was bound: %v", d.calls)
	}
	if !slices.Contains(d.calls, "clear") {
		t.Errorf("frame was not cleared: %v", d.calls)
	}
}

func TestNoOverlayTextureSkipsUpload(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollerUpdateInterval = 1
	store := &fakeStore{programs: 1, textures: 1}
	d := &fakeDevice{}
	o := &fakeOverlay{}
	e, err := New(cfg, store, d, o, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Step(16)
	if d.uploads != 0 {
		t.Errorf("uploads = %d, want 0", d.uploads)
	}
	if len(o.states) != 1 {
		t.Errorf("overlay renders = %d, want 1", len(o.states))
	}
	if slices.Contains(d.calls, "unit 1") {
		t.Errorf("overlay unit touched without an overlay texture: %v", d.calls)
	}
}

func TestNegativeDeltaTreatedAsZero(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 2, 2)
	h.engine.Step(-50)
	if st := h.engine.State(); st.TotalElapsedMs != 0 || st.CycleElapsedMs != 0 {
		t.Errorf("negative delta moved timers: %+v", st)
	}
}

func TestDestroyReleasesBuffers(t *testing.T) {
	h := newHarness(t, DefaultConfig(), 1, 1)
	h.engine.Destroy()
	h.engine.Destroy()
	if !slices.Equal(h.device.deleted, []graphics.Buffer{1, 2}) {
		t.Errorf("deleted = %v, want [1 2]", h.device.deleted)
	}
}

// absentStore reports non-empty counts but has no handles.
type absentStore struct{}

func (absentStore) ProgramCount() int                { return 3 }
func (absentStore) TextureCount() int                { return 3 }
func (absentStore) Program(int) graphics.Program     { return 0 }
func (absentStore) Texture(int) graphics.Texture     { return 0 }
func (absentStore) OverlayTexture() graphics.Texture { return 0 }
