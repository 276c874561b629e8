package scroller

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestAdvanceTransitions(t *testing.T) {
	timing := DefaultTiming()

	s := State{}
	s = s.Advance(4000, timing)
	if s.Phase != FadeIn || s.PhaseElapsedMs != 0 {
		t.Fatalf("after 4000ms got %v/%v, want fade-in/0", s.Phase, s.PhaseElapsedMs)
	}
	s = s.Advance(3000, timing)
	if s.Phase != DisplayText || s.PhaseElapsedMs != 0 {
		t.Fatalf("after 3000ms got %v/%v, want display-text/0", s.Phase, s.PhaseElapsedMs)
	}
}

func TestAdvanceBelowThreshold(t *testing.T) {
	timing := DefaultTiming()
	s := State{}.Advance(3999, timing)
	if s.Phase != LeadIn {
		t.Errorf("phase = %v, want lead-in", s.Phase)
	}
	if s.PhaseElapsedMs != 3999 {
		t.Errorf("elapsed = %v, want 3999", s.PhaseElapsedMs)
	}
}

func TestAdvanceOneTransitionPerCall(t *testing.T) {
	s := State{}.Advance(100000, DefaultTiming())
	if s.Phase != FadeIn {
		t.Errorf("phase = %v, want fade-in", s.Phase)
	}
}

func TestDisplayTextIsTerminal(t *testing.T) {
	timing := DefaultTiming()
	s := State{Phase: DisplayText}
	for i := 0; i < 100; i++ {
		s = s.Advance(5000, timing)
		if s.Phase != DisplayText {
			t.Fatalf("left display-text at iteration %d: %v", i, s.Phase)
		}
	}
	if s.PhaseElapsedMs != 500000 {
		t.Errorf("elapsed = %v, want 500000", s.PhaseElapsedMs)
	}
}

func TestPhaseSequenceIsMonotonic(t *testing.T) {
	timing := DefaultTiming()
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 200; trial++ {
		s := State{}
		seen := []Phase{s.Phase}
		total := 0.0
		for total <= timing.LeadInMs+timing.FadeInMs+500 {
			d := rng.Float64()*250 + 0.001
			total += d
			next := s.Advance(d, timing)
			if next.Phase < s.Phase {
				t.Fatalf("trial %d: phase regressed from %v to %v", trial, s.Phase, next.Phase)
			}
			if next.Phase != s.Phase {
				seen = append(seen, next.Phase)
			}
			s = next
		}
		want := []Phase{LeadIn, FadeIn, DisplayText}
		if len(seen) != len(want) {
			t.Fatalf("trial %d: phase sequence %v, want %v", trial, seen, want)
		}
		for i := range want {
			if seen[i] != want[i] {
				t.Fatalf("trial %d: phase sequence %v, want %v", trial, seen, want)
			}
		}
	}
}

func TestBackgroundAlpha(t *testing.T) {
	timing := DefaultTiming()
	const nominal = 0.8

	tests := []struct {
		name  string
		state State
		want  float64
	}{
		{"lead-in", State{Phase: LeadIn, PhaseElapsedMs: 3000}, 0},
		{"fade-in start", State{Phase: FadeIn}, 0},
		{"fade-in half", State{Phase: FadeIn, PhaseElapsedMs: 1500}, 0.4},
		{"fade-in end", State{Phase: FadeIn, PhaseElapsedMs: 3000}, nominal},
		{"display", State{Phase: DisplayText, PhaseElapsedMs: 10}, nominal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.BackgroundAlpha(nominal, timing)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("alpha = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackgroundAlphaNonDecreasing(t *testing.T) {
	timing := DefaultTiming()
	prev := -1.0
	for ms := 0.0; ms <= timing.FadeInMs; ms += 7 {
		a := State{Phase: FadeIn, PhaseElapsedMs: ms}.BackgroundAlpha(1, timing)
		if a < prev {
			t.Fatalf("alpha decreased at %vms: %v < %v", ms, a, prev)
		}
		prev = a
	}
}

func TestPhaseString(t *testing.T) {
	if LeadIn.String() != "lead-in" || FadeIn.String() != "fade-in" || DisplayText.String() != "display-text" {
		t.Errorf("unexpected phase names: %v %v %v", LeadIn, FadeIn, DisplayText)
	}
	if Phase(9).String() != "phase(9)" {
		t.Errorf("unknown phase = %q", Phase(9).String())
	}
}
