package scroller

import "fmt"

// Phase is one stage of the banner lifecycle.
type Phase int

const (
	// LeadIn is the delay before any part of the banner is shown.
	LeadIn Phase = iota
	// FadeIn fades the background strip in.
	FadeIn
	// DisplayText scrolls the message. It is terminal.
	DisplayText
)

func (p Phase) String() string {
	switch p {
	case LeadIn:
		return "lead-in"
	case FadeIn:
		return "fade-in"
	case DisplayText:
		return "display-text"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Timing holds the fixed duration of each non-terminal phase, in milliseconds.
type Timing struct {
	LeadInMs float64
	FadeInMs float64
}

// DefaultTiming returns a 4s lead-in followed by a 3s fade-in.
func DefaultTiming() Timing {
	return Timing{
		LeadInMs: 4000,
		FadeInMs: 3000,
	}
}

// State is the banner phase together with the time spent in it.
type State struct {
	Phase          Phase
	PhaseElapsedMs float64
}

// Advance accumulates deltaMs and returns the resulting state. At most one
// transition happens per call and the elapsed time restarts at zero on it.
func (s State) Advance(deltaMs float64, timing Timing) State {
	s.PhaseElapsedMs += deltaMs

	switch {
	case s.Phase == LeadIn && s.PhaseElapsedMs >= timing.LeadInMs:
		return State{Phase: FadeIn}
	case s.Phase == FadeIn && s.PhaseElapsedMs >= timing.FadeInMs:
		return State{Phase: DisplayText}
	}
	return s
}

// BackgroundAlpha returns the strip opacity for the state: zero during the
// lead-in, a linear ramp up to nominal while fading in, nominal afterwards.
func (s State) BackgroundAlpha(nominal float64, timing Timing) float64 {
	switch s.Phase {
	case LeadIn:
		return 0
	case FadeIn:
		if timing.FadeInMs <= 0 {
			return nominal
		}
		f := s.PhaseElapsedMs / timing.FadeInMs
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		return nominal * f
	default:
		return nominal
	}
}
