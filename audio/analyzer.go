package audio

import (
	"math"
	"sync"

	fft "github.com/mjibson/go-dsp/fft"
)

const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Analyzer keeps a window of the most recently played samples and reduces
// it to a single 0..1 loudness level.
type Analyzer struct {
	mutex     sync.Mutex
	history   []float32
	pos       int
	window    []float64
	smoothing float64
	last      float64
}

// NewAnalyzer creates an analyzer over size mono samples. smoothing in [0,1)
// weights the previous level against the new one.
func NewAnalyzer(size int, smoothing float64) *Analyzer {
	return &Analyzer{
		history:   make([]float32, size),
		window:    blackmanWindow(size),
		smoothing: smoothing,
		last:      minDecibels,
	}
}

// Push appends interleaved samples, down-mixed to mono.
func (a *Analyzer) Push(samples []float32, channels int) {
	if channels < 1 {
		channels = 1
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	for i := 0; i+channels <= len(samples); i += channels {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i+c]
		}
		a.history[a.pos] = sum / float32(channels)
		a.pos = (a.pos + 1) % len(a.history)
	}
}

// Level returns the smoothed peak spectral magnitude, scaled from
// [-100 dB, -30 dB] to [0, 1].
func (a *Analyzer) Level() float32 {
	a.mutex.Lock()
	n := len(a.history)
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		samples[i] = float64(a.history[(a.pos+i)%n]) * a.window[i]
	}
	a.mutex.Unlock()

	spectrum := fft.FFTReal(samples)
	peak := 0.0
	for i := 1; i < n/2; i++ {
		re := real(spectrum[i])
		im := imag(spectrum[i])
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / float64(n))
		peak = math.Max(peak, magnitude)
	}
	db := 20 * math.Log10(peak+1e-9)

	a.mutex.Lock()
	a.last = a.smoothing*a.last + (1.0-a.smoothing)*db
	smoothed := a.last
	a.mutex.Unlock()

	switch {
	case smoothed < minDecibels:
		return 0
	case smoothed > maxDecibels:
		return 1
	default:
		return float32((smoothed - minDecibels) / (maxDecibels - minDecibels))
	}
}

// blackmanWindow generates a Blackman window of the given size.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	if size < 2 {
		for i := range window {
			window[i] = 1
		}
		return window
	}
	a0 := 0.42
	a1 := 0.5
	a2 := 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - (a1 * math.Cos(2*math.Pi*t)) + (a2 * math.Cos(4*math.Pi*t))
	}
	return window
}
