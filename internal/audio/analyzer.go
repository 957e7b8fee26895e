package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// halfThirdOctave is the ratio between a band center and its edges.
var halfThirdOctave = math.Pow(2, 1.0/6)

// hannENBW is the equivalent noise bandwidth of the Hann window in bins.
const hannENBW = 1.5

// Analyzer converts windowed stereo blocks into per-band levels in dB.
// It keeps smoothing state and must be used from one goroutine.
type Analyzer struct {
	size      int
	bins      [][2]int
	window    []float64
	norm      float64
	smoothing float64

	scratch     []float64
	left, right []float64
	primed      bool
}

func NewAnalyzer(s Settings) (*Analyzer, error) {
	if s.SampleRate <= 0 || s.BufferSize < 2 {
		return nil, fmt.Errorf("audio: invalid analyzer size %d at %d Hz", s.BufferSize, s.SampleRate)
	}
	if len(s.Bands) == 0 {
		return nil, fmt.Errorf("audio: analyzer needs at least one band")
	}
	if s.Smoothing < 0 || s.Smoothing >= 1 {
		return nil, fmt.Errorf("audio: smoothing %.2f outside [0, 1)", s.Smoothing)
	}

	a := &Analyzer{
		size:      s.BufferSize,
		bins:      make([][2]int, len(s.Bands)),
		window:    make([]float64, s.BufferSize),
		smoothing: s.Smoothing,
		scratch:   make([]float64, s.BufferSize),
		left:      make([]float64, len(s.Bands)),
		right:     make([]float64, len(s.Bands)),
	}

	var sum float64
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(s.BufferSize-1)))
		sum += a.window[i]
	}
	// a full-scale sine reads 0 dB
	a.norm = 2 / sum

	binHz := float64(s.SampleRate) / float64(s.BufferSize)
	nyquist := s.BufferSize / 2
	for i, f := range s.Bands {
		lo := int(math.Ceil(f / halfThirdOctave / binHz))
		hi := int(math.Floor(f * halfThirdOctave / binHz))
		if hi < lo {
			// band narrower than a bin
			lo = int(math.Round(f / binHz))
			hi = lo
		}
		lo = clampInt(lo, 1, nyquist)
		hi = clampInt(hi, lo, nyquist)
		a.bins[i] = [2]int{lo, hi}
	}
	return a, nil
}

// Bands returns the number of bands per channel.
func (a *Analyzer) Bands() int { return len(a.bins) }

// Process analyses one block per channel. Short blocks are zero padded.
// The returned slices are owned by the caller.
func (a *Analyzer) Process(left, right []float64) Spectrum {
	l := a.channel(left)
	r := a.channel(right)

	if !a.primed || a.smoothing == 0 {
		copy(a.left, l)
		copy(a.right, r)
		a.primed = true
	} else {
		for i := range l {
			a.left[i] = a.smoothing*a.left[i] + (1-a.smoothing)*l[i]
			a.right[i] = a.smoothing*a.right[i] + (1-a.smoothing)*r[i]
		}
	}

	return Spectrum{
		Left:  append([]float64(nil), a.left...),
		Right: append([]float64(nil), a.right...),
	}
}

func (a *Analyzer) channel(samples []float64) []float64 {
	for i := range a.scratch {
		v := 0.0
		if i < len(samples) {
			v = samples[i]
		}
		a.scratch[i] = v * a.window[i]
	}
	spec := fft.FFTReal(a.scratch)

	out := make([]float64, len(a.bins))
	for b, r := range a.bins {
		var power float64
		for k := r[0]; k <= r[1]; k++ {
			m := cmplx.Abs(spec[k]) * a.norm
			power += m * m
		}
		out[b] = toDB(math.Sqrt(power / hannENBW))
	}
	return out
}

func toDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return Floor
	}
	db := 20 * math.Log10(amplitude)
	switch {
	case db < Floor:
		return Floor
	case db > 0:
		return 0
	}
	return db
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
