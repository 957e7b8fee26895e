package audio

import (
	"context"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	phraseLength = 1500 * time.Millisecond
	voices       = 3
)

// Synth is the demo source: a sequence of randomly panned sine chords built
// from the band centers. It is deterministic for a given seed, so Next can
// drive headless runs without a clock.
type Synth struct {
	rate     beep.SampleRate
	analyzer *Analyzer
	streamer beep.Streamer

	buf         [][2]float64
	left, right []float64
}

func NewSynth(s Settings, seed int64) (*Synth, error) {
	analyzer, err := NewAnalyzer(s)
	if err != nil {
		return nil, err
	}
	rate := beep.SampleRate(s.SampleRate)

	var tones []float64
	for _, f := range s.Bands {
		// stay clear of the nyquist limit SineTone rejects
		if f >= 40 && f < float64(rate)/2.5 {
			tones = append(tones, f)
		}
	}
	if len(tones) == 0 {
		tones = []float64{float64(rate) / 8}
	}

	return &Synth{
		rate:     rate,
		analyzer: analyzer,
		streamer: &phrases{rate: rate, tones: tones, rng: rand.New(rand.NewSource(seed))},
		buf:      make([][2]float64, s.BufferSize),
		left:     make([]float64, s.BufferSize),
		right:    make([]float64, s.BufferSize),
	}, nil
}

// Next synthesizes and analyses one block.
func (s *Synth) Next() Spectrum {
	n, _ := s.streamer.Stream(s.buf)
	split(s.buf[:n], s.left, s.right)
	return s.analyzer.Process(s.left[:n], s.right[:n])
}

// Run paces Next at the synth's sample rate.
func (s *Synth) Run(ctx context.Context, events chan<- Event) error {
	ticker := time.NewTicker(s.rate.D(len(s.buf)))
	defer ticker.Stop()
	for {
		if !send(ctx, events, Event{Kind: EventSpectrum, Spectrum: s.Next()}) {
			return nil
		}
		select {
		case <-ctx.Done():
			notify(events, Event{Kind: EventPause})
			return nil
		case <-ticker.C:
		}
	}
}

// phrases never drains; each phrase is a fresh chord.
type phrases struct {
	rate  beep.SampleRate
	tones []float64
	rng   *rand.Rand
	cur   beep.Streamer
}

func (p *phrases) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		if p.cur == nil {
			p.cur = p.chord()
		}
		n, ok := p.cur.Stream(samples[filled:])
		filled += n
		if !ok {
			p.cur = nil
		}
	}
	return filled, true
}

func (p *phrases) Err() error { return nil }

func (p *phrases) chord() beep.Streamer {
	parts := make([]beep.Streamer, 0, voices)
	for i := 0; i < voices; i++ {
		f := p.tones[p.rng.Intn(len(p.tones))]
		sine, err := generators.SineTone(p.rate, f)
		if err != nil {
			continue
		}
		panned := &effects.Pan{Streamer: sine, Pan: p.rng.Float64()*2 - 1}
		parts = append(parts, &effects.Gain{Streamer: panned, Gain: 1.0/voices - 1})
	}
	if len(parts) == 0 {
		parts = append(parts, beep.Silence(-1))
	}
	return beep.Take(p.rate.N(phraseLength), beep.Mix(parts...))
}
