// Package audio turns sound into per-band spectrum frames for the visualizer.
//
// A Source runs on its own goroutine and hands Events to the host over a
// channel. The host thread is the only consumer; nothing in this package
// touches visualizer state.
package audio

import (
	"context"
	"errors"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// Floor is the lowest level an Analyzer reports, in dB.
	Floor = -96.0
)

// ErrUnknownSource is returned by NewSource for an unrecognised source name.
var ErrUnknownSource = errors.New("audio: unknown source")

// Bands31 are the ISO third-octave band centers from 20 Hz to 20 kHz.
var Bands31 = []float64{
	20, 25, 31.5, 40, 50, 63, 80, 100, 125, 160,
	200, 250, 315, 400, 500, 630, 800, 1000, 1250, 1600,
	2000, 2500, 3150, 4000, 5000, 6300, 8000, 10000, 12500, 16000,
	20000,
}

// Spectrum holds one dB value per band for each channel.
type Spectrum struct {
	Left  []float64
	Right []float64
}

type EventKind int

const (
	EventSpectrum EventKind = iota
	EventPause
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventPause:
		return "pause"
	case EventReset:
		return "reset"
	}
	return "spectrum"
}

// Event is what sources deliver to the host.
type Event struct {
	Kind     EventKind
	Spectrum Spectrum
}

// Source produces events until ctx is cancelled or the input ends.
type Source interface {
	Run(ctx context.Context, events chan<- Event) error
}

// Settings configure analysis for every source.
type Settings struct {
	SampleRate int       `yaml:"sample_rate"`
	BufferSize int       `yaml:"buffer_size"`
	Smoothing  float64   `yaml:"smoothing"`
	Bands      []float64 `yaml:"-"`
}

func DefaultSettings() Settings {
	return Settings{
		SampleRate: SampleRate,
		BufferSize: BufferSize,
		Smoothing:  0.6,
		Bands:      Bands31,
	}
}

func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// notify delivers ev only if the host is ready for it.
func notify(events chan<- Event, ev Event) {
	select {
	case events <- ev:
	default:
	}
}
