package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// Capture reads the default stereo input device through portaudio.
type Capture struct {
	settings Settings
	logger   *slog.Logger
}

func NewCapture(s Settings, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{settings: s, logger: logger}
}

func (c *Capture) Run(ctx context.Context, events chan<- Event) error {
	analyzer, err := NewAnalyzer(c.settings)
	if err != nil {
		return err
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	frames := c.settings.BufferSize
	in := make([]float32, frames*2)
	stream, err := portaudio.OpenDefaultStream(2, 0, float64(c.settings.SampleRate), frames, in)
	if err != nil {
		return fmt.Errorf("audio: open input: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("audio: start input: %w", err)
	}
	defer stream.Stop()

	c.logger.Info("capture started", "rate", c.settings.SampleRate, "frames", frames)

	left := make([]float64, frames)
	right := make([]float64, frames)
	for {
		if ctx.Err() != nil {
			notify(events, Event{Kind: EventPause})
			return nil
		}
		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				c.logger.Debug("input overflowed")
				continue
			}
			return fmt.Errorf("audio: read input: %w", err)
		}
		for i := 0; i < frames; i++ {
			left[i] = float64(in[2*i])
			right[i] = float64(in[2*i+1])
		}
		if !send(ctx, events, Event{Kind: EventSpectrum, Spectrum: analyzer.Process(left, right)}) {
			return nil
		}
	}
}
