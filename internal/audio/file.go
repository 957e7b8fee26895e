package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// FileSource plays a WAV file through the analyzer at real-time pace.
// Playback is silent; only spectrum events are produced.
type FileSource struct {
	path     string
	settings Settings
	logger   *slog.Logger
}

func NewFileSource(path string, s Settings, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, settings: s, logger: logger}
}

func (f *FileSource) Run(ctx context.Context, events chan<- Event) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	streamer, format, err := wav.Decode(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("audio: decode %s: %w", f.path, err)
	}
	defer streamer.Close()

	settings := f.settings
	settings.SampleRate = int(format.SampleRate)
	analyzer, err := NewAnalyzer(settings)
	if err != nil {
		return err
	}

	f.logger.Info("playing file", "path", f.path, "rate", int(format.SampleRate),
		"duration", format.SampleRate.D(streamer.Len()).Round(time.Millisecond))

	return pace(ctx, events, streamer, format.SampleRate, analyzer)
}

// pace streams blocks from s, one per block duration, until s drains.
func pace(ctx context.Context, events chan<- Event, s beep.Streamer, rate beep.SampleRate, analyzer *Analyzer) error {
	frames := analyzer.size
	buf := make([][2]float64, frames)
	left := make([]float64, frames)
	right := make([]float64, frames)

	ticker := time.NewTicker(rate.D(frames))
	defer ticker.Stop()

	for {
		n, ok := s.Stream(buf)
		if n > 0 {
			split(buf[:n], left, right)
			if !send(ctx, events, Event{Kind: EventSpectrum, Spectrum: analyzer.Process(left[:n], right[:n])}) {
				return nil
			}
		}
		if !ok {
			if err := s.Err(); err != nil {
				return fmt.Errorf("audio: stream: %w", err)
			}
			send(ctx, events, Event{Kind: EventPause})
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

func split(buf [][2]float64, left, right []float64) {
	for i, s := range buf {
		left[i] = s[0]
		right[i] = s[1]
	}
}
