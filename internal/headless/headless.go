// Package headless drives a visualizer on a virtual clock without a
// display, for batch runs, snapshots and parameter sweeps.
//
// Each frame consumes one audio event and advances the scheduler by one
// frame interval, so runs are deterministic for a given seed.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/config"
	"github.com/san-kum/audioswarm/internal/metrics"
	"github.com/san-kum/audioswarm/internal/palette"
	"github.com/san-kum/audioswarm/internal/surface"
	"github.com/san-kum/audioswarm/internal/visualizer"
)

type Options struct {
	Config *config.Config
	// Screen receives the surfaces. Nil renders into memory at Scale.
	Screen surface.Screen
	Scale  float64
	Frames int
	// Events feeds the run. Nil pulls the demo synth directly.
	Events <-chan audio.Event
	Logger *slog.Logger
}

type Result struct {
	Controller *visualizer.Controller
	Recorder   *metrics.Recorder
	Elapsed    time.Duration
}

// Summary returns each metric's mean.
func (r *Result) Summary() map[string]float64 {
	out := make(map[string]float64)
	for _, m := range r.Recorder.Metrics() {
		out[m.Name()] = m.Value()
	}
	return out
}

// Run renders until opts.Frames frames are drawn, the source pauses or
// closes, or ctx is cancelled.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("headless: frames must be positive, got %d", opts.Frames)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	screen := opts.Screen
	if screen == nil {
		scale := opts.Scale
		if scale <= 0 {
			scale = 1
		}
		screen = surface.NewMemory(scale)
	}

	next, err := feed(ctx, cfg, opts.Events)
	if err != nil {
		return nil, err
	}

	queue := visualizer.NewQueue()
	colors := boids.ColorMapper(palette.Named(cfg.Palette))
	ctrl := visualizer.New(cfg.Swarm, cfg.Visual, queue, colors, rand.New(rand.NewSource(cfg.Seed)), logger)
	recorder := metrics.NewRecorder(opts.Frames, metrics.Standard()...)
	ctrl.OnFrame(recorder.Observe)

	err = ctrl.Start(visualizer.Options{
		Bands:  cfg.BandList(),
		Screen: screen,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	dt := time.Second / time.Duration(cfg.FPS)
	for ctrl.Frames() < uint64(opts.Frames) {
		ev, ok := next()
		if !ok {
			break
		}
		ctrl.HandleEvent(ev)
		if ev.Kind == audio.EventPause {
			logger.Debug("source paused", "frames", ctrl.Frames())
			break
		}
		queue.Step(dt)
	}
	return &Result{Controller: ctrl, Recorder: recorder, Elapsed: time.Since(start)}, nil
}

func feed(ctx context.Context, cfg *config.Config, events <-chan audio.Event) (func() (audio.Event, bool), error) {
	if events != nil {
		return func() (audio.Event, bool) {
			select {
			case ev, ok := <-events:
				return ev, ok
			case <-ctx.Done():
				return audio.Event{}, false
			}
		}, nil
	}

	synth, err := audio.NewSynth(cfg.AudioSettings(), cfg.Seed)
	if err != nil {
		return nil, err
	}
	return func() (audio.Event, bool) {
		if ctx.Err() != nil {
			return audio.Event{}, false
		}
		return audio.Event{Kind: audio.EventSpectrum, Spectrum: synth.Next()}, true
	}, nil
}
