package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/config"
	"github.com/san-kum/audioswarm/internal/export"
	"github.com/san-kum/audioswarm/internal/headless"
	"github.com/san-kum/audioswarm/internal/surface"
	"github.com/san-kum/audioswarm/internal/sweep"
	"github.com/spf13/cobra"
)

// headlessEvents returns nil for the demo source, which the headless
// runner pulls directly instead of waiting on wall-clock pacing.
func headlessEvents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (<-chan audio.Event, error) {
	if cfg.Audio.Source == audio.SourceDemo || cfg.Audio.Source == "" {
		return nil, nil
	}
	return startSource(ctx, cfg, logger)
}

func render(cmd *cobra.Command, cfg *config.Config, screen surface.Screen, frames int, logger *slog.Logger) (*headless.Result, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	events, err := headlessEvents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return headless.Run(ctx, headless.Options{
		Config: cfg,
		Screen: screen,
		Frames: frames,
		Events: events,
		Logger: logger,
	})
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	start := time.Now()
	res, err := render(cmd, cfg, nil, simFrames, logger)
	if err != nil {
		return err
	}
	ctrl, recorder, elapsed := res.Controller, res.Recorder, res.Elapsed

	fmt.Printf("simulated %d frames of %d boids in %v (%.0f frames/s)\n",
		ctrl.Frames(), 2*len(cfg.BandList()), elapsed.Round(time.Millisecond),
		float64(ctrl.Frames())/elapsed.Seconds())
	left, right := ctrl.Averages()
	fmt.Printf("decay %.4f, excitation left %.1f right %.1f\n\n", ctrl.Decay(), left, right)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tLAST")
	for _, m := range recorder.Metrics() {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", m.Name(), m.Value(), m.Last())
	}
	w.Flush()

	if plot {
		for _, m := range recorder.Metrics() {
			data := recorder.Series(m.Name())
			if len(data) < 2 {
				continue
			}
			fmt.Println()
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption(m.Name()),
			))
		}
	}

	if jsonOut == "" && csvOut == "" {
		return nil
	}
	report := &export.Report{
		Preset:    preset,
		Source:    cfg.Audio.Source,
		Seed:      cfg.Seed,
		Timestamp: start,
		Frames:    int(ctrl.Frames()),
		Bands:     len(cfg.BandList()),
		Params:    cfg.Swarm,
		Metrics:   res.Summary(),
		Series:    make(map[string][]float64),
	}
	for _, m := range recorder.Metrics() {
		report.Series[m.Name()] = recorder.Series(m.Name())
	}
	if jsonOut != "" {
		if err := export.WriteJSON(jsonOut, report); err != nil {
			return err
		}
	}
	if csvOut != "" {
		if err := export.WriteCSV(csvOut, report); err != nil {
			return err
		}
		fmt.Printf("\nexported to %s\n", csvOut)
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	path := fmt.Sprintf("audioswarm_%d.png", cfg.Seed)
	if len(args) > 0 {
		path = args[0]
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		screen := &export.SVGScreen{Depth: depth}
		if _, err := render(cmd, cfg, screen, snapFrames, logger); err != nil {
			return err
		}
		visible := screen.Attached()
		if visible == nil {
			return fmt.Errorf("snapshot: nothing rendered")
		}
		err = writeFile(path, func(f *os.File) error {
			_, err := visible.WriteTo(f)
			return err
		})
	case ".png":
		screen := surface.NewMemory(1)
		if _, err := render(cmd, cfg, screen, snapFrames, logger); err != nil {
			return err
		}
		visible := screen.Attached()
		if visible == nil {
			return fmt.Errorf("snapshot: nothing rendered")
		}
		err = writeFile(path, func(f *os.File) error {
			return png.Encode(f, visible.Image())
		})
	default:
		return fmt.Errorf("snapshot: unsupported format %q (use .png or .svg)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", path)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(axes) == 0 {
		return fmt.Errorf("sweep needs at least one --axis (parameters: %s)", strings.Join(sweep.Params, ", "))
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Audio.Source != audio.SourceDemo {
		return fmt.Errorf("sweep only runs on the demo source, got %q", cfg.Audio.Source)
	}
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	var grid sweep.Grid
	for _, axis := range axes {
		if err := grid.Add(axis); err != nil {
			return err
		}
	}

	runner := &sweep.Runner{Base: cfg, Frames: sweepFrames, Workers: workers, Scale: 0.25, Logger: logger}
	start := time.Now()
	results, err := runner.Run(cmd.Context(), &grid)
	if err != nil {
		return err
	}
	fmt.Printf("swept %d points x %d frames in %v\n\n", len(results), sweepFrames, time.Since(start).Round(time.Millisecond))

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Metrics[metric], results[j].Metrics[metric]
		if minimize {
			return a < b
		}
		return a > b
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "POINT\tSPEED\tPOLARIZATION\tCROWDING\tCONTAINMENT\n")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s\tinvalid: %v\n", res.Point, res.Err)
			continue
		}
		m := res.Metrics
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\n", res.Point, m["speed"], m["polarization"], m["crowding"], m["containment"])
	}
	w.Flush()

	best, ok := sweep.Best(results, metric, !minimize)
	if !ok {
		return fmt.Errorf("no valid point reported metric %q", metric)
	}
	fmt.Printf("\nbest %s: %.4f at %s\n", metric, best.Metrics[metric], best.Point)
	return nil
}
