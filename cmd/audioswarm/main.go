package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/config"
	"github.com/san-kum/audioswarm/internal/gui"
	"github.com/san-kum/audioswarm/internal/palette"
	"github.com/san-kum/audioswarm/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string
	seed       int64
	source     string
	audioFile  string
	// tui
	theme string
	// simulate and snapshot
	simFrames  int
	snapFrames int
	plot       bool
	jsonOut    string
	csvOut     string
	depth      int
	// sweep
	axes        []string
	sweepFrames int
	metric      string
	minimize    bool
	workers     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "audioswarm",
		Short:        "audio-reactive boid swarm visualizer",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "classic", "swarm preset")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.Int64Var(&seed, "seed", 0, "random seed (default: config seed, else time based)")
	pf.StringVar(&source, "source", audio.SourceDemo, "audio source (demo, mic, file)")
	pf.StringVar(&audioFile, "file", "", "wav file to play (implies --source file)")
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "terminal theme")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the visualizer in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "terminal theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the visualizer in a window",
		RunE:  runGUI,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run headless and report flock metrics",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().IntVar(&simFrames, "frames", 600, "number of frames")
	simulateCmd.Flags().BoolVar(&plot, "plot", true, "plot metric series")
	simulateCmd.Flags().StringVar(&jsonOut, "json", "", "write report as JSON (- for stdout)")
	simulateCmd.Flags().StringVar(&csvOut, "csv", "", "write metric series as CSV")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [output.png|output.svg]",
		Short: "render frames headless and save the visible surface",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to render before saving")
	snapshotCmd.Flags().IntVar(&depth, "depth", 30, "trail frames kept in SVG output")

	sweepCmd := &cobra.Command{
		Use:     "sweep",
		Short:   "grid-search swarm parameters headless",
		Example: "  audioswarm sweep --axis cohesion=0.5:2:4 --axis visibility=20,30,60 --metric polarization",
		RunE:    runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "parameter axis name=a,b,c or name=min:max:steps (repeatable)")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 300, "frames per point")
	sweepCmd.Flags().StringVar(&metric, "metric", "polarization", "metric to rank by")
	sweepCmd.Flags().BoolVar(&minimize, "min", false, "rank by lowest metric")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list swarm presets",
		RunE:  listPresets,
	}

	bandsCmd := &cobra.Command{
		Use:   "bands",
		Short: "show band centers and their colours",
		RunE:  showBands,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, simulateCmd, snapshotCmd, sweepCmd, presetsCmd, bandsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Audio.Source = source
	}
	if flags.Changed("file") {
		cfg.Audio.File = audioFile
		if !flags.Changed("source") {
			cfg.Audio.Source = audio.SourceFile
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the text logger. Logs go to --log-file when set,
// otherwise to fallback.
func newLogger(fallback io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	w, closeFn := fallback, func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// startSource runs the configured audio source on its own goroutine. The
// returned channel is closed when the source returns.
func startSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (<-chan audio.Event, error) {
	src, err := audio.NewSource(cfg.Audio.Source, cfg.Audio.File, cfg.AudioSettings(), cfg.Seed, logger)
	if err != nil {
		return nil, err
	}
	events := make(chan audio.Event, 4)
	go func() {
		defer close(events)
		if err := src.Run(ctx, events); err != nil {
			logger.Error("audio source failed", "source", cfg.Audio.Source, "err", err)
		}
	}()
	logger.Debug("audio source started", "source", cfg.Audio.Source, "bands", len(cfg.BandList()))
	return events, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stderr belongs to the terminal UI
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	events, err := startSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return viz.Run(viz.Options{
		Config: cfg,
		Events: events,
		Source: cfg.Audio.Source,
		Theme:  theme,
		Rng:    rand.New(rand.NewSource(cfg.Seed)),
		Logger: logger,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	events, err := startSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	app := gui.NewApp(gui.Options{
		Config: cfg,
		Events: events,
		Source: cfg.Audio.Source,
		Rng:    rand.New(rand.NewSource(cfg.Seed)),
		Logger: logger,
	})
	return app.Run(ctx)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBANDS\tVISIBILITY\tCOHESION\tSEPARATION\tMAX SPEED")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		p := cfg.Swarm
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\n",
			name, len(cfg.BandList()), p.Visibility, p.Cohesion, p.Separation, p.MaxSpeed)
	}
	return w.Flush()
}

func showBands(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	colors := palette.Named(cfg.Palette)
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fmt.Println(label.Render(fmt.Sprintf("palette %s, %d bands", cfg.Palette, len(cfg.BandList()))))
	for i, f := range cfg.BandList() {
		c, _ := colorful.MakeColor(colors(f))
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("      ")
		fmt.Printf("%3d %9.1f Hz %s %s\n", i, f, swatch, label.Render(c.Hex()))
	}
	return nil
}
