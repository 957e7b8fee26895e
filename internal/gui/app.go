package gui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/config"
	"github.com/san-kum/audioswarm/internal/palette"
	"github.com/san-kum/audioswarm/internal/visualizer"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type Options struct {
	Config *config.Config
	Events <-chan audio.Event
	Source string
	Rng    *rand.Rand
	Logger *slog.Logger
}

// App is the raylib front end. Its main loop is the host goroutine.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	window *Window
	queue  *visualizer.Queue
	ctrl   *visualizer.Controller
	events <-chan audio.Event
	source string

	held       bool
	sourceDone bool
	showHUD    bool
}

func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	queue := visualizer.NewQueue()
	colors := boids.ColorMapper(palette.Named(cfg.Palette))
	return &App{
		cfg:     cfg,
		logger:  logger,
		window:  &Window{},
		queue:   queue,
		ctrl:    visualizer.New(cfg.Swarm, cfg.Visual, queue, colors, opts.Rng, logger),
		events:  opts.Events,
		source:  opts.Source,
		showHUD: true,
	}
}

func initWindow(width, height, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), "audioswarm")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed, Q is pressed or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	initWindow(a.cfg.Width, a.cfg.Height, a.cfg.FPS)
	defer rl.CloseWindow()
	defer a.window.Close()

	if err := a.start(); err != nil {
		return err
	}
	defer a.ctrl.Stop()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := a.Update(); quit {
			return nil
		}
		a.Draw()
	}
	return nil
}

func (a *App) start() error {
	return a.ctrl.FadeIn(visualizer.Options{
		Bands:  a.cfg.BandList(),
		Screen: a.window,
		Width:  rl.GetScreenWidth(),
		Height: rl.GetScreenHeight(),
	})
}

// Update handles input, drains pending audio events and steps the
// scheduler by the frame time.
func (a *App) Update() (quit bool) {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.held = !a.held
		if a.held {
			a.ctrl.Pause()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.ctrl.Stop()
		if err := a.start(); err != nil {
			a.logger.Error("restart failed", "err", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyF) {
		if a.ctrl.Initialized() {
			a.ctrl.FadeOut(0)
		} else if err := a.start(); err != nil {
			a.logger.Error("fade in failed", "err", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHUD = !a.showHUD
	}
	if rl.IsWindowResized() {
		a.ctrl.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	a.drain()
	a.queue.Step(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))
	return false
}

func (a *App) drain() {
	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				if !a.sourceDone {
					a.sourceDone = true
					a.ctrl.Pause()
					a.logger.Info("audio source finished")
				}
				a.events = nil
				return
			}
			if !a.held {
				a.ctrl.HandleEvent(ev)
			}
		default:
			return
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.window.Present()
	if a.showHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	status := "waiting for audio"
	switch {
	case !a.ctrl.Initialized():
		status = "stopped"
	case a.held:
		status = "held"
	case a.sourceDone:
		status = "ended"
	case a.ctrl.Running():
		status = "running"
	}
	l, r := a.ctrl.Averages()
	lines := []string{
		fmt.Sprintf("%s  %s  %d fps", a.source, status, rl.GetFPS()),
		fmt.Sprintf("decay %.3f  level %.1f / %.1f", a.ctrl.Decay(), l, r),
	}
	for i, line := range lines {
		rl.DrawText(line, 12, int32(12+18*i), 16, ColText)
	}
	rl.DrawText("SPACE hold  R restart  F fade  H hud  Q quit", 12, int32(rl.GetScreenHeight()-24), 14, ColTextDim)
}
