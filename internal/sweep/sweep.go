// Package sweep grid-searches swarm tunings. Every point of the grid is
// rendered headless from the same seed and scored by the flock metrics.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/san-kum/audioswarm/internal/config"
	"github.com/san-kum/audioswarm/internal/headless"
)

var (
	ErrUnknownParam = errors.New("sweep: unknown parameter")
	ErrBadAxis      = errors.New("sweep: bad axis")
)

// Params lists the names Apply accepts.
var Params = []string{
	"visibility", "separation_distance", "cohesion", "alignment", "separation",
	"avoidance", "max_speed", "boid_radius", "adjustment_multiplier",
	"heading_multiplier", "decay_gain",
}

// Apply sets one named tuning value on cfg.
func Apply(cfg *config.Config, name string, v float64) error {
	p := &cfg.Swarm
	switch name {
	case "visibility":
		p.Visibility = v
	case "separation_distance":
		p.SeparationDistance = v
	case "cohesion":
		p.Cohesion = v
	case "alignment":
		p.Alignment = v
	case "separation":
		p.Separation = v
	case "avoidance":
		p.Avoidance = v
	case "max_speed":
		p.MaxSpeed = v
	case "boid_radius":
		p.BoidRadius = v
	case "adjustment_multiplier":
		p.AdjustmentMultiplier = v
	case "heading_multiplier":
		p.HeadingMultiplier = v
	case "decay_gain":
		cfg.Visual.DecayGain = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// Point is one assignment of the grid's parameters.
type Point map[string]float64

func (p Point) String() string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, p[name])
	}
	return strings.Join(parts, " ")
}

type Grid struct {
	Params []string
	Values [][]float64
}

// Add appends an axis parsed from "name=a,b,c" or "name=min:max:steps".
func (g *Grid) Add(axis string) error {
	name, spec, ok := strings.Cut(axis, "=")
	if !ok || name == "" || spec == "" {
		return fmt.Errorf("%w: %q, want name=values", ErrBadAxis, axis)
	}
	if !slices.Contains(Params, name) {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}

	var values []float64
	if lo, rest, ok := strings.Cut(spec, ":"); ok {
		hi, n, ok := strings.Cut(rest, ":")
		if !ok {
			return fmt.Errorf("%w: %q, want min:max:steps", ErrBadAxis, spec)
		}
		from, err1 := strconv.ParseFloat(lo, 64)
		to, err2 := strconv.ParseFloat(hi, 64)
		steps, err3 := strconv.Atoi(n)
		if err := errors.Join(err1, err2, err3); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrBadAxis, spec, err)
		}
		if steps < 1 {
			return fmt.Errorf("%w: %q: steps must be positive", ErrBadAxis, spec)
		}
		values = linspace(from, to, steps)
	} else {
		for _, field := range strings.Split(spec, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrBadAxis, spec, err)
			}
			values = append(values, v)
		}
	}

	g.Params = append(g.Params, name)
	g.Values = append(g.Values, values)
	return nil
}

func linspace(from, to float64, steps int) []float64 {
	if steps == 1 {
		return []float64{from}
	}
	out := make([]float64, steps)
	step := (to - from) / float64(steps-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Points expands the grid, last axis varying fastest.
func (g *Grid) Points() []Point {
	if len(g.Params) == 0 {
		return nil
	}
	var out []Point
	var walk func(depth int, current Point)
	walk = func(depth int, current Point) {
		if depth == len(g.Params) {
			out = append(out, current)
			return
		}
		for _, v := range g.Values[depth] {
			next := make(Point, len(current)+1)
			for k, cv := range current {
				next[k] = cv
			}
			next[g.Params[depth]] = v
			walk(depth+1, next)
		}
	}
	walk(0, Point{})
	return out
}

type Result struct {
	Point   Point
	Metrics map[string]float64
	Frames  uint64
	Err     error
}

type Runner struct {
	Base   *config.Config
	Frames int
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
	// Scale of the in-memory raster each run draws into.
	Scale  float64
	Logger *slog.Logger
}

// Run evaluates every grid point. Points that fail validation carry
// their error in Result.Err; the returned error is ctx's.
func (r *Runner) Run(ctx context.Context, g *Grid) ([]Result, error) {
	points := g.Points()
	results := make([]Result, len(points))
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(points)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.evaluate(ctx, points[i])
				logger.Debug("sweep point done", "point", points[i].String(), "err", results[i].Err)
			}
		}()
	}
	for i := range points {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, ctx.Err()
}

func (r *Runner) evaluate(ctx context.Context, p Point) Result {
	base := r.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	cfg := *base
	for name, v := range p {
		if err := Apply(&cfg, name, v); err != nil {
			return Result{Point: p, Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Result{Point: p, Err: err}
	}

	res, err := headless.Run(ctx, headless.Options{
		Config: &cfg,
		Frames: r.Frames,
		Scale:  r.Scale,
		Logger: r.Logger,
	})
	if err != nil {
		return Result{Point: p, Err: err}
	}
	return Result{Point: p, Metrics: res.Summary(), Frames: res.Controller.Frames()}
}

// Best returns the successful result with the highest (or lowest) value
// of metric.
func Best(results []Result, metric string, maximize bool) (Result, bool) {
	var best Result
	bestVal := math.Inf(1)
	if maximize {
		bestVal = math.Inf(-1)
	}
	found := false
	for _, res := range results {
		v, ok := res.Metrics[metric]
		if res.Err != nil || !ok {
			continue
		}
		if (maximize && v > bestVal) || (!maximize && v < bestVal) {
			best, bestVal, found = res, v, true
		}
	}
	return best, found
}
