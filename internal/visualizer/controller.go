package visualizer

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/surface"
)

// Visual holds the compositing and fade settings.
type Visual struct {
	// ExcitationBias is added to each band's dB value to get excitation.
	ExcitationBias float64 `yaml:"excitation_bias"`
	// DecayGain maps mean excitation to the trail fade alpha.
	DecayGain    float64       `yaml:"decay_gain"`
	InitialDecay float64       `yaml:"initial_decay"`
	FadeInterval time.Duration `yaml:"fade_interval"`
	FadeInStep   float64       `yaml:"fade_in_step"`
	FadeOutStep  float64       `yaml:"fade_out_step"`
}

func DefaultVisual() Visual {
	return Visual{
		ExcitationBias: 96,
		DecayGain:      0.002,
		InitialDecay:   0.2,
		FadeInterval:   100 * time.Millisecond,
		FadeInStep:     0.1,
		FadeOutStep:    0.03,
	}
}

// Options describe where and what to draw.
type Options struct {
	Bands         []float64
	Screen        surface.Screen
	Width, Height int
}

func (o Options) validate() error {
	switch {
	case len(o.Bands) == 0:
		return fmt.Errorf("%w: no bands", ErrInvalidOptions)
	case o.Screen == nil:
		return fmt.Errorf("%w: no screen", ErrInvalidOptions)
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	return nil
}

// FrameObserver is called after every rendered frame.
type FrameObserver func(frame uint64, s *boids.Swarm)

// Controller feeds audio into a swarm and composites its frames.
type Controller struct {
	params boids.Params
	visual Visual
	sched  Scheduler
	colors boids.ColorMapper
	rng    *rand.Rand
	logger *slog.Logger

	screen        surface.Screen
	width, height int
	buffer        surface.Surface
	visible       surface.Surface
	swarm         *boids.Swarm

	initialized bool
	running     bool
	decay       float64
	avgLeft     float64
	avgRight    float64
	frames      uint64

	// session changes on Start and Stop; loop changes each time animation
	// restarts. Scheduled callbacks from an older value do nothing.
	session uint64
	loop    uint64
	// fade changes with every FadeIn and FadeOut so only the newest ramp
	// keeps stepping.
	fade uint64

	observers []FrameObserver
}

// New returns an uninitialized controller. A nil rng is seeded from the
// global source; a nil logger uses slog.Default.
func New(params boids.Params, visual Visual, sched Scheduler, colors boids.ColorMapper, rng *rand.Rand, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if visual.FadeInterval <= 0 {
		visual.FadeInterval = DefaultVisual().FadeInterval
	}
	return &Controller{
		params: params,
		visual: visual,
		sched:  sched,
		colors: colors,
		rng:    rng,
		logger: logger,
	}
}

// OnFrame registers an observer for rendered frames.
func (c *Controller) OnFrame(fn FrameObserver) {
	c.observers = append(c.observers, fn)
}

// Start allocates the surfaces and the swarm. It does nothing when the
// controller is already initialized.
func (c *Controller) Start(opts Options) error {
	if c.initialized {
		c.logger.Debug("start ignored: already initialized")
		return nil
	}
	if err := opts.validate(); err != nil {
		return err
	}

	swarm, err := boids.New(opts.Bands, float64(opts.Width), float64(opts.Height), c.params, c.colors, c.rng)
	if err != nil {
		return fmt.Errorf("visualizer: start: %w", err)
	}

	c.screen = opts.Screen
	c.width, c.height = opts.Width, opts.Height
	c.buffer = c.screen.NewSurface(c.width, c.height)
	c.visible = c.screen.NewSurface(c.width, c.height)
	c.screen.Attach(c.visible)
	c.buffer.SetAlpha(1)
	c.buffer.Clear()

	c.swarm = swarm
	c.decay = c.visual.InitialDecay
	c.avgLeft, c.avgRight = 0, 0
	c.frames = 0
	c.session++
	c.initialized = true
	c.running = false

	c.logger.Debug("visualizer started", "bands", len(opts.Bands), "width", c.width, "height", c.height)
	return nil
}

// HandleEvent dispatches an audio event.
func (c *Controller) HandleEvent(ev audio.Event) {
	switch ev.Kind {
	case audio.EventSpectrum:
		c.OnAudioFrame(ev.Spectrum)
	case audio.EventPause:
		c.Pause()
	case audio.EventReset:
		c.Reset()
	}
}

// OnAudioFrame sets every boid's excitation from s and recomputes the
// decay. The first frame after a pause starts the animation loop.
func (c *Controller) OnAudioFrame(s audio.Spectrum) {
	if !c.initialized {
		return
	}
	if !c.running {
		c.running = true
		c.loop++
		c.logger.Debug("animation running")
		c.animate()
	}

	n := c.swarm.Len()
	left, right := c.swarm.Left(), c.swarm.Right()
	var l, r float64
	for i := 0; i < n; i++ {
		le := c.excitation(s.Left, i)
		re := c.excitation(s.Right, i)
		left[i].SetExcitation(le)
		right[i].SetExcitation(re)
		l += le
		r += re
	}
	c.avgLeft = l / float64(n)
	c.avgRight = r / float64(n)
	c.decay = (c.avgLeft + c.avgRight) / 2 * c.visual.DecayGain
}

// excitation is the biased band value; missing, zero and NaN read as 1.
func (c *Controller) excitation(values []float64, i int) float64 {
	if i >= len(values) {
		return 1
	}
	v := values[i] + c.visual.ExcitationBias
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

func (c *Controller) Pause() {
	if c.running {
		c.logger.Debug("animation paused")
	}
	c.running = false
}

func (c *Controller) Reset() {
	if c.running {
		c.logger.Debug("animation reset")
	}
	c.running = false
}

func (c *Controller) animate() {
	if !c.running {
		return
	}
	session, loop := c.session, c.loop
	c.sched.RequestFrame(func() {
		if c.session == session && c.loop == loop {
			c.animate()
		}
	})

	c.swarm.Run(c.buffer)
	c.visible.FillRect(0, 0, float64(c.width), float64(c.height), surface.Black(c.decay))
	c.visible.DrawSurface(c.buffer)

	c.frames++
	for _, fn := range c.observers {
		fn(c.frames, c.swarm)
	}
}

// Resize changes both surfaces and the swarm's avoidance bounds. Boids are
// not moved.
func (c *Controller) Resize(width, height int) {
	if !c.initialized {
		return
	}
	if width <= 0 || height <= 0 {
		c.logger.Debug("resize ignored", "width", width, "height", height)
		return
	}
	c.width, c.height = width, height
	c.buffer.Resize(width, height)
	c.visible.Resize(width, height)
	c.swarm.SetBounds(float64(width), float64(height))
}

// Stop clears the buffer, detaches the visible surface, releases both
// surfaces and drops the swarm.
func (c *Controller) Stop() {
	if !c.initialized {
		return
	}
	c.buffer.Clear()
	c.screen.Detach(c.visible)
	c.screen.Release(c.buffer)
	c.screen.Release(c.visible)

	c.buffer, c.visible, c.swarm, c.screen = nil, nil, nil, nil
	c.running = false
	c.initialized = false
	c.session++
	c.logger.Debug("visualizer stopped", "frames", c.frames)
}

// FadeIn starts the controller with a transparent buffer and raises its
// alpha by FadeInStep every FadeInterval until it is opaque. It does
// nothing when the controller is already initialized.
func (c *Controller) FadeIn(opts Options) error {
	if c.initialized {
		c.logger.Debug("fade in ignored, already started")
		return nil
	}
	if err := c.Start(opts); err != nil {
		return err
	}
	c.buffer.SetAlpha(0)

	c.fade++
	session, gen := c.session, c.fade
	var step func()
	step = func() {
		if c.session != session || c.fade != gen {
			return
		}
		if a := c.buffer.Alpha(); a < 1 {
			c.buffer.SetAlpha(a + c.visual.FadeInStep)
			c.sched.AfterFunc(c.visual.FadeInterval, step)
		}
	}
	step()
	return nil
}

// FadeOut lowers the buffer alpha by step every FadeInterval and stops the
// controller once the alpha is at or below step. A step <= 0 uses
// FadeOutStep.
func (c *Controller) FadeOut(step float64) {
	if !c.initialized {
		return
	}
	if step <= 0 {
		step = c.visual.FadeOutStep
	}
	if step <= 0 {
		step = DefaultVisual().FadeOutStep
	}

	c.fade++
	session, gen := c.session, c.fade
	var fade func()
	fade = func() {
		if c.session != session || c.fade != gen {
			return
		}
		if a := c.buffer.Alpha(); a <= step {
			c.buffer.SetAlpha(0)
			c.Stop()
			return
		}
		c.buffer.SetAlpha(c.buffer.Alpha() - step)
		c.sched.AfterFunc(c.visual.FadeInterval, fade)
	}
	fade()
}

func (c *Controller) Initialized() bool { return c.initialized }
func (c *Controller) Running() bool     { return c.running }
func (c *Controller) Decay() float64    { return c.decay }

// Averages returns the mean excitation of the last frame per channel.
func (c *Controller) Averages() (left, right float64) { return c.avgLeft, c.avgRight }

// Frames counts frames rendered since Start.
func (c *Controller) Frames() uint64 { return c.frames }

// Swarm is nil unless the controller is initialized.
func (c *Controller) Swarm() *boids.Swarm { return c.swarm }

func (c *Controller) Visible() surface.Surface { return c.visible }
func (c *Controller) Buffer() surface.Surface  { return c.buffer }

// Size returns the current drawing size.
func (c *Controller) Size() (width, height int) { return c.width, c.height }
