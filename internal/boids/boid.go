package boids

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/audioswarm/internal/surface"
	"github.com/san-kum/audioswarm/internal/vector"
)

// ColorMapper returns the display colour for a band centre frequency.
type ColorMapper func(frequency float64) color.Color

// excitationScale sets how strongly loud bands inflate a boid:
// radius = floor((excitation/excitationScale)^3).
const excitationScale = 28.0

var ringStroke = color.White

// Boid is one simulated agent bound to a frequency band of one channel.
type Boid struct {
	position vector.Vector
	heading  vector.Vector

	radius               float64
	maxSpeed             float64
	adjustmentMultiplier float64
	showHeading          bool
	color                color.Color
	band                 float64

	index       int
	adjustments []vector.Vector
	excitation  float64
}

// Options configure a single boid.
type Options struct {
	Position             vector.Vector
	Heading              vector.Vector
	Radius               float64
	MaxSpeed             float64
	AdjustmentMultiplier float64
	ShowHeading          bool
	Color                color.Color
	Band                 float64
}

// NewBoid applies the same fallbacks as a bare options object: radius 3,
// max speed 15, adjustment multiplier 0.05.
func NewBoid(opts Options) *Boid {
	b := &Boid{
		position:             opts.Position.Copy(),
		heading:              opts.Heading.Copy(),
		radius:               opts.Radius,
		maxSpeed:             opts.MaxSpeed,
		adjustmentMultiplier: opts.AdjustmentMultiplier,
		showHeading:          opts.ShowHeading,
		color:                opts.Color,
		band:                 opts.Band,
	}
	if b.radius <= 0 {
		b.radius = 3
	}
	if b.maxSpeed <= 0 {
		b.maxSpeed = 15
	}
	if b.adjustmentMultiplier <= 0 {
		b.adjustmentMultiplier = 0.05
	}
	return b
}

// RandomBoid places a boid uniformly inside width x height with a random
// heading of magnitude below headingMultiplier.
func RandomBoid(opts Options, width, height, headingMultiplier float64, rng *rand.Rand) *Boid {
	opts.Position = vector.FromCartesian(rng.Float64()*width, rng.Float64()*height)
	opts.Heading = vector.New(rng.Float64()*2*math.Pi, rng.Float64()*headingMultiplier)
	return NewBoid(opts)
}

func (b *Boid) Position() vector.Vector { return b.position }
func (b *Boid) Heading() vector.Vector  { return b.heading }
func (b *Boid) Radius() float64         { return b.radius }
func (b *Boid) MaxSpeed() float64       { return b.maxSpeed }
func (b *Boid) Band() float64           { return b.band }
func (b *Boid) Color() color.Color      { return b.color }
func (b *Boid) Excitation() float64     { return b.excitation }

// SetExcitation stores the latest audio energy for this boid's band.
func (b *Boid) SetExcitation(e float64) { b.excitation = e }

// Place overrides position and heading, dropping pending adjustments.
func (b *Boid) Place(position, heading vector.Vector) {
	b.position = position
	b.heading = heading
	b.adjustments = b.adjustments[:0]
}

// Pending returns a copy of the adjustments accumulated this tick.
func (b *Boid) Pending() []vector.Vector {
	out := make([]vector.Vector, len(b.adjustments))
	copy(out, b.adjustments)
	return out
}

// RenderRadius is the radius the next Draw will use. It grows with the cube
// of the excitation and never drops below the base radius; there is no upper
// bound.
func (b *Boid) RenderRadius() float64 {
	r := b.radius
	if b.excitation != 0 {
		r = math.Floor(math.Pow(b.excitation/excitationScale, 3))
	}
	if r < b.radius {
		r = b.radius
	}
	return r
}

// Draw renders the heading indicator and the three-ring body.
func (b *Boid) Draw(s surface.Surface) {
	r := b.RenderRadius()

	pt := b.position.Point()
	tail := b.position.Subtract(b.heading.Scale(5)).Point()
	body1 := b.position.Subtract(b.heading.Scale(1.5)).Point()
	body2 := b.position.Subtract(b.heading.Scale(2)).Point()

	fill := b.color
	if fill == nil {
		fill = ringStroke
	}

	if b.showHeading {
		s.Line(pt.X, pt.Y, tail.X, tail.Y, 1, fill)
	}

	s.Circle(body1.X, body1.Y, r/1.5, 1, ringStroke, fill)
	s.Circle(body2.X, body2.Y, r/2, 1, ringStroke, fill)

	lineWidth := 2.0
	if r > 20 {
		lineWidth = 3
	}
	s.Circle(pt.X, pt.Y, r, lineWidth, ringStroke, fill)
}

// AdjustHeading queues a steering contribution. A vector longer than the max
// speed is cut down to MaxSpeed*AdjustmentMultiplier, which limits how
// sharply the boid can turn in a single tick.
func (b *Boid) AdjustHeading(v vector.Vector) {
	if v.Magnitude > b.maxSpeed {
		v = v.WithMagnitude(b.maxSpeed * b.adjustmentMultiplier)
	}
	b.adjustments = append(b.adjustments, v.Copy())
}

// Integrate applies the pending adjustments to the heading, clamps the speed
// and moves the boid by its heading (explicit Euler, clamp after summing).
func (b *Boid) Integrate() {
	if len(b.adjustments) > 0 {
		var sx, sy float64
		for _, adj := range b.adjustments {
			x, y := adj.AsCartesian()
			sx += x
			sy += y
		}
		b.adjustments = b.adjustments[:0]
		b.heading = b.heading.Add(vector.FromCartesian(sx, sy))
	}

	if b.heading.Magnitude > b.maxSpeed {
		b.heading = b.heading.WithMagnitude(b.maxSpeed)
	}
	b.position = b.position.Add(b.heading)
}
