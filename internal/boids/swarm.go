package boids

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/audioswarm/internal/surface"
	"github.com/san-kum/audioswarm/internal/vector"
)

// Channel identifies the audio channel a boid follows.
type Channel int

const (
	Left Channel = iota
	Right
)

func (c Channel) String() string {
	if c == Right {
		return "right"
	}
	return "left"
}

// Swarm owns the boids of both channels and advances them one tick per Run.
type Swarm struct {
	params        Params
	width, height float64
	rng           *rand.Rand

	left, right []*Boid
	all         []*Boid
	grid        *grid
	// indexed is set while Advance runs; positions cannot change then, so
	// the grid built at its start is current.
	indexed bool
}

// New builds a swarm with one random boid per band for each channel.
func New(bands []float64, width, height float64, params Params, colors ColorMapper, rng *rand.Rand) (*Swarm, error) {
	if len(bands) == 0 {
		return nil, ErrNoBands
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.DrawOrder == "" {
		params.DrawOrder = DrawOrderUniform
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	s := &Swarm{
		params: params,
		width:  width,
		height: height,
		rng:    rng,
		left:   make([]*Boid, 0, len(bands)),
		right:  make([]*Boid, 0, len(bands)),
	}

	for _, band := range bands {
		opts := Options{
			Radius:               params.BoidRadius,
			MaxSpeed:             params.MaxSpeed,
			AdjustmentMultiplier: params.AdjustmentMultiplier,
			ShowHeading:          params.ShowHeading,
			Band:                 band,
		}
		if colors != nil {
			opts.Color = colors(band)
		}
		s.left = append(s.left, RandomBoid(opts, width, height, params.HeadingMultiplier, rng))
		s.right = append(s.right, RandomBoid(opts, width, height, params.HeadingMultiplier, rng))
	}

	s.all = make([]*Boid, 0, 2*len(bands))
	s.all = append(s.all, s.left...)
	s.all = append(s.all, s.right...)
	for i, b := range s.all {
		b.index = i
	}
	if params.SpatialIndex {
		s.grid = newGrid(params.Visibility)
	}
	return s, nil
}

func (s *Swarm) Params() Params { return s.params }

// Len returns the number of bands, i.e. boids per channel.
func (s *Swarm) Len() int { return len(s.left) }

func (s *Swarm) Left() []*Boid  { return s.left }
func (s *Swarm) Right() []*Boid { return s.right }

// All returns left boids followed by right boids.
func (s *Swarm) All() []*Boid { return s.all }

func (s *Swarm) Bounds() (width, height float64) { return s.width, s.height }

// SetBounds changes the containment area without moving any boid.
func (s *Swarm) SetBounds(width, height float64) {
	s.width, s.height = width, height
}

// Run performs one tick: clear, draw, advance, integrate.
func (s *Swarm) Run(target surface.Surface) {
	if target != nil {
		target.Clear()
		s.DrawAll(target)
	}
	s.Advance()
	s.IntegrateAll()
}

// DrawAll draws band i of the left channel then band i of the right channel,
// visiting bands in a fresh random order each call.
func (s *Swarm) DrawAll(target surface.Surface) {
	for _, i := range s.drawOrder() {
		s.left[i].Draw(target)
		s.right[i].Draw(target)
	}
}

// Advance queues the steering rules for every boid. With SpatialIndex the
// neighbour queries made during the call use a grid rebuilt on entry.
func (s *Swarm) Advance() {
	if s.grid != nil {
		s.grid.rebuild(s.all)
		s.indexed = true
		defer func() { s.indexed = false }()
	}
	for _, b := range s.left {
		s.AdvanceBoid(b)
	}
	for _, b := range s.right {
		s.AdvanceBoid(b)
	}
}

func (s *Swarm) IntegrateAll() {
	for _, b := range s.left {
		b.Integrate()
	}
	for _, b := range s.right {
		b.Integrate()
	}
}

// AdvanceBoid queues the four steering rules for b in fixed order:
// cohesion, alignment, separation, avoidance.
func (s *Swarm) AdvanceBoid(b *Boid) {
	visible := s.Neighbors(b)

	if v, ok := s.Cohesion(b, visible); ok {
		b.AdjustHeading(v)
	}
	if v, ok := s.Alignment(b, visible); ok {
		b.AdjustHeading(v)
	}
	if v, ok := s.Separation(b, visible); ok {
		b.AdjustHeading(v)
	}
	for _, v := range s.Avoidance(b) {
		b.AdjustHeading(v)
	}
}

// Validate reports the first boid whose state is not finite.
func (s *Swarm) Validate() error {
	for _, ch := range []Channel{Left, Right} {
		boids := s.left
		if ch == Right {
			boids = s.right
		}
		for i, b := range boids {
			for _, v := range []vector.Vector{b.position, b.heading} {
				if err := v.Check(); err != nil {
					return &StateError{Channel: ch, Index: i, Wrapped: fmt.Errorf("%w: %w", ErrInvalidState, err)}
				}
			}
		}
	}
	return nil
}
