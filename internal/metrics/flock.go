package metrics

import (
	"math"

	"github.com/san-kum/audioswarm/internal/boids"
)

// MeanSpeed is the average heading magnitude.
type MeanSpeed struct{ mean }

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "speed" }

func (m *MeanSpeed) Observe(s *boids.Swarm) {
	all := s.All()
	if len(all) == 0 {
		return
	}
	var sum float64
	for _, b := range all {
		sum += math.Abs(b.Heading().Magnitude)
	}
	m.add(sum / float64(len(all)))
}

// Polarization is the length of the mean unit heading: 1 when every boid
// flies the same way, near 0 when headings cancel out.
type Polarization struct{ mean }

func NewPolarization() *Polarization { return &Polarization{} }

func (p *Polarization) Name() string { return "polarization" }

func (p *Polarization) Observe(s *boids.Swarm) {
	var x, y float64
	n := 0
	for _, b := range s.All() {
		h := b.Heading()
		if h.Magnitude == 0 {
			continue
		}
		x += math.Cos(h.Direction)
		y += math.Sin(h.Direction)
		n++
	}
	if n == 0 {
		p.add(0)
		return
	}
	p.add(math.Hypot(x, y) / float64(n))
}

// Crowding is the mean number of visible neighbours per boid.
type Crowding struct{ mean }

func NewCrowding() *Crowding { return &Crowding{} }

func (c *Crowding) Name() string { return "crowding" }

func (c *Crowding) Observe(s *boids.Swarm) {
	all := s.All()
	if len(all) == 0 {
		return
	}
	visibility := s.Params().Visibility
	pairs := 0
	for i, a := range all {
		for _, b := range all[i+1:] {
			if a.Position().DistanceTo(b.Position()) <= visibility {
				pairs++
			}
		}
	}
	c.add(2 * float64(pairs) / float64(len(all)))
}

// Containment is the fraction of boids inside the swarm bounds.
type Containment struct{ mean }

func NewContainment() *Containment { return &Containment{} }

func (c *Containment) Name() string { return "containment" }

func (c *Containment) Observe(s *boids.Swarm) {
	all := s.All()
	if len(all) == 0 {
		return
	}
	w, h := s.Bounds()
	inside := 0
	for _, b := range all {
		p := b.Position().Point()
		if p.X >= 0 && p.X <= w && p.Y >= 0 && p.Y <= h {
			inside++
		}
	}
	c.add(float64(inside) / float64(len(all)))
}
