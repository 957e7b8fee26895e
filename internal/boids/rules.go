package boids

import "github.com/san-kum/audioswarm/internal/vector"

// Cohesion steers b toward the mean position of its neighbours.
func (s *Swarm) Cohesion(b *Boid, visible []*Boid) (vector.Vector, bool) {
	if len(visible) == 0 {
		return vector.Vector{}, false
	}
	return b.position.VectorToPoint(meanPosition(visible)).Scale(s.params.Cohesion), true
}

// Alignment steers b by the sum (not the average) of its neighbours' headings.
func (s *Swarm) Alignment(b *Boid, visible []*Boid) (vector.Vector, bool) {
	if len(visible) == 0 {
		return vector.Vector{}, false
	}
	var sum vector.Vector
	for _, n := range visible {
		sum = sum.Add(n.heading)
	}
	return sum.Scale(s.params.Alignment), true
}

// Separation steers b away from the mean position of the neighbours inside
// their own radius times SeparationDistance.
func (s *Swarm) Separation(b *Boid, visible []*Boid) (vector.Vector, bool) {
	tooClose := make([]*Boid, 0, len(visible))
	for _, n := range visible {
		if b.position.DistanceTo(n.position) <= n.radius*s.params.SeparationDistance {
			tooClose = append(tooClose, n)
		}
	}
	if len(tooClose) == 0 {
		return vector.Vector{}, false
	}
	return b.position.VectorToPoint(meanPosition(tooClose)).Scale(-1).Scale(s.params.Separation), true
}

// Avoidance pulls b toward the vertical centre line when it is within
// Visibility of the left or right edge, and toward the horizontal centre line
// near the top or bottom edge. Both may fire in one tick.
func (s *Swarm) Avoidance(b *Boid) []vector.Vector {
	var out []vector.Vector
	pt := b.position.Point()
	v := s.params.Visibility

	if pt.X < v || pt.X > s.width-v {
		out = append(out, b.position.VectorToPoint(vector.Point{X: s.width / 2, Y: pt.Y}).Scale(s.params.Avoidance))
	}
	if pt.Y < v || pt.Y > s.height-v {
		out = append(out, b.position.VectorToPoint(vector.Point{X: pt.X, Y: s.height / 2}).Scale(s.params.Avoidance))
	}
	return out
}

func meanPosition(boids []*Boid) vector.Point {
	var mean vector.Point
	n := float64(len(boids))
	for _, b := range boids {
		pt := b.position.Point()
		mean.X += pt.X / n
		mean.Y += pt.Y / n
	}
	return mean
}
