// Package metrics records per-frame observables of a swarm.
package metrics

import (
	"github.com/san-kum/audioswarm/internal/boids"
)

// Metric observes a swarm once per frame. Value is the mean over all
// observations since the last Reset; Last is the most recent observation.
type Metric interface {
	Name() string
	Observe(s *boids.Swarm)
	Value() float64
	Last() float64
	Reset()
}

// mean accumulates per-frame values for the metrics below.
type mean struct {
	sum     float64
	last    float64
	samples int
}

func (m *mean) add(v float64) {
	m.last = v
	m.sum += v
	m.samples++
}

func (m *mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mean) Last() float64 { return m.last }

func (m *mean) Reset() { *m = mean{} }

// Standard returns one of each metric, in display order.
func Standard() []Metric {
	return []Metric{
		NewMeanSpeed(),
		NewPolarization(),
		NewCrowding(),
		NewContainment(),
	}
}
