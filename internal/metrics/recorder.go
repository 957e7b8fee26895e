package metrics

import "github.com/san-kum/audioswarm/internal/boids"

// Recorder feeds a set of metrics and keeps the per-frame series of each.
// Observe matches the visualizer's frame observer signature.
type Recorder struct {
	metrics []Metric
	series  map[string][]float64
	limit   int
}

// NewRecorder keeps at most limit points per series; limit <= 0 keeps all.
func NewRecorder(limit int, ms ...Metric) *Recorder {
	return &Recorder{
		metrics: ms,
		series:  make(map[string][]float64, len(ms)),
		limit:   limit,
	}
}

func (r *Recorder) Observe(_ uint64, s *boids.Swarm) {
	for _, m := range r.metrics {
		m.Observe(s)
		pts := append(r.series[m.Name()], m.Last())
		if r.limit > 0 && len(pts) > r.limit {
			pts = pts[len(pts)-r.limit:]
		}
		r.series[m.Name()] = pts
	}
}

func (r *Recorder) Metrics() []Metric { return r.metrics }

// Series returns the recorded points for the named metric.
func (r *Recorder) Series(name string) []float64 { return r.series[name] }

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	r.series = make(map[string][]float64, len(r.metrics))
}
