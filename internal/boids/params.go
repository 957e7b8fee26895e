package boids

import "fmt"

// DrawOrder selects how the per-tick draw permutation is generated.
type DrawOrder string

const (
	// DrawOrderUniform draws a fresh uniformly random permutation each tick.
	DrawOrderUniform DrawOrder = "uniform"

	// DrawOrderLegacy removes band_count-1 random indices one at a time and
	// appends the last remaining index. The distribution matches
	// DrawOrderUniform; only the use of the random source differs.
	DrawOrderLegacy DrawOrder = "legacy"
)

// Params is the immutable tuning record of a swarm.
type Params struct {
	Visibility           float64   `yaml:"visibility"`
	SeparationDistance   float64   `yaml:"separation_distance"`
	Cohesion             float64   `yaml:"cohesion"`
	Alignment            float64   `yaml:"alignment"`
	Separation           float64   `yaml:"separation"`
	Avoidance            float64   `yaml:"avoidance"`
	MaxSpeed             float64   `yaml:"max_speed"`
	BoidRadius           float64   `yaml:"boid_radius"`
	AdjustmentMultiplier float64   `yaml:"adjustment_multiplier"`
	HeadingMultiplier    float64   `yaml:"heading_multiplier"`
	ShowHeading          bool      `yaml:"show_heading"`
	DrawOrder            DrawOrder `yaml:"draw_order"`
	SpatialIndex         bool      `yaml:"spatial_index"`
}

func DefaultParams() Params {
	return Params{
		Visibility:           30,
		SeparationDistance:   10,
		Cohesion:             1.0,
		Alignment:            1.0,
		Separation:           1,
		Avoidance:            1e8,
		MaxSpeed:             20,
		BoidRadius:           3,
		AdjustmentMultiplier: 0.15,
		HeadingMultiplier:    20,
		ShowHeading:          true,
		DrawOrder:            DrawOrderUniform,
	}
}

// Validate reports parameters the simulation cannot run with.
func (p Params) Validate() error {
	switch {
	case p.Visibility <= 0:
		return fmt.Errorf("%w: visibility must be positive, got %g", ErrParameterBounds, p.Visibility)
	case p.MaxSpeed <= 0:
		return fmt.Errorf("%w: max_speed must be positive, got %g", ErrParameterBounds, p.MaxSpeed)
	case p.BoidRadius <= 0:
		return fmt.Errorf("%w: boid_radius must be positive, got %g", ErrParameterBounds, p.BoidRadius)
	case p.SeparationDistance < 0:
		return fmt.Errorf("%w: separation_distance must not be negative, got %g", ErrParameterBounds, p.SeparationDistance)
	case p.HeadingMultiplier < 0:
		return fmt.Errorf("%w: heading_multiplier must not be negative, got %g", ErrParameterBounds, p.HeadingMultiplier)
	}
	switch p.DrawOrder {
	case "", DrawOrderUniform, DrawOrderLegacy:
	default:
		return fmt.Errorf("%w: unknown draw_order %q", ErrParameterBounds, p.DrawOrder)
	}
	return nil
}
