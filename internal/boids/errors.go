package boids

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBands indicates a swarm constructed without frequency bands.
	ErrNoBands = errors.New("boids: at least one band is required")

	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("boids: parameter out of valid bounds")

	// ErrInvalidState indicates a boid whose position or heading is not finite.
	ErrInvalidState = errors.New("boids: invalid boid state (NaN or Inf detected)")
)

// StateError locates an invalid boid.
type StateError struct {
	Channel Channel
	Index   int
	Wrapped error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s boid %d: %v", e.Channel, e.Index, e.Wrapped)
}

func (e *StateError) Unwrap() error {
	return e.Wrapped
}
