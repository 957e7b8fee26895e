package vector

import "errors"

var (
	// ErrDirectionRange indicates a direction outside [0, 2π).
	ErrDirectionRange = errors.New("vector: direction out of range")

	// ErrNotFinite indicates a NaN or Inf component.
	ErrNotFinite = errors.New("vector: non-finite component")
)
