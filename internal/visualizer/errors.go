package visualizer

import "errors"

// ErrInvalidOptions indicates Start was called without bands, a screen or a
// positive size.
var ErrInvalidOptions = errors.New("visualizer: invalid start options")
