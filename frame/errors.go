package frame

import "errors"

// Tick argument errors.
var (
	// ErrNilSurface indicates Tick was called without a surface.
	ErrNilSurface = errors.New("surface cannot be nil")

	// ErrNilSource indicates Tick was called without a frame source.
	ErrNilSource = errors.New("frame source cannot be nil")
)
