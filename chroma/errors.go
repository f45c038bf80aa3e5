package chroma

import "errors"

var (
	// ErrInvalidDistance indicates a negative or NaN distance threshold.
	ErrInvalidDistance = errors.New("invalid distance threshold")

	// ErrInvalidRatio indicates a ratio threshold outside [0, 1].
	ErrInvalidRatio = errors.New("invalid ratio threshold")

	// ErrNilBuffer indicates an effect was applied to a nil pixel buffer.
	ErrNilBuffer = errors.New("pixel buffer cannot be nil")
)
