package canvas

import "errors"

var (
	// ErrNilDisplay indicates a surface was created without a display.
	ErrNilDisplay = errors.New("display cannot be nil")

	// ErrNoFrame indicates Present was called before anything was captured.
	ErrNoFrame = errors.New("no frame captured")
)
