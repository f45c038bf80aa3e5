package media

import "errors"

var (
	// ErrNoFrames indicates a clip was created without any frames.
	ErrNoFrames = errors.New("clip has no frames")

	// ErrInvalidFrameRate indicates a non-positive frame rate.
	ErrInvalidFrameRate = errors.New("invalid frame rate")

	// ErrAutoplayBlocked indicates unmuted playback was rejected by the
	// autoplay policy.
	ErrAutoplayBlocked = errors.New("autoplay blocked: unmuted playback requires user activation")

	// ErrInvalidVolume indicates a volume outside [0, 1].
	ErrInvalidVolume = errors.New("invalid volume")
)
