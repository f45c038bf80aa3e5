package overlay

import "errors"

// Construction errors.
var (
	// ErrMissingCollaborator indicates the video source, surface, close
	// control or scheduler was not supplied. The overlay cannot be built
	// and stays inert for the session.
	ErrMissingCollaborator = errors.New("missing required collaborator")

	// ErrInvalidOptions indicates an option value outside its allowed range.
	ErrInvalidOptions = errors.New("invalid overlay options")
)

// Playback errors.
var (
	// ErrPlaybackStart indicates the video source refused to start. The
	// controller stays idle and a later Activate may retry.
	ErrPlaybackStart = errors.New("playback start failed")
)

// Scheduler errors.
var (
	// ErrSchedulerRunning indicates Start was called on a running scheduler.
	ErrSchedulerRunning = errors.New("scheduler is already running")
)
