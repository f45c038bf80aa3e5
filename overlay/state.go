package overlay

// PlaybackState is the top-level state of the overlay.
type PlaybackState uint32

const (
	// Idle is the initial state: nothing is shown and no frame loop runs.
	Idle PlaybackState = iota
	// Playing means the video is running and the overlay is visible.
	Playing
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	default:
		return "Unknown"
	}
}

// CloseButtonVisibility is a sub-state of Playing. It is always Hidden
// while the controller is Idle.
type CloseButtonVisibility uint32

const (
	// Hidden means the close control is not shown.
	Hidden CloseButtonVisibility = iota
	// Visible means the reveal delay elapsed and the close control is shown.
	Visible
)

// String returns the visibility name.
func (v CloseButtonVisibility) String() string {
	switch v {
	case Hidden:
		return "Hidden"
	case Visible:
		return "Visible"
	default:
		return "Unknown"
	}
}
