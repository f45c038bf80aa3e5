package frame

import "image"

// ReadyState reports how much media data a source has available, using the
// same levels as HTML media elements.
type ReadyState int

const (
	// HaveNothing indicates no information about the media is available.
	HaveNothing ReadyState = iota
	// HaveMetadata indicates dimensions and duration are known but no frame is.
	HaveMetadata
	// HaveCurrentData indicates the frame at the current position is available.
	HaveCurrentData
	// HaveFutureData indicates the current and at least the next frame are available.
	HaveFutureData
	// HaveEnoughData indicates playback can proceed to the end without stalling.
	HaveEnoughData
)

// String returns the conventional name of the ready state.
func (r ReadyState) String() string {
	switch r {
	case HaveNothing:
		return "HAVE_NOTHING"
	case HaveMetadata:
		return "HAVE_METADATA"
	case HaveCurrentData:
		return "HAVE_CURRENT_DATA"
	case HaveFutureData:
		return "HAVE_FUTURE_DATA"
	case HaveEnoughData:
		return "HAVE_ENOUGH_DATA"
	default:
		return "UNKNOWN"
	}
}

// CanRenderFrame reports whether a frame can be drawn at this readiness.
func (r ReadyState) CanRenderFrame() bool {
	return r >= HaveCurrentData
}

// Source provides read-only access to the frames of a playing video.
type Source interface {
	// ReadyState returns the current readiness of the source.
	ReadyState() ReadyState
	// CurrentFrame returns the frame at the current playback position.
	// The returned image must not be modified by the caller.
	CurrentFrame() image.Image
}
