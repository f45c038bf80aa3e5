// Package media provides the playable video source driving the overlay.
//
// A Clip is a decoded sequence of frames with a playback clock. It exposes
// the transport controls a browser video element offers (play, pause,
// seek, mute, volume) plus readiness and end-of-media reporting, so the
// overlay can treat it exactly like the real thing.
//
//	clip, err := media.LoadDirectory("frames/", 30)
//	if err != nil {
//	    return err
//	}
//	clip.OnEnded(func() { controller.PlaybackEnded() })
//
// Frames can also come from an animated GIF with DecodeGIF, or be supplied
// directly with NewClip.
//
// # Autoplay Policy
//
// Browsers reject unmuted playback that was not started by a user gesture.
// SetAutoplayBlocked(true) reproduces that: Play fails with
// ErrAutoplayBlocked unless the clip is muted.
//
// # Deterministic Testing
//
// The playback position is derived from a TimeProvider, and the end of
// media is detected with a timer from the same provider:
//
//	clip.SetTimeProvider(mockTime)
//
// Ended handlers always run without any clip lock held, so they may call
// back into the clip.
package media
