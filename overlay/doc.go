// Package overlay implements the full-screen green-screen overlay: a small
// playback state machine that starts a video, composites it over the page
// with its background keyed out, and tears everything down again.
//
// # State Machine
//
//	       Activate (play ok)
//	Idle ─────────────────────▶ Playing/Hidden ──(RevealDelay)──▶ Playing/Visible
//	 ▲                               │                                 │
//	 └──────── Deactivate / RequestClose / PlaybackEnded ──────────────┘
//
// Activate is idempotent while Playing. A rejected Play leaves the
// controller Idle so the trigger can simply be retried. Deactivate cancels
// the pending frame tick and the reveal timer, pauses, rewinds and mutes
// the video, and clears the surface.
//
// # Frame Loop
//
// While Playing, the controller schedules one tick per display refresh.
// Each tick re-checks the state and the video, runs frame.Processor.Tick
// and schedules the next tick only after finishing, so ticks never overlap
// and slow frames are dropped rather than queued. Cancellation through the
// Scheduler is advisory; a tick that still fires after Deactivate notices
// and does nothing.
//
//	scheduler := overlay.NewRefreshScheduler(60)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
//	opts := overlay.DefaultOptions()
//	opts.Scheduler = scheduler
//	controller, err := overlay.NewController(clip, surface, closeButton, opts)
//	if err != nil {
//	    // overlay stays disabled; nothing else is affected
//	    return err
//	}
//
//	if err := controller.Activate(ctx); errors.Is(err, overlay.ErrPlaybackStart) {
//	    // e.g. autoplay policy; try again on the next user gesture
//	}
//
// # Deterministic Testing
//
// Scheduler is an interface so tests can fire frames and timers by hand
// instead of waiting on real refresh timing.
package overlay
