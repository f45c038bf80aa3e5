package overlay

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opd-ai/greenscreen/canvas"
	"github.com/opd-ai/greenscreen/chroma"
	"github.com/opd-ai/greenscreen/frame"
	"github.com/sirupsen/logrus"
)

// DefaultRevealDelay is how long the close control stays hidden after the
// overlay starts playing.
const DefaultRevealDelay = 2 * time.Second

// DefaultVolume is the audible volume applied on activation.
const DefaultVolume = 1.0

// VideoSource is the playable video behind the overlay. Only the
// Controller touches its transport state; the frame processor only reads
// readiness and frame content.
//
// Play must not call back into the Controller synchronously.
type VideoSource interface {
	frame.Source
	Paused() bool
	Ended() bool
	Seek(position time.Duration)
	SetMuted(muted bool)
	SetVolume(volume float64) error
	Play(ctx context.Context) error
	Pause()
}

// EndNotifier is implemented by sources that report reaching the end of
// media. The Controller subscribes automatically and deactivates itself.
type EndNotifier interface {
	OnEnded(handler func())
}

// CloseControl is the host UI element that lets the user dismiss the
// overlay. SetVisible is called with the controller lock held and must not
// call back into the Controller.
type CloseControl interface {
	SetVisible(visible bool)
}

// Options configures a Controller. Zero-valued Thresholds, RevealDelay
// and Volume take their DefaultOptions values, so Options{Scheduler: s}
// is a complete configuration.
type Options struct {
	// Thresholds drives the chroma key.
	Thresholds chroma.ThresholdConfig
	// RevealDelay is the delay before the close control is shown. Use a
	// tiny positive delay to reveal it on the first dispatch.
	RevealDelay time.Duration
	// Volume is applied to the video source on every activation.
	Volume float64
	// Scheduler dispatches frame ticks and the reveal timer. Required.
	Scheduler Scheduler
}

// DefaultOptions returns the documented defaults without a scheduler.
func DefaultOptions() Options {
	return Options{
		Thresholds:  chroma.DefaultThresholdConfig(),
		RevealDelay: DefaultRevealDelay,
		Volume:      DefaultVolume,
	}
}

// withDefaults fills zero-valued fields from DefaultOptions.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Thresholds == (chroma.ThresholdConfig{}) {
		o.Thresholds = defaults.Thresholds
	}
	if o.RevealDelay == 0 {
		o.RevealDelay = defaults.RevealDelay
	}
	if o.Volume == 0 {
		o.Volume = defaults.Volume
	}
	return o
}

// Controller owns the overlay state machine and its frame loop.
//
// All methods are safe to call from any goroutine; they are serialized by
// an internal lock so the frame loop, the reveal timer and the host signals
// behave as if they shared one execution context.
type Controller struct {
	source       VideoSource
	surface      *canvas.Surface
	closeControl CloseControl
	processor    *frame.Processor
	scheduler    Scheduler
	revealDelay  time.Duration
	volume       float64

	mu            sync.Mutex
	state         PlaybackState
	closeButton   CloseButtonVisibility
	tickHandle    Handle
	revealHandle  Handle
	generation    uint64
	sessionID     string
	stateCallback func(state PlaybackState)
}

// NewController wires the overlay to its collaborators. A missing
// collaborator yields ErrMissingCollaborator; the caller should then leave
// the feature disabled and carry on.
func NewController(source VideoSource, surface *canvas.Surface, closeControl CloseControl, opts Options) (*Controller, error) {
	if err := validateCollaborators(source, surface, closeControl, opts.Scheduler); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewController",
			"error":    err.Error(),
		}).Error("Overlay disabled")
		return nil, err
	}

	opts = opts.withDefaults()
	if math.IsNaN(opts.Volume) || opts.Volume < 0 || opts.Volume > 1 {
		return nil, fmt.Errorf("%w: volume %v outside (0, 1]", ErrInvalidOptions, opts.Volume)
	}
	if opts.RevealDelay < 0 {
		return nil, fmt.Errorf("%w: negative reveal delay %v", ErrInvalidOptions, opts.RevealDelay)
	}

	processor, err := frame.NewProcessor(opts.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	c := &Controller{
		source:       source,
		surface:      surface,
		closeControl: closeControl,
		processor:    processor,
		scheduler:    opts.Scheduler,
		revealDelay:  opts.RevealDelay,
		volume:       opts.Volume,
		state:        Idle,
		closeButton:  Hidden,
	}

	closeControl.SetVisible(false)

	if notifier, ok := source.(EndNotifier); ok {
		notifier.OnEnded(c.PlaybackEnded)
	}

	logrus.WithFields(logrus.Fields{
		"function":           "NewController",
		"distance_threshold": opts.Thresholds.Distance,
		"ratio_threshold":    opts.Thresholds.Ratio,
		"reveal_delay":       opts.RevealDelay,
		"volume":             opts.Volume,
	}).Info("Overlay controller created")

	return c, nil
}

func validateCollaborators(source VideoSource, surface *canvas.Surface, closeControl CloseControl, scheduler Scheduler) error {
	switch {
	case source == nil:
		return fmt.Errorf("%w: video source", ErrMissingCollaborator)
	case surface == nil:
		return fmt.Errorf("%w: surface", ErrMissingCollaborator)
	case closeControl == nil:
		return fmt.Errorf("%w: close control", ErrMissingCollaborator)
	case scheduler == nil:
		return fmt.Errorf("%w: scheduler", ErrMissingCollaborator)
	}
	return nil
}

// SetStateCallback registers a function called after every transition
// between Idle and Playing. It runs without the controller lock held.
func (c *Controller) SetStateCallback(callback func(state PlaybackState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateCallback = callback
}

// Activate starts the overlay. It is a no-op while already Playing. If the
// video refuses to play, the controller stays Idle and the returned error
// wraps ErrPlaybackStart; calling Activate again retries.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()

	if c.state == Playing {
		sessionID := c.sessionID
		c.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"function":   "Controller.Activate",
			"session_id": sessionID,
		}).Debug("Overlay already playing, ignoring trigger")
		return nil
	}

	c.source.Seek(0)
	c.source.SetMuted(false)
	if err := c.source.SetVolume(c.volume); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Controller.Activate",
			"volume":   c.volume,
			"error":    err.Error(),
		}).Warn("Failed to set volume, continuing")
	}

	if err := c.source.Play(ctx); err != nil {
		c.source.SetMuted(true)
		c.mu.Unlock()

		logrus.WithFields(logrus.Fields{
			"function": "Controller.Activate",
			"error":    err.Error(),
		}).Warn("Video playback could not start, overlay stays idle")
		return fmt.Errorf("%w: %w", ErrPlaybackStart, err)
	}

	c.state = Playing
	c.closeButton = Hidden
	c.generation++
	c.sessionID = uuid.NewString()

	gen := c.generation
	c.tickHandle = c.scheduler.Schedule(func() { c.tick(gen) })
	c.revealHandle = c.scheduler.After(c.revealDelay, func() { c.revealCloseButton(gen) })

	sessionID := c.sessionID
	callback := c.stateCallback
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":     "Controller.Activate",
		"session_id":   sessionID,
		"reveal_delay": c.revealDelay,
	}).Info("Overlay activated")

	if callback != nil {
		callback(Playing)
	}
	return nil
}

// RequestClose handles the explicit close control.
func (c *Controller) RequestClose() {
	c.deactivate("close requested")
}

// PlaybackEnded handles the video reaching its end.
func (c *Controller) PlaybackEnded() {
	c.deactivate("playback ended")
}

// Deactivate stops the overlay: the frame loop and reveal timer are
// cancelled, the video is paused, rewound and muted, and the surface is
// cleared. It is a no-op while Idle.
func (c *Controller) Deactivate() {
	c.deactivate("deactivated")
}

func (c *Controller) deactivate(reason string) {
	c.mu.Lock()

	if c.state == Idle {
		c.mu.Unlock()
		return
	}

	// Bumping the generation turns any tick or reveal already in flight
	// into a no-op, even if Cancel comes too late to stop it.
	c.generation++
	c.scheduler.Cancel(c.tickHandle)
	c.scheduler.Cancel(c.revealHandle)
	c.tickHandle = 0
	c.revealHandle = 0

	c.source.Pause()
	c.source.Seek(0)
	c.source.SetMuted(true)

	if err := c.surface.Clear(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Controller.deactivate",
			"session_id": c.sessionID,
			"error":      err.Error(),
		}).Warn("Failed to clear surface")
	}

	c.state = Idle
	c.closeButton = Hidden
	c.closeControl.SetVisible(false)

	sessionID := c.sessionID
	callback := c.stateCallback
	c.mu.Unlock()

	stats := c.processor.Stats()
	logrus.WithFields(logrus.Fields{
		"function":         "Controller.deactivate",
		"session_id":       sessionID,
		"reason":           reason,
		"frames_processed": stats.Processed,
	}).Info("Overlay deactivated")

	if callback != nil {
		callback(Idle)
	}
}

// Resize forwards a viewport change to the surface. It takes effect on the
// next tick and never changes the playback state.
func (c *Controller) Resize(width, height int) {
	c.surface.Resize(width, height)
}

// tick runs one frame of the loop and reschedules itself while the
// overlay is playing and the video is running.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != Playing {
		return
	}
	c.tickHandle = 0

	if c.source.Paused() || c.source.Ended() {
		logrus.WithFields(logrus.Fields{
			"function":   "Controller.tick",
			"session_id": c.sessionID,
			"paused":     c.source.Paused(),
			"ended":      c.source.Ended(),
		}).Debug("Video stopped, frame loop ends")
		return
	}

	if _, err := c.processor.Tick(c.surface, c.source); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Controller.tick",
			"session_id": c.sessionID,
			"error":      err.Error(),
		}).Warn("Frame processing failed")
	}

	c.tickHandle = c.scheduler.Schedule(func() { c.tick(gen) })
}

func (c *Controller) revealCloseButton(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != Playing {
		return
	}
	c.revealHandle = 0
	c.closeButton = Visible
	c.closeControl.SetVisible(true)

	logrus.WithFields(logrus.Fields{
		"function":   "Controller.revealCloseButton",
		"session_id": c.sessionID,
	}).Debug("Close control revealed")
}

// State returns the current playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CloseButton returns the close control sub-state.
func (c *Controller) CloseButton() CloseButtonVisibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeButton
}

// OverlayVisible reports whether the full-screen layer should be shown.
func (c *Controller) OverlayVisible() bool {
	return c.State() == Playing
}

// CloseButtonVisible reports whether the close control should be shown.
func (c *Controller) CloseButtonVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Playing && c.closeButton == Visible
}

// SessionID returns the identifier of the current or most recent
// activation, or "" if the overlay never played.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Stats returns frame processing statistics accumulated over all sessions.
func (c *Controller) Stats() frame.StatsSnapshot {
	return c.processor.Stats()
}
