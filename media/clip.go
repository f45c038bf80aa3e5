package media

import (
	"context"
	"fmt"
	"image"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/opd-ai/greenscreen/frame"
	"github.com/sirupsen/logrus"
)

// Clip is a finite, seekable sequence of frames with a playback clock.
//
// A new clip starts paused at position 0, muted, at full volume.
type Clip struct {
	frames   []image.Image
	offsets  []time.Duration // start time of each frame
	duration time.Duration

	mu              sync.Mutex
	timeProvider    TimeProvider
	position        time.Duration
	playingSince    time.Time
	playing         bool
	ended           bool
	muted           bool
	volume          float64
	autoplayBlocked bool
	endTimer        Timer
	generation      uint64
	endedHandlers   []func()
}

// NewClip creates a clip showing each frame for frameDuration.
func NewClip(frames []image.Image, frameDuration time.Duration) (*Clip, error) {
	if frameDuration <= 0 {
		return nil, fmt.Errorf("%w: frame duration %v", ErrInvalidFrameRate, frameDuration)
	}

	delays := make([]time.Duration, len(frames))
	for i := range delays {
		delays[i] = frameDuration
	}
	return NewClipWithDelays(frames, delays)
}

// NewClipWithDelays creates a clip where frame i is shown for delays[i].
func NewClipWithDelays(frames []image.Image, delays []time.Duration) (*Clip, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if len(delays) != len(frames) {
		return nil, fmt.Errorf("frame/delay count mismatch: %d frames, %d delays", len(frames), len(delays))
	}

	offsets := make([]time.Duration, len(frames))
	var total time.Duration
	for i, d := range delays {
		if frames[i] == nil {
			return nil, fmt.Errorf("frame %d is nil", i)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: frame %d delay %v", ErrInvalidFrameRate, i, d)
		}
		offsets[i] = total
		total += d
	}

	logrus.WithFields(logrus.Fields{
		"function":    "NewClipWithDelays",
		"frame_count": len(frames),
		"duration":    total,
	}).Debug("Clip created")

	return &Clip{
		frames:       frames,
		offsets:      offsets,
		duration:     total,
		timeProvider: RealTimeProvider{},
		muted:        true,
		volume:       1.0,
	}, nil
}

// SetTimeProvider replaces the clock. A nil provider restores the system
// clock. It must be called while the clip is paused.
func (c *Clip) SetTimeProvider(tp TimeProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tp == nil {
		tp = RealTimeProvider{}
	}
	c.timeProvider = tp
}

// SetAutoplayBlocked enables or disables the autoplay policy check.
func (c *Clip) SetAutoplayBlocked(blocked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoplayBlocked = blocked
}

// OnEnded registers a handler called each time playback reaches the end.
func (c *Clip) OnEnded(handler func()) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endedHandlers = append(c.endedHandlers, handler)
}

// FrameCount returns the number of frames in the clip.
func (c *Clip) FrameCount() int {
	return len(c.frames)
}

// Duration returns the total running time of the clip.
func (c *Clip) Duration() time.Duration {
	return c.duration
}

// ReadyState reports that the whole clip is decoded.
func (c *Clip) ReadyState() frame.ReadyState {
	return frame.HaveEnoughData
}

// CurrentFrame returns the frame at the current playback position.
func (c *Clip) CurrentFrame() image.Image {
	c.mu.Lock()
	pos := c.positionLocked()
	c.mu.Unlock()

	return c.frames[c.frameIndex(pos)]
}

// Position returns the current playback position.
func (c *Clip) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

// Paused reports whether playback is stopped, including after the end.
func (c *Clip) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.playing
}

// Ended reports whether playback reached the end of the clip.
func (c *Clip) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Muted reports whether audio is muted.
func (c *Clip) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// SetMuted mutes or unmutes audio.
func (c *Clip) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

// Volume returns the audio volume in [0, 1].
func (c *Clip) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// SetVolume sets the audio volume. Values outside [0, 1] are rejected.
func (c *Clip) SetVolume(volume float64) error {
	if math.IsNaN(volume) || volume < 0 || volume > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, volume)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = volume
	return nil
}

// Seek moves the playback position, clamped to [0, Duration]. Seeking
// before the end clears the ended flag.
func (c *Clip) Seek(position time.Duration) {
	if position < 0 {
		position = 0
	}
	if position > c.duration {
		position = c.duration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.position = position
	if position < c.duration {
		c.ended = false
	}
	if c.playing {
		c.playingSince = c.timeProvider.Now()
		c.armEndTimerLocked()
	}
}

// Play starts or resumes playback. Playing a clip that has ended restarts
// it from the beginning.
func (c *Clip) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.autoplayBlocked && !c.muted {
		logrus.WithFields(logrus.Fields{
			"function": "Clip.Play",
		}).Debug("Unmuted playback rejected by autoplay policy")
		return ErrAutoplayBlocked
	}

	if c.playing {
		return nil
	}

	if c.ended || c.position >= c.duration {
		c.position = 0
		c.ended = false
	}

	c.playing = true
	c.playingSince = c.timeProvider.Now()
	c.armEndTimerLocked()

	logrus.WithFields(logrus.Fields{
		"function": "Clip.Play",
		"position": c.position,
		"muted":    c.muted,
		"volume":   c.volume,
	}).Debug("Playback started")

	return nil
}

// Pause stops playback at the current position.
func (c *Clip) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing {
		return
	}
	c.position = c.positionLocked()
	c.playing = false
	c.disarmEndTimerLocked()
}

func (c *Clip) positionLocked() time.Duration {
	if !c.playing {
		return c.position
	}
	pos := c.position + c.timeProvider.Now().Sub(c.playingSince)
	if pos > c.duration {
		pos = c.duration
	}
	return pos
}

// frameIndex returns the index of the frame shown at pos.
func (c *Clip) frameIndex(pos time.Duration) int {
	i := sort.Search(len(c.offsets), func(i int) bool { return c.offsets[i] > pos })
	if i == 0 {
		return 0
	}
	return i - 1
}

func (c *Clip) armEndTimerLocked() {
	c.disarmEndTimerLocked()

	gen := c.generation
	remaining := c.duration - c.position
	c.endTimer = c.timeProvider.AfterFunc(remaining, func() {
		c.finish(gen)
	})
}

func (c *Clip) disarmEndTimerLocked() {
	c.generation++
	if c.endTimer != nil {
		c.endTimer.Stop()
		c.endTimer = nil
	}
}

// finish marks the clip ended and notifies handlers. Stale timers from an
// earlier generation are ignored.
func (c *Clip) finish(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.playing {
		c.mu.Unlock()
		return
	}

	c.position = c.duration
	c.playing = false
	c.ended = true
	c.endTimer = nil
	handlers := append([]func(){}, c.endedHandlers...)
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Clip.finish",
		"duration": c.duration,
		"handlers": len(handlers),
	}).Debug("Playback reached end of clip")

	for _, handler := range handlers {
		handler()
	}
}
