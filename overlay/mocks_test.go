package overlay

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/opd-ai/greenscreen/frame"
)

// manualScheduler queues callbacks until the test fires them. With
// advisory set, Cancel is recorded but the callback stays queued, which
// models a host whose cancellation can lose the race with dispatch.
type manualScheduler struct {
	nextID    Handle
	frames    []scheduledCallback
	timers    []delayedCallback
	cancelled []Handle
	advisory  bool
}

type delayedCallback struct {
	scheduledCallback
	delay time.Duration
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{}
}

func (m *manualScheduler) Schedule(callback func()) Handle {
	m.nextID++
	m.frames = append(m.frames, scheduledCallback{handle: m.nextID, fn: callback})
	return m.nextID
}

func (m *manualScheduler) After(delay time.Duration, callback func()) Handle {
	m.nextID++
	m.timers = append(m.timers, delayedCallback{
		scheduledCallback: scheduledCallback{handle: m.nextID, fn: callback},
		delay:             delay,
	})
	return m.nextID
}

func (m *manualScheduler) Cancel(handle Handle) {
	if handle == 0 {
		return
	}
	m.cancelled = append(m.cancelled, handle)
	if m.advisory {
		return
	}
	m.frames = removeCallback(m.frames, handle)
	for i, t := range m.timers {
		if t.handle == handle {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			break
		}
	}
}

// FireFrame runs the callbacks queued for the current refresh and returns
// how many ran.
func (m *manualScheduler) FireFrame() int {
	batch := m.frames
	m.frames = nil
	for _, cb := range batch {
		cb.fn()
	}
	return len(batch)
}

// FireTimers runs every pending delayed callback.
func (m *manualScheduler) FireTimers() int {
	batch := m.timers
	m.timers = nil
	for _, t := range batch {
		t.fn()
	}
	return len(batch)
}

// fakeVideo records every transport call made by the controller.
type fakeVideo struct {
	ready    frame.ReadyState
	img      image.Image
	paused   bool
	ended    bool
	muted    bool
	volume   float64
	position time.Duration
	playErr  error

	seekCalls   int
	muteCalls   int
	volumeCalls int
	playCalls   int
	pauseCalls  int

	endedHandlers []func()
}

func newFakeVideo() *fakeVideo {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(2, 0, color.NRGBA{10, 240, 5, 255})
	img.SetNRGBA(3, 0, color.NRGBA{100, 100, 100, 255})

	return &fakeVideo{
		ready:  frame.HaveEnoughData,
		img:    img,
		paused: true,
		muted:  true,
		volume: 0,
	}
}

func (v *fakeVideo) ReadyState() frame.ReadyState { return v.ready }
func (v *fakeVideo) CurrentFrame() image.Image    { return v.img }
func (v *fakeVideo) Paused() bool                 { return v.paused }
func (v *fakeVideo) Ended() bool                  { return v.ended }

func (v *fakeVideo) Seek(position time.Duration) {
	v.seekCalls++
	v.position = position
}

func (v *fakeVideo) SetMuted(muted bool) {
	v.muteCalls++
	v.muted = muted
}

func (v *fakeVideo) SetVolume(volume float64) error {
	v.volumeCalls++
	v.volume = volume
	return nil
}

func (v *fakeVideo) Play(ctx context.Context) error {
	v.playCalls++
	if v.playErr != nil {
		return v.playErr
	}
	v.paused = false
	v.ended = false
	return nil
}

func (v *fakeVideo) Pause() {
	v.pauseCalls++
	v.paused = true
}

func (v *fakeVideo) OnEnded(handler func()) {
	v.endedHandlers = append(v.endedHandlers, handler)
}

// finish simulates the video reaching its last frame.
func (v *fakeVideo) finish() {
	v.ended = true
	v.paused = true
	for _, h := range v.endedHandlers {
		h()
	}
}

// plainVideo hides the OnEnded method of fakeVideo.
type plainVideo struct {
	*fakeVideo
}

func (plainVideo) OnEnded() {}

type fakeCloseControl struct {
	visible bool
	calls   []bool
}

func (f *fakeCloseControl) SetVisible(visible bool) {
	f.visible = visible
	f.calls = append(f.calls, visible)
}
