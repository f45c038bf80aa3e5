package overlay

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRefreshRate is the display refresh rate assumed when none is given.
const DefaultRefreshRate = 60.0

// Handle identifies a scheduled callback. The zero Handle never refers to
// a live callback.
type Handle uint64

// Scheduler runs callbacks on a single execution context.
//
// Cancel is advisory: a callback that is already being dispatched may
// still run after Cancel returns, so callbacks must re-check their own
// preconditions.
type Scheduler interface {
	// Schedule runs callback once, before the next display refresh.
	Schedule(callback func()) Handle
	// After runs callback once, after delay has elapsed.
	After(delay time.Duration, callback func()) Handle
	// Cancel drops a pending callback. Unknown or zero handles are ignored.
	Cancel(handle Handle)
}

type scheduledCallback struct {
	handle Handle
	fn     func()
}

// RefreshScheduler is a Scheduler that dispatches every callback from one
// goroutine. Frame callbacks are batched and run once per refresh interval;
// callbacks scheduled while a batch runs wait for the following refresh,
// so a self-rescheduling loop runs at most once per refresh and never
// builds a backlog. Delayed callbacks are handed to the same goroutine
// when their timer expires.
type RefreshScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	nextID  Handle
	frame   []scheduledCallback
	due     []scheduledCallback
	timers  map[Handle]*time.Timer
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	wake    chan struct{}
}

// NewRefreshScheduler creates a scheduler firing frame callbacks at
// refreshRate Hz. A non-positive rate selects DefaultRefreshRate.
func NewRefreshScheduler(refreshRate float64) *RefreshScheduler {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}

	return &RefreshScheduler{
		interval: time.Duration(float64(time.Second) / refreshRate),
		timers:   make(map[Handle]*time.Timer),
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the time between two refreshes.
func (s *RefreshScheduler) Interval() time.Duration {
	return s.interval
}

// Start launches the dispatch goroutine. It runs until ctx is cancelled or
// Stop is called.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	logrus.WithFields(logrus.Fields{
		"function": "RefreshScheduler.Start",
		"interval": s.interval,
	}).Debug("Refresh scheduler started")

	go s.run(ctx, s.done)
	return nil
}

// Stop halts dispatching, waits for the dispatch goroutine to exit and
// drops every pending callback.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()

	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
	}
	s.frame = nil
	s.due = nil
	s.running = false

	logrus.WithFields(logrus.Fields{
		"function": "RefreshScheduler.Stop",
	}).Debug("Refresh scheduler stopped")
}

// Schedule queues callback for the next refresh.
func (s *RefreshScheduler) Schedule(callback func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	handle := s.nextID
	s.frame = append(s.frame, scheduledCallback{handle: handle, fn: callback})
	return handle
}

// After queues callback to run once delay has elapsed.
func (s *RefreshScheduler) After(delay time.Duration, callback func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	handle := s.nextID
	s.timers[handle] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if _, pending := s.timers[handle]; !pending {
			s.mu.Unlock()
			return
		}
		delete(s.timers, handle)
		s.due = append(s.due, scheduledCallback{handle: handle, fn: callback})
		s.mu.Unlock()

		select {
		case s.wake <- struct{}{}:
		default:
		}
	})
	return handle
}

// Cancel removes a pending callback.
func (s *RefreshScheduler) Cancel(handle Handle) {
	if handle == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[handle]; ok {
		timer.Stop()
		delete(s.timers, handle)
		return
	}
	s.frame = removeCallback(s.frame, handle)
	s.due = removeCallback(s.due, handle)
}

// Pending returns the number of callbacks waiting to run.
func (s *RefreshScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frame) + len(s.due) + len(s.timers)
}

func (s *RefreshScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.dispatch(&s.due)
		case <-ticker.C:
			s.dispatch(&s.due)
			s.dispatch(&s.frame)
		}
	}
}

// dispatch takes the current contents of queue and runs them in order.
func (s *RefreshScheduler) dispatch(queue *[]scheduledCallback) {
	s.mu.Lock()
	batch := *queue
	*queue = nil
	s.mu.Unlock()

	for _, cb := range batch {
		cb.fn()
	}
}

func removeCallback(queue []scheduledCallback, handle Handle) []scheduledCallback {
	for i, cb := range queue {
		if cb.handle == handle {
			return append(queue[:i], queue[i+1:]...)
		}
	}
	return queue
}
