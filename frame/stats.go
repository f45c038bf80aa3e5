package frame

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats collects tick counters with atomic operations and timing under a
// small lock.
type Stats struct {
	ticks       int64
	processed   int64
	skipped     int64
	keyedPixels int64
	totalPixels int64

	timingLock sync.RWMutex
	lastTick   time.Duration
	peakTick   time.Duration
	totalTime  time.Duration
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Ticks       int64
	Processed   int64
	Skipped     int64
	KeyedPixels int64
	TotalPixels int64
	LastTick    time.Duration
	PeakTick    time.Duration
	AverageTick time.Duration
}

// KeyedFraction returns the share of processed pixels that were keyed out.
func (s StatsSnapshot) KeyedFraction() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.KeyedPixels) / float64(s.TotalPixels)
}

func (s *Stats) recordTick() {
	atomic.AddInt64(&s.ticks, 1)
}

func (s *Stats) recordSkip() {
	atomic.AddInt64(&s.skipped, 1)
}

func (s *Stats) recordProcessed(keyed, pixels int, elapsed time.Duration) {
	atomic.AddInt64(&s.processed, 1)
	atomic.AddInt64(&s.keyedPixels, int64(keyed))
	atomic.AddInt64(&s.totalPixels, int64(pixels))

	s.timingLock.Lock()
	defer s.timingLock.Unlock()
	s.lastTick = elapsed
	s.totalTime += elapsed
	if elapsed > s.peakTick {
		s.peakTick = elapsed
	}
}

// Snapshot returns the current values.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Ticks:       atomic.LoadInt64(&s.ticks),
		Processed:   atomic.LoadInt64(&s.processed),
		Skipped:     atomic.LoadInt64(&s.skipped),
		KeyedPixels: atomic.LoadInt64(&s.keyedPixels),
		TotalPixels: atomic.LoadInt64(&s.totalPixels),
	}

	s.timingLock.RLock()
	defer s.timingLock.RUnlock()
	snap.LastTick = s.lastTick
	snap.PeakTick = s.peakTick
	if snap.Processed > 0 {
		snap.AverageTick = s.totalTime / time.Duration(snap.Processed)
	}
	return snap
}

// Reset zeroes all counters and timings.
func (s *Stats) Reset() {
	atomic.StoreInt64(&s.ticks, 0)
	atomic.StoreInt64(&s.processed, 0)
	atomic.StoreInt64(&s.skipped, 0)
	atomic.StoreInt64(&s.keyedPixels, 0)
	atomic.StoreInt64(&s.totalPixels, 0)

	s.timingLock.Lock()
	defer s.timingLock.Unlock()
	s.lastTick = 0
	s.peakTick = 0
	s.totalTime = 0
}
