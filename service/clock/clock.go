// Package clock supplies the monotonic microsecond time source the kernel
// uses for dispatch timestamps, time-slice checks and CPU accounting.  It is
// a collaborator interface so tests can drive time deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock returns monotonically increasing microseconds since an arbitrary
// origin.
type Clock interface {
	Now() int64
}

// System is the wall implementation backed by the runtime monotonic clock.
type System struct {
	base time.Time
}

// NewSystem creates a system clock with its origin at construction time.
func NewSystem() *System {
	return &System{base: time.Now()}
}

func (s *System) Now() int64 {
	return time.Since(s.base).Microseconds()
}

// Manual is a hand-driven clock for tests.
type Manual struct {
	mu  sync.Mutex
	now int64
}

// NewManual creates a manual clock starting at the given microsecond value.
func NewManual(start int64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward; negative durations are ignored so the
// clock stays monotonic.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	m.mu.Lock()
	m.now += d.Microseconds()
	m.mu.Unlock()
}
