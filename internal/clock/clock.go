// Package clock produces clamped per-tick delta times from a monotonic time source.
package clock

import (
	"sync"
	"time"
)

// DefaultMaxDelta bounds a single tick so a stall cannot cause a large state jump.
const DefaultMaxDelta = 100 * time.Millisecond

// TimeProvider supplies the current time.
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the wall clock. time.Now carries a monotonic reading, so
// differences between two values never go backward.
type SystemTime struct{}

// Now returns the current time with monotonic clock reading.
func (SystemTime) Now() time.Time {
	return time.Now()
}

// Clock measures the time between consecutive ticks.
type Clock struct {
	provider TimeProvider
	maxDelta time.Duration
	last     time.Time
}

// New creates a clock that starts measuring immediately.
// A non-positive maxDelta selects DefaultMaxDelta.
func New(provider TimeProvider, maxDelta time.Duration) *Clock {
	if provider == nil {
		provider = SystemTime{}
	}
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &Clock{
		provider: provider,
		maxDelta: maxDelta,
		last:     provider.Now(),
	}
}

// Tick returns seconds elapsed since the previous tick, clamped to [0, MaxDelta].
func (c *Clock) Tick() float64 {
	now := c.provider.Now()
	d := now.Sub(c.last)
	c.last = now

	if d < 0 {
		d = 0
	}
	if d > c.maxDelta {
		d = c.maxDelta
	}
	return d.Seconds()
}

// MaxDelta returns the clamp applied to each tick.
func (c *Clock) MaxDelta() time.Duration {
	return c.maxDelta
}

// MockTime is a controllable time source for tests.
type MockTime struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockTime creates a mock time source starting at the given time.
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{current: start}
}

// Now returns the current mocked time.
func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Advance moves the mocked time forward (or backward for negative d).
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
