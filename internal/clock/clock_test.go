package clock

import (
	"math"
	"testing"
	"time"
)

func TestClockTick(t *testing.T) {
	mt := NewMockTime(time.Unix(1000, 0))
	c := New(mt, 100*time.Millisecond)

	tests := []struct {
		name     string
		advance  time.Duration
		expected float64
	}{
		{"one frame", 16 * time.Millisecond, 0.016},
		{"no time", 0, 0},
		{"stall is clamped", 5 * time.Second, 0.1},
		{"exactly max", 100 * time.Millisecond, 0.1},
		{"backward clock", -time.Second, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mt.Advance(tc.advance)
			got := c.Tick()
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Tick() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestClockDefaults(t *testing.T) {
	c := New(nil, 0)
	if c.MaxDelta() != DefaultMaxDelta {
		t.Errorf("MaxDelta() = %v, expected %v", c.MaxDelta(), DefaultMaxDelta)
	}
	if d := c.Tick(); d < 0 || d > DefaultMaxDelta.Seconds() {
		t.Errorf("Tick() = %v, expected within [0, %v]", d, DefaultMaxDelta.Seconds())
	}
}
