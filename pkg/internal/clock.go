// Package internal provides shared utilities for the swaglabs packages.
package internal

import (
	"sync"
	"time"
)

// Clock supplies time to condition waits and evidence naming.
// Tests substitute MockClock so polling and timestamps are deterministic.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Sleep blocks for d.
	Sleep(d time.Duration)
}

// MonotonicClock is the Clock backed by the system clock.
type MonotonicClock struct{}

// Now returns the current system time with monotonic clock reading.
func (MonotonicClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for d.
func (MonotonicClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// MockClock is a Clock whose time only moves when told to.
// Sleep advances the clock instead of blocking.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	sleeps  int
}

// NewMockClock creates a new MockClock initialized to the given time.
// If t is zero, it initializes to a reasonable default start time.
func NewMockClock(t time.Time) *MockClock {
	if t.IsZero() {
		t = time.Unix(1000000000, 0) // 2001-09-09
	}
	return &MockClock{current: t}
}

// Now returns the mock clock's current time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Sleep advances the clock by d and returns immediately.
func (m *MockClock) Sleep(d time.Duration) {
	m.Advance(d)
	m.mu.Lock()
	m.sleeps++
	m.mu.Unlock()
}

// Sleeps reports how many times Sleep was called.
func (m *MockClock) Sleeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sleeps
}

// Advance moves the clock forward by the given duration.
// Panics if d is negative to maintain monotonicity.
func (m *MockClock) Advance(d time.Duration) {
	if d < 0 {
		panic("MockClock.Advance: duration must be non-negative")
	}
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}

// Set sets the clock to the given time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}
