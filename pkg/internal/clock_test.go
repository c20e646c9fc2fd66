package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock_DefaultStart(t *testing.T) {
	c := NewMockClock(time.Time{})
	assert.Equal(t, int64(1000000000), c.Now().Unix())
}

func TestMockClock_SleepAdvances(t *testing.T) {
	start := time.Unix(1700000000, 0)
	c := NewMockClock(start)

	c.Sleep(250 * time.Millisecond)
	c.Sleep(250 * time.Millisecond)

	assert.Equal(t, start.Add(500*time.Millisecond), c.Now())
	assert.Equal(t, 2, c.Sleeps())
}

func TestMockClock_AdvanceNegativePanics(t *testing.T) {
	c := NewMockClock(time.Time{})
	assert.Panics(t, func() { c.Advance(-time.Second) })
}

func TestMockClock_Set(t *testing.T) {
	c := NewMockClock(time.Time{})
	want := time.Unix(42, 0)
	c.Set(want)
	assert.Equal(t, want, c.Now())
}
