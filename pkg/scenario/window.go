package scenario

import "time"

// WindowConfig configures the sliding window failure rate.
type WindowConfig struct {
	// Size is how far back outcomes count. Default: 10 minutes.
	Size time.Duration
}

// DefaultWindowConfig returns a ten minute window.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{Size: 10 * time.Minute}
}

type windowSample struct {
	at     time.Time
	failed bool
}

// Window tracks the failure rate of recent outcomes over a sliding time
// window. Long soak runs use it to tell a burst of failures from a steady
// trickle.
//
// Usage:
//
//	w := NewWindow(DefaultWindowConfig())
//	w.Record(outcome, time.Now())
//	if rate, ok := w.FailureRate(time.Now()); ok {
//	    fmt.Printf("recent failures: %.0f%%\n", rate*100)
//	}
type Window struct {
	size    time.Duration
	samples []windowSample
	failed  int
}

// NewWindow creates a window with the given configuration.
func NewWindow(cfg WindowConfig) *Window {
	size := cfg.Size
	if size <= 0 {
		size = DefaultWindowConfig().Size
	}
	return &Window{
		size:    size,
		samples: make([]windowSample, 0, 64),
	}
}

// Record adds o, observed at now. Samples older than the window are dropped
// first, so a gap longer than the window empties it.
func (w *Window) Record(o Outcome, now time.Time) {
	w.removeExpired(now)
	s := windowSample{at: now, failed: !o.Passed()}
	w.samples = append(w.samples, s)
	if s.failed {
		w.failed++
	}
}

// FailureRate returns the fraction of outcomes in the window that failed.
// ok is false when the window is empty.
func (w *Window) FailureRate(now time.Time) (rate float64, ok bool) {
	w.removeExpired(now)
	if len(w.samples) == 0 {
		return 0, false
	}
	return float64(w.failed) / float64(len(w.samples)), true
}

// Len returns the number of outcomes currently in the window.
func (w *Window) Len() int { return len(w.samples) }

// Reset clears all samples.
func (w *Window) Reset() {
	w.samples = w.samples[:0]
	w.failed = 0
}

// removeExpired drops samples older than size before now.
func (w *Window) removeExpired(now time.Time) {
	cutoff := now.Add(-w.size)

	expired := 0
	for i, s := range w.samples {
		if !s.at.Before(cutoff) {
			break
		}
		if s.failed {
			w.failed--
		}
		expired = i + 1
	}
	if expired > 0 {
		w.samples = w.samples[expired:]
	}
}
