// Package wait provides bounded condition polling for browser scenarios.
//
// A condition is evaluated immediately and then once per interval until it
// reports true, the timeout elapses, or the context is cancelled. There are no
// retries beyond the bound: a timeout is terminal for the caller.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thesyncim/swaglabs/pkg/internal"
)

const (
	// DefaultTimeout bounds every condition wait unless configured otherwise.
	DefaultTimeout = 10 * time.Second
	// DefaultInterval is the polling period between condition evaluations.
	DefaultInterval = 100 * time.Millisecond
)

// Condition reports whether the awaited state has been reached.
// A non-nil error is treated as "not yet"; the last one is kept for the
// timeout report.
type Condition func(ctx context.Context) (bool, error)

// TimeoutError reports a condition that never became true within its bound.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Elapsed   time.Duration
	Last      error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %v waiting for %s", e.Timeout, e.Condition)
	if e.Last != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Last)
	}
	return msg
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match timeouts.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// IsTimeout reports whether err is, or wraps, a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Waiter polls conditions with a fixed bound and interval.
type Waiter struct {
	Clock    internal.Clock
	Timeout  time.Duration
	Interval time.Duration
}

// New returns a Waiter on the system clock.
// Non-positive arguments fall back to DefaultTimeout and DefaultInterval.
func New(timeout, interval time.Duration) *Waiter {
	return &Waiter{
		Clock:    internal.MonotonicClock{},
		Timeout:  timeout,
		Interval: interval,
	}
}

func (w *Waiter) clock() internal.Clock {
	if w == nil || w.Clock == nil {
		return internal.MonotonicClock{}
	}
	return w.Clock
}

func (w *Waiter) timeout() time.Duration {
	if w == nil || w.Timeout <= 0 {
		return DefaultTimeout
	}
	return w.Timeout
}

func (w *Waiter) interval() time.Duration {
	if w == nil || w.Interval <= 0 {
		return DefaultInterval
	}
	return w.Interval
}

// Until blocks until cond returns true.
// desc names the condition in the timeout error, e.g. "element id=login-button to be clickable".
func (w *Waiter) Until(ctx context.Context, desc string, cond Condition) error {
	_, err := Value(ctx, w, desc, func(ctx context.Context) (struct{}, bool, error) {
		ok, err := cond(ctx)
		return struct{}{}, ok, err
	})
	return err
}

// Bound returns ctx limited to the waiter's timeout. Driver calls that are
// not polls (navigate, click, type) run under it so none of them can block
// past the bound.
func (w *Waiter) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, w.timeout())
}

// Value polls check until it reports ok and returns the value it found.
// Each check runs under a context that expires with the bound, so a check
// that blocks still ends in a *TimeoutError.
func Value[T any](ctx context.Context, w *Waiter, desc string, check func(ctx context.Context) (T, bool, error)) (T, error) {
	var zero T
	clk := w.clock()
	timeout := w.timeout()
	interval := w.interval()

	start := clk.Now()
	deadline := start.Add(timeout)
	boundCtx, cancel := w.Bound(ctx)
	defer cancel()
	var last error

	for {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("waiting for %s: %w", desc, err)
		}

		v, ok, err := check(boundCtx)
		if err == nil && ok {
			return v, nil
		}
		// Keep the last real failure rather than the bound's own expiry.
		if err != nil && (boundCtx.Err() == nil || last == nil) {
			last = err
		}

		now := clk.Now()
		if !now.Before(deadline) || boundCtx.Err() != nil {
			if err := ctx.Err(); err != nil {
				return zero, fmt.Errorf("waiting for %s: %w", desc, err)
			}
			return zero, &TimeoutError{
				Condition: desc,
				Timeout:   timeout,
				Elapsed:   now.Sub(start),
				Last:      last,
			}
		}

		sleep := interval
		if remaining := deadline.Sub(now); remaining < sleep {
			sleep = remaining
		}
		clk.Sleep(sleep)
	}
}
