// Package scenario runs user journeys against a browser page.
//
// A Scenario is an ordered list of Steps that navigate, locate, interact,
// wait and assert. The Runner stops at the first failing step and then
// always captures an evidence screenshot, whatever the outcome.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thesyncim/swaglabs/internal/logging"
	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/evidence"
	"github.com/thesyncim/swaglabs/pkg/wait"
)

// Scenario is one complete user journey.
type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

// Outcome is the result of one scenario run.
type Outcome struct {
	Scenario   string
	Session    string
	Step       string // failing step, empty on success
	Err        error
	Screenshot string
	Started    time.Time
	Duration   time.Duration
}

// Passed reports whether every step succeeded and evidence was written.
func (o Outcome) Passed() bool { return o.Err == nil }

func (o Outcome) String() string {
	if o.Passed() {
		return fmt.Sprintf("PASS %s (%v) %s", o.Scenario, o.Duration.Round(time.Millisecond), o.Screenshot)
	}
	return fmt.Sprintf("FAIL %s (%v) at %q: %v", o.Scenario, o.Duration.Round(time.Millisecond), o.Step, o.Err)
}

// Runner executes scenarios.
type Runner struct {
	Waiter   *wait.Waiter
	Evidence *evidence.Writer
	Logger   *log.Logger
}

// NewRunner returns a Runner with the given waiter and evidence writer.
func NewRunner(w *wait.Waiter, ev *evidence.Writer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{Waiter: w, Evidence: ev, Logger: logger}
}

// Run drives page through sc. session labels the outcome and log lines.
// Evidence is captured even when a step panics; the panic is then re-raised.
func (r *Runner) Run(ctx context.Context, page browser.Page, sc Scenario, session string) (out Outcome) {
	logger := r.logger().With("scenario", sc.Name)
	out = Outcome{Scenario: sc.Name, Session: session, Started: time.Now()}

	var current string
	defer func() {
		p := recover()
		if p != nil {
			out.Step = current
			out.Err = fmt.Errorf("step panicked: %v", p)
		}
		r.capture(ctx, page, &out, logger)
		r.report(&out, logger)
		if p != nil {
			panic(p)
		}
	}()

	for _, step := range sc.Steps {
		current = step.Name
		logger.Debug("step", "step", step.Name)
		if err := step.Do(ctx, page, r.Waiter); err != nil {
			out.Step = step.Name
			out.Err = err
			break
		}
	}
	return out
}

// capture writes the evidence screenshot. Its failure fails a passing run
// and is only logged when the run already failed.
func (r *Runner) capture(ctx context.Context, page browser.Page, out *Outcome, logger *log.Logger) {
	ev := r.Evidence
	if ev == nil {
		ev = evidence.NewWriter("")
	}
	ctx, cancel := r.Waiter.Bound(ctx)
	defer cancel()
	path, err := ev.Capture(ctx, page)
	switch {
	case err == nil:
		out.Screenshot = path
	case out.Err == nil:
		out.Step = "capture evidence"
		out.Err = err
	default:
		logger.Warn("evidence capture failed", "err", err)
	}
}

func (r *Runner) report(out *Outcome, logger *log.Logger) {
	out.Duration = time.Since(out.Started)
	if out.Passed() {
		logger.Info("passed", "elapsed", out.Duration.Round(time.Millisecond), "screenshot", out.Screenshot)
	} else {
		logger.Error("failed", "step", out.Step, "err", out.Err, "screenshot", out.Screenshot)
	}
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}
