// Package testutil provides test helpers that run scenarios on real browsers.
// Each helper ties a session's lifetime to the calling test.
package testutil

import (
	"context"
	"testing"

	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/scenario"
)

// Acquire provisions a fresh session and registers its release with
// tb.Cleanup before returning, so the browser is closed and the profile
// removed however the test ends. A launch failure fails the test.
func Acquire(tb testing.TB, cfg browser.Config, opts ...browser.Option) *browser.Session {
	tb.Helper()

	p, err := browser.NewProvisioner(cfg, opts...)
	if err != nil {
		tb.Fatalf("failed to create provisioner: %v", err)
	}
	s, err := p.Acquire(context.Background())
	if err != nil {
		tb.Fatalf("failed to acquire browser session: %v", err)
	}
	tb.Cleanup(func() {
		if err := s.Release(); err != nil {
			tb.Logf("browser close error: %v", err)
		}
	})
	return s
}

// RunScenario runs sc on a session of its own and fails the test with the
// outcome's error. The outcome is returned either way for further checks.
func RunScenario(tb testing.TB, r *scenario.Runner, cfg browser.Config, sc scenario.Scenario, opts ...browser.Option) scenario.Outcome {
	tb.Helper()

	s := Acquire(tb, cfg, opts...)
	out := r.Run(context.Background(), s.Page(), sc, s.ID)
	if out.Screenshot != "" {
		tb.Logf("Screenshot saved to %s", out.Screenshot)
	}
	if !out.Passed() {
		tb.Errorf("scenario %s failed at %q: %v", sc.Name, out.Step, out.Err)
	}
	return out
}
