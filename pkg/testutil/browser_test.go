package testutil

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/evidence"
	"github.com/thesyncim/swaglabs/pkg/internal"
	"github.com/thesyncim/swaglabs/pkg/scenario"
	"github.com/thesyncim/swaglabs/pkg/wait"
)

type stubBrowser struct {
	title  string
	closed int
}

func (b *stubBrowser) Navigate(context.Context, string) error     { return nil }
func (b *stubBrowser) Title(context.Context) (string, error)      { return b.title, nil }
func (b *stubBrowser) URL(context.Context) (string, error)        { return "about:blank", nil }
func (b *stubBrowser) Screenshot(context.Context) ([]byte, error) { return []byte("png"), nil }
func (b *stubBrowser) Query(context.Context, browser.Selector) (browser.ElementState, error) {
	return browser.ElementState{}, nil
}
func (b *stubBrowser) Input(context.Context, browser.Selector, string) error { return nil }
func (b *stubBrowser) Click(context.Context, browser.Selector) error         { return nil }
func (b *stubBrowser) Close() error {
	b.closed++
	return nil
}

type stubDriver struct {
	launched []*stubBrowser
	title    string
	err      error
}

func (d *stubDriver) Name() string { return "stub" }

func (d *stubDriver) Launch(context.Context, browser.LaunchSpec) (browser.Browser, error) {
	if d.err != nil {
		return nil, d.err
	}
	b := &stubBrowser{title: d.title}
	d.launched = append(d.launched, b)
	return b, nil
}

// recorder captures Fatalf/Errorf without stopping the outer test.
type recorder struct {
	testing.TB
	cleanups []func()
	fatal    string
	errored  bool
}

func (r *recorder) Helper()                   {}
func (r *recorder) Logf(string, ...any)       {}
func (r *recorder) Cleanup(f func())          { r.cleanups = append(r.cleanups, f) }
func (r *recorder) Errorf(string, ...any)     { r.errored = true }
func (r *recorder) Fatalf(f string, a ...any) { r.fatal = f; runtime.Goexit() }

func (r *recorder) runCleanups() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}

func testConfig(t *testing.T) browser.Config {
	cfg := browser.DefaultConfig()
	cfg.TempRoot = t.TempDir()
	return cfg
}

func resolver(string) (string, error) { return "chrome", nil }

func TestAcquire_ReleasesOnCleanup(t *testing.T) {
	drv := &stubDriver{}
	rec := &recorder{TB: t}

	s := Acquire(rec, testConfig(t), browser.WithDriver(drv), browser.WithResolver(resolver))
	require.DirExists(t, s.ProfileDir)
	require.Len(t, rec.cleanups, 1)

	rec.runCleanups()

	assert.Equal(t, 1, drv.launched[0].closed)
	assert.NoDirExists(t, s.ProfileDir)
}

func TestAcquire_LaunchFailureIsFatal(t *testing.T) {
	rec := &recorder{TB: t}
	drv := &stubDriver{err: errors.New("no chrome")}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Acquire(rec, testConfig(t), browser.WithDriver(drv), browser.WithResolver(resolver))
	}()
	<-done

	assert.Contains(t, rec.fatal, "failed to acquire browser session")
	assert.Empty(t, rec.cleanups)
}

func TestRunScenario_ReleasesEvenWhenScenarioFails(t *testing.T) {
	drv := &stubDriver{title: "Other Shop"}
	rec := &recorder{TB: t}
	clk := internal.NewMockClock(time.Unix(1700000000, 0))
	dir := t.TempDir()
	r := scenario.NewRunner(
		&wait.Waiter{Clock: clk, Timeout: time.Second},
		&evidence.Writer{Dir: dir, Clock: clk},
		nil,
	)
	sc := scenario.Scenario{Name: "title", Steps: []scenario.Step{scenario.AssertTitleContains("Swag Labs")}}

	out := RunScenario(rec, r, testConfig(t), sc, browser.WithDriver(drv), browser.WithResolver(resolver))
	rec.runCleanups()

	assert.True(t, rec.errored)
	assert.False(t, out.Passed())
	assert.FileExists(t, out.Screenshot)
	assert.Equal(t, 1, drv.launched[0].closed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "exactly one screenshot per scenario run")
}
