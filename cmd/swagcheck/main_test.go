package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/evidence"
	"github.com/thesyncim/swaglabs/pkg/scenario"
	"github.com/thesyncim/swaglabs/pkg/swaglabs"
)

// loginPage is a page that always shows the shop's login form and never
// reacts to input.
type loginPage struct {
	url string
}

func (p *loginPage) Navigate(_ context.Context, url string) error {
	p.url = url
	return nil
}

func (p *loginPage) Title(context.Context) (string, error) { return swaglabs.Brand, nil }
func (p *loginPage) URL(context.Context) (string, error)   { return p.url, nil }

func (p *loginPage) Query(_ context.Context, sel browser.Selector) (browser.ElementState, error) {
	switch sel {
	case swaglabs.UsernameField, swaglabs.PasswordField, swaglabs.LoginButton:
		return browser.ElementState{Found: true, Visible: true, Enabled: true}, nil
	}
	return browser.ElementState{}, nil
}

func (p *loginPage) Input(context.Context, browser.Selector, string) error { return nil }
func (p *loginPage) Click(context.Context, browser.Selector) error         { return nil }
func (p *loginPage) Screenshot(context.Context) ([]byte, error)            { return []byte("png"), nil }
func (p *loginPage) Close() error                                          { return nil }

type stubDriver struct {
	mu       sync.Mutex
	launches int
	profiles []string
}

func (d *stubDriver) Name() string { return "stub" }

func (d *stubDriver) Launch(_ context.Context, spec browser.LaunchSpec) (browser.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.launches++
	d.profiles = append(d.profiles, spec.ProfileDir)
	return &loginPage{}, nil
}

type harness struct {
	driver   *stubDriver
	shotDir  string
	tempRoot string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{
		"SWAG_BASE_URL", "SWAG_ABOUT_MARKER", "SWAG_DRIVER", "SWAG_BROWSER_BIN",
		"SWAG_HEADLESS", "SWAG_SCALE_FACTOR", "SWAG_TIMEOUT", "SWAG_POLL_INTERVAL",
		"SWAG_SCREENSHOT_DIR", "SWAG_LOG_LEVEL",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	h := &harness{driver: &stubDriver{}, shotDir: t.TempDir(), tempRoot: t.TempDir()}
	t.Setenv("SWAG_TEMP_ROOT", h.tempRoot)
	return h
}

// execute runs swagcheck with args and returns stdout, stderr and the error.
func (h *harness) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	a := &app{provisionOpts: []browser.Option{
		browser.WithDriver(h.driver),
		browser.WithResolver(func(string) (string, error) { return "/opt/chrome", nil }),
	}}
	cmd := newRootCmd(a)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--env-file", filepath.Join(t.TempDir(), "absent.env"),
		"--base-url", "http://shop.test/",
		"--timeout", "200ms",
		"--screenshot-dir", h.shotDir,
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.execute(t, "list")

	require.NoError(t, err)
	for _, sc := range swaglabs.All(swaglabs.DefaultSite()) {
		assert.Contains(t, out, sc.Name)
		assert.Contains(t, out, sc.Description)
	}
	assert.Zero(t, h.driver.launches, "list must not launch browsers")
}

func TestRun_PassingScenario(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.execute(t, "run", "title")

	require.NoError(t, err)
	assert.Contains(t, out, "PASS title")
	assert.Contains(t, out, "1 passed, 0 failed")
	assert.Equal(t, 1, h.driver.launches)

	entries, err := os.ReadDir(h.shotDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, evidence.Pattern, entries[0].Name())
}

func TestRun_FailureSetsExitError(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.execute(t, "run", "title", "login-without-credentials")

	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "PASS title")
	assert.Contains(t, out, "FAIL login-without-credentials")
	assert.Contains(t, out, "1 passed, 1 failed")

	// The failing scenario still leaves its screenshot.
	entries, err := os.ReadDir(h.shotDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun_AllInParallelUseSeparateProfiles(t *testing.T) {
	h := newHarness(t)

	out, _, _ := h.execute(t, "run", "--parallel", "3")

	assert.Equal(t, 5, h.driver.launches)
	seen := make(map[string]bool)
	for _, dir := range h.driver.profiles {
		assert.False(t, seen[dir], "profile %s reused", dir)
		seen[dir] = true
		assert.NoDirExists(t, dir, "profile must be removed after the run")
	}
	assert.Equal(t, 6, strings.Count(out, "\n"), "one line per scenario plus the tally")
}

func TestRun_UnknownScenario(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.execute(t, "run", "checkout")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scenario "checkout"`)
	assert.Zero(t, h.driver.launches)
}

func TestRun_InvalidParallel(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.execute(t, "run", "--parallel", "0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--parallel")
}

func TestRoot_RejectsUnknownDriver(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.execute(t, "--driver", "selenium", "list")

	require.ErrorIs(t, err, browser.ErrUnknownDriver)
}

func TestRoot_FlagsOverrideEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SWAG_BASE_URL", "http://from-env/")
	t.Setenv("SWAG_HEADLESS", "false")

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--env-file", filepath.Join(t.TempDir(), "absent.env"),
		"--base-url", "http://from-flag/",
		"--headless",
		"--log-level", "debug",
		"list",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "http://from-flag/", a.cfg.BaseURL)
	assert.True(t, a.cfg.Headless)
	assert.Equal(t, "debug", a.cfg.LogLevel)
	assert.Equal(t, h.tempRoot, a.cfg.TempRoot)
}

func TestSoak_SingleIterationSummary(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.execute(t, "soak", "--duration", "0s", "--interval", "0s", "title", "login-without-credentials")

	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "Iteration 1: 1 passed, 1 failed, recent failure rate 50%")
	assert.Contains(t, out, "Iterations: 1")
	assert.Contains(t, out, "Status:     FAIL")
	assert.Regexp(t, `login-without-credentials\s+passed 0, failed 1`, out)
	assert.Regexp(t, `title\s+passed 1, failed 0`, out)
}

func TestSoak_StopsWhenContextCancelled(t *testing.T) {
	h := newHarness(t)
	a := &app{provisionOpts: []browser.Option{
		browser.WithDriver(h.driver),
		browser.WithResolver(func(string) (string, error) { return "/opt/chrome", nil }),
	}}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env"), "--screenshot-dir", h.shotDir, "list"})
	require.NoError(t, cmd.Execute())

	ctx, cancel := context.WithCancel(context.Background())
	scs, err := swaglabs.Lookup(a.cfg.Site(), "title")
	require.NoError(t, err)

	done := make(chan *SoakResult)
	var out bytes.Buffer
	go func() { done <- a.soak(ctx, &out, scs, time.Hour, time.Hour, 1) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case result := <-done:
		assert.Equal(t, 1, result.Iterations)
	case <-time.After(5 * time.Second):
		t.Fatal("soak did not stop after cancellation")
	}
}

func TestCompleted_DropsOutcomesCutShortByCancellation(t *testing.T) {
	outcomes := []scenario.Outcome{
		{Scenario: "title"},
		{Scenario: "login-without-credentials", Step: "wait", Err: errors.New("error message did not appear")},
		{Scenario: "navigate-to-about", Step: "click", Err: fmt.Errorf("click: %w", context.Canceled)},
	}

	live := completed(context.Background(), outcomes)
	assert.Len(t, live, 3, "nothing is dropped while the soak is running")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	kept := completed(ctx, outcomes)
	require.Len(t, kept, 2)
	assert.Equal(t, "title", kept[0].Scenario)
	assert.Equal(t, "login-without-credentials", kept[1].Scenario)

	result := newSoakResult()
	passed, failed := result.record(completed(ctx, outcomes[:1:1]))
	result.record(completed(ctx, outcomes[2:]))
	assert.Equal(t, 1, passed)
	assert.Zero(t, failed)
	assert.Equal(t, "PASS", result.Status, "an interrupted scenario is not a failure")
	assert.Zero(t, result.Failures["navigate-to-about"])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:00", formatDuration(0))
	assert.Equal(t, "01:02:03", formatDuration(time.Hour+2*time.Minute+3*time.Second))
}
