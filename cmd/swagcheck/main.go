// Swag Labs check runner
//
// Runs the login and navigation scenarios against the demo shop, each in a
// fresh browser session, and leaves a screenshot per scenario.
//
// Usage:
//
//	go run ./cmd/swagcheck list
//	go run ./cmd/swagcheck run
//	go run ./cmd/swagcheck run title navigate-to-about --parallel 2
//	go run ./cmd/swagcheck soak --duration 1h --interval 30s
//	go run ./cmd/swagcheck resolve
//
// Settings come from SWAG_* variables (optionally in a .env file); flags
// override them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thesyncim/swaglabs/internal/config"
	"github.com/thesyncim/swaglabs/internal/logging"
	"github.com/thesyncim/swaglabs/pkg/browser"
)

// errFailed is returned when at least one scenario failed. The outcome lines
// already explain why, so main only sets the exit status.
var errFailed = errors.New("scenarios failed")

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger *log.Logger

	envFile       string
	driver        string
	baseURL       string
	aboutMarker   string
	headless      bool
	timeout       time.Duration
	screenshotDir string
	logLevel      string

	// provisionOpts are appended to every provisioner; tests inject drivers here.
	provisionOpts []browser.Option
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(&app{}).ExecuteContext(ctx)
	switch {
	case errors.Is(err, errFailed):
		os.Exit(1)
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "swagcheck",
		Short:         "Browser checks for the Swag Labs demo shop",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading SWAG_* variables")
	pf.StringVar(&a.driver, "driver", "", "browser driver: rod or chromedp")
	pf.StringVar(&a.baseURL, "base-url", "", "shop base URL")
	pf.StringVar(&a.aboutMarker, "about-marker", "", "substring expected in the about page URL")
	pf.BoolVar(&a.headless, "headless", true, "run the browser without a window")
	pf.DurationVar(&a.timeout, "timeout", 0, "per-step wait bound")
	pf.StringVar(&a.screenshotDir, "screenshot-dir", "", "directory for screenshots")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newListCmd(a),
		newRunCmd(a),
		newSoakCmd(a),
		newResolveCmd(a),
	)
	return root
}

// load builds the configuration from the environment and applies any flag
// the user set explicitly.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		if _, err := browser.DriverFor(a.driver); err != nil {
			return fmt.Errorf("--driver: %w", err)
		}
		cfg.Driver = a.driver
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = a.baseURL
	}
	if flags.Changed("about-marker") {
		cfg.AboutMarker = a.aboutMarker
	}
	if flags.Changed("headless") {
		cfg.Headless = a.headless
	}
	if flags.Changed("timeout") {
		if a.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %v", a.timeout)
		}
		cfg.Timeout = a.timeout
	}
	if flags.Changed("screenshot-dir") {
		cfg.ScreenshotDir = a.screenshotDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Prefix = "swagcheck"
	opts.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.logger = logging.New(opts)
	return nil
}
