// Package config loads suite configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/thesyncim/swaglabs/internal/logging"
	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/evidence"
	"github.com/thesyncim/swaglabs/pkg/scenario"
	"github.com/thesyncim/swaglabs/pkg/swaglabs"
	"github.com/thesyncim/swaglabs/pkg/wait"
)

// Config holds everything a run needs.
type Config struct {
	BaseURL       string
	AboutMarker   string
	Driver        string
	BrowserBin    string
	Headless      bool
	ScaleFactor   float64
	Timeout       time.Duration
	PollInterval  time.Duration
	ScreenshotDir string
	TempRoot      string
	LogLevel      string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BaseURL:       swaglabs.DefaultBaseURL,
		AboutMarker:   swaglabs.DefaultAboutMarker,
		Driver:        "rod",
		Headless:      true,
		ScaleFactor:   0.5,
		Timeout:       wait.DefaultTimeout,
		PollInterval:  wait.DefaultInterval,
		ScreenshotDir: ".",
		LogLevel:      "info",
	}
}

// Load reads the given .env files (default ".env"; missing files are
// ignored) into the process environment and then builds a Config from
// SWAG_* variables. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from SWAG_* variables over Default().
func FromEnv() (Config, error) {
	cfg := Default()
	cfg.BaseURL = envOr("SWAG_BASE_URL", cfg.BaseURL)
	cfg.AboutMarker = envOr("SWAG_ABOUT_MARKER", cfg.AboutMarker)
	cfg.Driver = envOr("SWAG_DRIVER", cfg.Driver)
	cfg.BrowserBin = envOr("SWAG_BROWSER_BIN", cfg.BrowserBin)
	cfg.ScreenshotDir = envOr("SWAG_SCREENSHOT_DIR", cfg.ScreenshotDir)
	cfg.TempRoot = envOr("SWAG_TEMP_ROOT", cfg.TempRoot)
	cfg.LogLevel = envOr("SWAG_LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.Headless, err = envBool("SWAG_HEADLESS", cfg.Headless); err != nil {
		return Config{}, err
	}
	if cfg.ScaleFactor, err = envFloat("SWAG_SCALE_FACTOR", cfg.ScaleFactor); err != nil {
		return Config{}, err
	}
	if cfg.Timeout, err = envDuration("SWAG_TIMEOUT", cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = envDuration("SWAG_POLL_INTERVAL", cfg.PollInterval); err != nil {
		return Config{}, err
	}
	if _, err := browser.DriverFor(cfg.Driver); err != nil {
		return Config{}, fmt.Errorf("SWAG_DRIVER: %w", err)
	}
	return cfg, nil
}

// Browser returns the session configuration.
func (c Config) Browser() browser.Config {
	b := browser.DefaultConfig()
	b.Driver = c.Driver
	b.Bin = c.BrowserBin
	b.Headless = c.Headless
	b.ScaleFactor = c.ScaleFactor
	b.TempRoot = c.TempRoot
	return b
}

// Site returns the shop under test.
func (c Config) Site() swaglabs.Site {
	return swaglabs.Site{BaseURL: c.BaseURL, AboutMarker: c.AboutMarker}
}

// Logger returns a logger at the configured level.
func (c Config) Logger(prefix string) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Prefix = prefix
	return logging.New(opts)
}

// Runner returns a scenario runner bounded by Timeout.
func (c Config) Runner(logger *log.Logger) *scenario.Runner {
	return scenario.NewRunner(
		wait.New(c.Timeout, c.PollInterval),
		evidence.NewWriter(c.ScreenshotDir),
		logger,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: invalid boolean %q", key, v)
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
