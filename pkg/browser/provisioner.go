// Package browser provisions isolated browser sessions for scenario runs.
//
// Every Session owns a freshly created profile directory whose preference
// store is seeded before the browser first starts. Release closes the
// browser and removes the directory; it is safe to defer and runs at most
// once.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/thesyncim/swaglabs/internal/logging"
)

var (
	// ErrUnknownDriver is returned for a Config.Driver no driver answers to.
	ErrUnknownDriver = errors.New("unknown browser driver")
	// ErrReleased is returned by Release after the first call.
	ErrReleased = errors.New("session already released")
	// ErrElementNotFound is returned by actions on a selector with no match.
	ErrElementNotFound = errors.New("element not found")
)

// DriverFor returns the driver registered under name.
// An empty name selects rod.
func DriverFor(name string) (Driver, error) {
	switch name {
	case "", "rod":
		return RodDriver{}, nil
	case "chromedp":
		return ChromedpDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}

// Provisioner hands out one fresh Session per Acquire.
type Provisioner struct {
	cfg     Config
	driver  Driver
	resolve Resolver
	logger  *log.Logger
}

// Option customizes a Provisioner.
type Option func(*Provisioner)

// WithDriver overrides the driver chosen from Config.Driver.
func WithDriver(d Driver) Option {
	return func(p *Provisioner) { p.driver = d }
}

// WithResolver overrides browser binary resolution.
func WithResolver(r Resolver) Option {
	return func(p *Provisioner) { p.resolve = r }
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(p *Provisioner) { p.logger = l }
}

// NewProvisioner validates cfg and returns a Provisioner.
func NewProvisioner(cfg Config, opts ...Option) (*Provisioner, error) {
	p := &Provisioner{cfg: cfg, resolve: ResolveBrowser}
	for _, opt := range opts {
		opt(p)
	}
	if p.driver == nil {
		d, err := DriverFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		p.driver = d
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}
	return p, nil
}

// Acquire creates a profile, seeds its preferences and launches a browser on
// it. Any failure removes the profile and is returned as is; nothing is retried.
func (p *Provisioner) Acquire(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	logger := p.logger.With("session", id[:8], "driver", p.driver.Name())

	dir, err := NewProfileDir(p.cfg.TempRoot, p.cfg.ProfilePrefix)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Session, error) {
		if rmErr := RemoveProfileDir(dir); rmErr != nil {
			logger.Warn("profile cleanup failed", "err", rmErr)
		}
		return nil, err
	}

	if err := SeedProfile(dir, p.cfg.Preferences); err != nil {
		return fail(err)
	}

	bin, err := p.resolve(p.cfg.Bin)
	if err != nil {
		return fail(fmt.Errorf("resolve browser: %w", err))
	}

	launchCtx := ctx
	if p.cfg.LaunchTimeout > 0 {
		var cancel context.CancelFunc
		launchCtx, cancel = context.WithTimeout(ctx, p.cfg.LaunchTimeout)
		defer cancel()
	}

	b, err := p.driver.Launch(launchCtx, LaunchSpec{
		Bin:          bin,
		ProfileDir:   dir,
		Headless:     p.cfg.Headless,
		Flags:        p.cfg.Flags(),
		WindowWidth:  p.cfg.WindowWidth,
		WindowHeight: p.cfg.WindowHeight,
	})
	if err != nil {
		return fail(fmt.Errorf("launch %s: %w", p.driver.Name(), err))
	}

	logger.Info("session acquired", "profile", dir)
	return &Session{
		ID:         id,
		ProfileDir: dir,
		Started:    time.Now(),
		browser:    b,
		logger:     logger,
	}, nil
}

// Session is one live browser bound to its own profile directory.
// It belongs to exactly one scenario run.
type Session struct {
	ID         string
	ProfileDir string
	Started    time.Time

	browser Browser
	logger  *log.Logger
	once    sync.Once
}

// Page returns the page the session drives.
func (s *Session) Page() Page { return s.browser }

// Release closes the browser and then removes the profile directory.
// Only the close error is returned; profile removal is best effort.
// Calls after the first return ErrReleased.
func (s *Session) Release() error {
	err := ErrReleased
	s.once.Do(func() {
		err = s.browser.Close()
		if rmErr := RemoveProfileDir(s.ProfileDir); rmErr != nil {
			s.logger.Warn("profile cleanup failed", "err", rmErr)
		}
		s.logger.Info("session released", "elapsed", time.Since(s.Started).Round(time.Millisecond))
	})
	return err
}
