package browser

import (
	"strconv"
	"strings"
	"time"
)

// Config configures how sessions are provisioned.
type Config struct {
	Driver          string         // "rod" or "chromedp"
	Bin             string         // Browser binary; resolved when empty
	Headless        bool           // Run without a visible window
	Incognito       bool           // Private browsing; disables the password manager
	ScaleFactor     float64        // Forced device scale factor (0 leaves it alone)
	WindowWidth     int            // Window size paired with start-maximized
	WindowHeight    int
	DisableFeatures []string       // Chrome features switched off via --disable-features
	ExtraFlags      []Flag         // Appended after the built-in flags
	Preferences     map[string]any // Seeded into <profile>/Default/Preferences
	ProfilePrefix   string         // Temporary profile directory prefix
	TempRoot        string         // Parent of profile directories (default: os.TempDir)
	LaunchTimeout   time.Duration  // Bound on driver start-up
}

// DefaultConfig returns the configuration the suite runs with: a fresh,
// incognito profile with the credential, autofill and safe-browsing prompts
// disabled before first launch.
func DefaultConfig() Config {
	return Config{
		Driver:       "rod",
		Headless:     true,
		Incognito:    true,
		ScaleFactor:  0.5,
		WindowWidth:  1920,
		WindowHeight: 1080,
		DisableFeatures: []string{
			"PasswordManagerOnboarding",
			"PasswordLeakDetection",
			"AutofillKeychain",
			"AutofillServerCommunication",
		},
		Preferences:   DefaultPreferences(),
		ProfilePrefix: "chrome-prof-",
		LaunchTimeout: 60 * time.Second,
	}
}

// DefaultPreferences is the preference store written before first launch.
func DefaultPreferences() map[string]any {
	return map[string]any{
		"credentials_enable_service":    false,
		"credentials_enable_autosignin": false,
		"profile": map[string]any{
			"password_manager_enabled": false,
		},
		"autofill": map[string]any{
			"enabled":             false,
			"profile_enabled":     false,
			"credit_card_enabled": false,
		},
		"safebrowsing": map[string]any{
			"enabled": false,
		},
		"signin": map[string]any{
			"allowed": false,
		},
	}
}

// Flags assembles the browser switches for this configuration in a stable order.
// The user data directory and headless mode are set by the driver from LaunchSpec.
func (c Config) Flags() []Flag {
	flags := []Flag{
		{Name: "disable-save-password-bubble"},
	}
	if len(c.DisableFeatures) > 0 {
		flags = append(flags, Flag{Name: "disable-features", Value: strings.Join(c.DisableFeatures, ",")})
	}
	flags = append(flags, Flag{Name: "profile-directory", Value: "Default"})
	if c.Incognito {
		flags = append(flags, Flag{Name: "incognito"})
	}
	if c.ScaleFactor > 0 {
		flags = append(flags, Flag{
			Name:  "force-device-scale-factor",
			Value: strconv.FormatFloat(c.ScaleFactor, 'f', -1, 64),
		})
	}
	flags = append(flags, Flag{Name: "start-maximized"})
	if c.WindowWidth > 0 && c.WindowHeight > 0 {
		flags = append(flags, Flag{
			Name:  "window-size",
			Value: strconv.Itoa(c.WindowWidth) + "," + strconv.Itoa(c.WindowHeight),
		})
	}
	return append(flags, c.ExtraFlags...)
}
