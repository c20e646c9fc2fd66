package browser

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// Resolver returns the path of a browser binary compatible with the drivers.
type Resolver func(bin string) (string, error)

// ResolveBrowser returns bin when set, otherwise a locally installed
// Chrome/Chromium, otherwise a revision downloaded into rod's cache.
func ResolveBrowser(bin string) (string, error) {
	if bin != "" {
		return bin, nil
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("download browser: %w", err)
	}
	return path, nil
}
