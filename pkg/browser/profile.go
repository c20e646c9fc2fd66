package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultProfile is the profile sub-directory Chrome opens inside the user data dir.
const DefaultProfile = "Default"

// NewProfileDir creates a unique, empty user data directory under root.
// An empty root means os.TempDir().
func NewProfileDir(root, prefix string) (string, error) {
	dir, err := os.MkdirTemp(root, prefix)
	if err != nil {
		return "", fmt.Errorf("create profile dir: %w", err)
	}
	return dir, nil
}

// SeedProfile writes prefs as <dir>/Default/Preferences so Chrome starts with
// them already applied.
func SeedProfile(dir string, prefs map[string]any) error {
	defaultDir := filepath.Join(dir, DefaultProfile)
	if err := os.MkdirAll(defaultDir, 0o755); err != nil {
		return fmt.Errorf("create default profile: %w", err)
	}
	if prefs == nil {
		prefs = map[string]any{}
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(filepath.Join(defaultDir, "Preferences"), data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// RemoveProfileDir deletes a profile directory. A directory that is already
// gone is not an error.
func RemoveProfileDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove profile dir %s: %w", dir, err)
	}
	return nil
}
