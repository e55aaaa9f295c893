// Package prefs persists user preferences for the emby CLI.
// Preferences are stored in ~/.config/emby/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences.
type Prefs struct {
	// WatchInterval is the refresh interval of `playing --watch`, in seconds.
	WatchInterval int `toml:"watch_interval"`
	// Plain disables colors in the now-playing views by default.
	Plain bool `toml:"plain"`
	// Theme names the color theme of the watch footer.
	Theme string `toml:"theme"`
}

const (
	defaultPrefsPath     = "~/.config/emby/prefs.toml"
	defaultWatchInterval = 5
	defaultTheme         = "Nightfox"

	// MinWatchInterval and MaxWatchInterval bound the refresh interval.
	MinWatchInterval = time.Second
	MaxWatchInterval = time.Hour
)

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{WatchInterval: defaultWatchInterval, Theme: defaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Interval returns the watch interval clamped to the supported range.
func (p Prefs) Interval() time.Duration {
	return ClampInterval(time.Duration(p.WatchInterval) * time.Second)
}

// WithInterval returns a copy of p with the watch interval set to d, rounded
// to whole seconds.
func (p Prefs) WithInterval(d time.Duration) Prefs {
	p.WatchInterval = int(ClampInterval(d).Round(time.Second) / time.Second)
	return p
}

// ClampInterval bounds d to [MinWatchInterval, MaxWatchInterval].
func ClampInterval(d time.Duration) time.Duration {
	return min(max(d, MinWatchInterval), MaxWatchInterval)
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	if prefs.WatchInterval <= 0 {
		prefs.WatchInterval = defaultWatchInterval
	}
	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
