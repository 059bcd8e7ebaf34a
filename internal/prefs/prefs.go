// Package prefs handles logsift user preferences persistence.
// Preferences are stored in ~/.config/logsift/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logsift/internal/filter"
)

// Prefs holds user preferences for logsift.
type Prefs struct {
	Theme string `toml:"theme"`
	Tabs  []Tab  `toml:"tabs,omitempty"`
}

// Tab is a saved set of filter criteria. Times are RFC 3339 strings so empty
// bounds stay out of the file.
type Tab struct {
	Name      string   `toml:"name"`
	Levels    []string `toml:"levels,omitempty"`
	Daemons   []string `toml:"daemons,omitempty"`
	Hosts     []string `toml:"hosts,omitempty"`
	Modules   []string `toml:"modules,omitempty"`
	Functions []string `toml:"functions,omitempty"`
	Sources   []string `toml:"sources,omitempty"`
	Keywords  []string `toml:"keywords,omitempty"`
	Since     string   `toml:"since,omitempty"`
	Until     string   `toml:"until,omitempty"`
}

// Criteria converts the tab to filter criteria. Unparseable bounds are
// ignored.
func (t Tab) Criteria() filter.Criteria {
	return filter.Criteria{
		Levels:    t.Levels,
		Daemons:   t.Daemons,
		Hosts:     t.Hosts,
		Modules:   t.Modules,
		Functions: t.Functions,
		Sources:   t.Sources,
		Keywords:  t.Keywords,
		Since:     parseTime(t.Since),
		Until:     parseTime(t.Until),
	}
}

// TabFromCriteria builds a saved tab from criteria.
func TabFromCriteria(name string, c filter.Criteria) Tab {
	return Tab{
		Name:      name,
		Levels:    c.Levels,
		Daemons:   c.Daemons,
		Hosts:     c.Hosts,
		Modules:   c.Modules,
		Functions: c.Functions,
		Sources:   c.Sources,
		Keywords:  c.Keywords,
		Since:     formatTime(c.Since),
		Until:     formatTime(c.Until),
	}
}

func parseTime(s string) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

const (
	defaultPrefsPath = "~/.config/logsift/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}

	prefs := Prefs{Theme: defaultTheme}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}, nil // Graceful degradation
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

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
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
