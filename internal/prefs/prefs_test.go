package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logsift/internal/filter"
)

func writePrefs(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultTheme, p.Theme)
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePrefs(t, filepath.Join(home, ".config", "logsift", "prefs.toml"), "theme = \"Slate\"\n")

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestLoad_ExplicitPath(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "custom.toml")
	writePrefs(t, prefsFile, "theme = \"Slate\"\n")

	p, err := Load(prefsFile)
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	require.NoError(t, Save(prefsFile, Prefs{Theme: "Slate"}))

	loaded, err := Load(prefsFile)
	require.NoError(t, err)
	assert.Equal(t, "Slate", loaded.Theme)
}

func TestLoad_FallsBackToDefaultTheme(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty theme", "theme = \"\"\n"},
		{"invalid toml", "not valid toml {{{\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			writePrefs(t, prefsFile, tt.body)

			p, err := Load(prefsFile)
			require.NoError(t, err)
			assert.Equal(t, defaultTheme, p.Theme)
		})
	}
}

func TestSave_RoundTripsTabs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	since := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	c := filter.Criteria{Levels: []string{"ERROR"}, Keywords: []string{"disk && !usb"}, Since: since}
	p := Prefs{Theme: "Slate", Tabs: []Tab{TabFromCriteria("errors", c)}}
	require.NoError(t, Save(prefsFile, p))

	loaded, err := Load(prefsFile)
	require.NoError(t, err)
	require.Len(t, loaded.Tabs, 1)

	tab := loaded.Tabs[0]
	assert.Equal(t, "errors", tab.Name)
	got := tab.Criteria()
	assert.Equal(t, []string{"ERROR"}, got.Levels)
	assert.Equal(t, []string{"disk && !usb"}, got.Keywords)
	assert.True(t, got.Since.Equal(since), "Since = %v, want %v", got.Since, since)
	assert.True(t, got.Until.IsZero())
}

func TestTab_CriteriaIgnoresBadTimes(t *testing.T) {
	c := Tab{Name: "x", Since: "yesterday"}.Criteria()
	assert.True(t, c.Since.IsZero())
}
