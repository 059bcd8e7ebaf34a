package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultTimezone, cfg.Timezone)
	assert.Equal(t, time.UTC, cfg.Location)

	wantLogFile, err := expandPath(defaultLogFile)
	require.NoError(t, err)
	assert.Equal(t, wantLogFile, cfg.LogFile)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, defaultMaxLineBytes, cfg.MaxLineBytes)
	assert.Equal(t, defaultWorkers, cfg.Workers)
	assert.Equal(t, defaultSearchLimit, cfg.SearchLimit)
	assert.True(t, cfg.Watch)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "logsift")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("workers = 9\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
timezone = "  America/New_York  "
log_file = "  ~/logs/logsift.log  "
log_level = " DEBUG "
max_line_bytes = 4096
workers = 2
watch = false
search_limit = 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "America/New_York", cfg.Location.String())
	assert.True(t, strings.HasPrefix(cfg.LogFile, home), "LogFile %q not under HOME %q", cfg.LogFile, home)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4096, cfg.MaxLineBytes)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 50, cfg.SearchLimit)
	assert.False(t, cfg.Watch)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
timezone = "Mars/Olympus_Mons"
log_level = "loud"
workers = -3
log_file = "   "
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultTimezone, cfg.Timezone)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, defaultWorkers, cfg.Workers)
	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "Mars/Olympus_Mons")
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `timezone = [`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a/b"), got)
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	_, err := expandPath("   ")
	assert.Error(t, err)
}
