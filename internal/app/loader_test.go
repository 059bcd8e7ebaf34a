package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logsift/internal/config"
	"github.com/five82/logsift/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateBackoff(tt.failures, baseInterval))
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		assert.LessOrEqual(t, calculateBackoff(failures, baseInterval), maxBackoff, "failures=%d", failures)
	}
}

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func TestLoader_ReloadKeepsIDsUnique(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log",
		"2024-01-05T10:00:01Z myhost myapp[1]: ERROR: cfg.c:42 in load: failed to read",
		"2024-01-05T10:00:02Z myhost myapp[1]: INFO net - connected",
	)

	store := &state.Store{}
	loader := NewLoader(store, config.Default(), nil)
	require.NoError(t, loader.Load(context.Background(), []string{path}))
	first := store.Snapshot()
	require.Len(t, first.Records, 2)

	writeLog(t, dir, "app.log",
		"2024-01-05T10:00:01Z myhost myapp[1]: ERROR: cfg.c:42 in load: failed to read",
		"2024-01-05T10:00:02Z myhost myapp[1]: INFO net - connected",
		"2024-01-05T10:00:03Z myhost myapp[1]: WARNING net - slow",
	)
	require.NoError(t, loader.Reload(context.Background()))

	second := store.Snapshot()
	require.Len(t, second.Records, 3)
	assert.Len(t, second.Files, 1)
	assert.Greater(t, second.Records[0].ID, first.Records[len(first.Records)-1].ID,
		"reloaded ids should follow previous ids")
}

func TestLoader_RelativeAndAbsolutePathsShareEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log", "2024-01-05T10:00:01Z myhost myapp: hello")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	store := &state.Store{}
	loader := NewLoader(store, config.Default(), nil)
	require.NoError(t, loader.Load(context.Background(), []string{"app.log"}))
	require.NoError(t, loader.Load(context.Background(), []string{path}))
	assert.Len(t, store.Snapshot().Records, 1)
}

func TestLoader_MissingFileRecordedInStore(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.log", "2024-01-05T10:00:01Z myhost myapp: hello")

	store := &state.Store{}
	loader := NewLoader(store, config.Default(), nil)
	err := loader.Load(context.Background(), []string{good, filepath.Join(dir, "missing.log")})
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Len(t, snap.Records, 1)
	assert.Error(t, snap.LastError)
}

func TestLoader_CancelledContextLeavesStore(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log", "2024-01-05T10:00:01Z myhost myapp: hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &state.Store{}
	loader := NewLoader(store, config.Default(), nil)
	require.Error(t, loader.Load(ctx, []string{path}))
	assert.Zero(t, store.Version())
}

func TestRun_RequiresFiles(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), Options{}), ErrNoFiles)
}

func TestRun_HeadlessExportsFilteredCSV(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()
	path := writeLog(t, dir, "app.log",
		"2024-01-05T10:00:01Z myhost myapp[1]: ERROR: cfg.c:42 in load: failed to read",
		"2024-01-05T10:00:02Z myhost myapp[1]: INFO net - connected",
	)

	var stdout, stderr bytes.Buffer
	h := &Headless{}
	h.Criteria.Levels = []string{"error"}
	err := Run(context.Background(), Options{
		ConfigPath: filepath.Join(home, "none.toml"),
		PrefsPath:  filepath.Join(home, "prefs.toml"),
		Paths:      []string{path},
		Headless:   h,
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2, "want header + 1 record:\n%s", stdout.String())
	assert.Contains(t, lines[1], "failed to read")
}
