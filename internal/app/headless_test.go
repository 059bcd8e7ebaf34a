package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/five82/logsift/internal/config"
	"github.com/five82/logsift/internal/export"
	"github.com/five82/logsift/internal/state"
)

func loadedStore(t *testing.T) *state.Store {
	t.Helper()
	path := writeLog(t, t.TempDir(), "app.log",
		"2024-01-05T10:00:01Z myhost myapp[1]: ERROR: cfg.c:42 in load: failed to read",
		"2024-01-05T10:00:02Z myhost myapp[1]: INFO net - connected",
		"2024-01-05T10:00:03Z otherhost kernel: usb disconnect",
	)
	store := &state.Store{}
	require.NoError(t, NewLoader(store, config.Default(), nil).Load(context.Background(), []string{path}))
	return store
}

func TestRunHeadless_Stats(t *testing.T) {
	store := loadedStore(t)
	var out bytes.Buffer
	require.NoError(t, runHeadless(context.Background(), store, Headless{Stats: true}, config.Default(), &out, zap.NewNop()))

	got := out.String()
	for _, want := range []string{"Records: 3 of 3", "ERROR", "Top daemons", "myapp", "app.log: 3 lines, 3 parsed, 0 dropped"} {
		assert.Contains(t, got, want)
	}
}

func TestRunHeadless_StatsClampsBuckets(t *testing.T) {
	store := loadedStore(t)
	var out bytes.Buffer
	h := Headless{Stats: true, Buckets: 2000000000}
	require.NoError(t, runHeadless(context.Background(), store, h, config.Default(), &out, zap.NewNop()))
	assert.Contains(t, out.String(), "Records: 3 of 3")
}

func TestRunHeadless_TextExportToFile(t *testing.T) {
	store := loadedStore(t)
	outPath := filepath.Join(t.TempDir(), "out.txt")
	h := Headless{Output: outPath}
	h.Criteria.Keywords = []string{"usb || connected"}
	require.NoError(t, runHeadless(context.Background(), store, h, config.Default(), &bytes.Buffer{}, zap.NewNop()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "exported:\n%s", data)
}

func TestRunHeadless_ExplicitFormatOnStdout(t *testing.T) {
	store := loadedStore(t)
	var out bytes.Buffer
	require.NoError(t, runHeadless(context.Background(), store, Headless{Format: export.Text}, config.Default(), &out, zap.NewNop()))
	assert.False(t, strings.HasPrefix(out.String(), "id,"), "output = %q, want text lines", out.String())
}

func TestRunHeadless_Tool(t *testing.T) {
	store := loadedStore(t)
	var out bytes.Buffer
	h := Headless{Tool: "search_logs", ToolArgs: `{"query": "usb"}`}
	require.NoError(t, runHeadless(context.Background(), store, h, config.Default(), &out, zap.NewNop()))
	assert.Contains(t, out.String(), `"total":1`)
}

func TestRunHeadless_ToolRejectsOversizeArguments(t *testing.T) {
	store := loadedStore(t)
	var out bytes.Buffer
	h := Headless{Tool: "log_stats", ToolArgs: `{"buckets": 2000000000}`}
	require.Error(t, runHeadless(context.Background(), store, h, config.Default(), &out, zap.NewNop()))
	assert.Contains(t, out.String(), "buckets must be at most")
}

func TestRunHeadless_UnknownToolWritesErrorPayload(t *testing.T) {
	store := loadedStore(t)
	var out bytes.Buffer
	err := runHeadless(context.Background(), store, Headless{Tool: "nope"}, config.Default(), &out, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, out.String(), `"error"`)
}
