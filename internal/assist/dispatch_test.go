package assist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"

	"github.com/five82/logsift/internal/logparse"
	"github.com/five82/logsift/internal/state"
)

type fixedSource []logparse.Record

func (f fixedSource) Snapshot() state.Snapshot {
	return state.Snapshot{Records: f}
}

var t0 = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

func newTestDispatcher() *Dispatcher {
	recs := fixedSource{
		{ID: 1, Timestamp: t0, Hostname: "web1", Daemon: "nginx", Level: logparse.LevelInfo, Module: "http", Function: logparse.Unknown, Message: "GET /health 200", Source: "web1.log"},
		{ID: 2, Timestamp: t0.Add(time.Minute), Hostname: "web1", Daemon: "nginx", Level: logparse.LevelError, Module: "upstream", Function: logparse.Unknown, Message: "upstream timeout", Source: "web1.log"},
		{ID: 3, Timestamp: t0.Add(2 * time.Minute), Hostname: "db1", Daemon: "postgres", PID: 42, Level: logparse.LevelError, Module: "wal", Function: "flush", Message: "disk full", Source: "db1.log"},
	}
	return NewDispatcher(recs, Options{Limit: 2})
}

func call(t *testing.T, d *Dispatcher, name, args string) *fastjson.Value {
	t.Helper()
	out, err := d.Call(context.Background(), name, []byte(args))
	require.NoError(t, err, string(out))
	v, err := fastjson.ParseBytes(out)
	require.NoError(t, err)
	return v
}

func recordIDs(v *fastjson.Value) []int {
	var ids []int
	for _, r := range v.GetArray("records") {
		ids = append(ids, r.GetInt("id"))
	}
	return ids
}

func TestFilterLogs(t *testing.T) {
	d := newTestDispatcher()

	v := call(t, d, ToolFilterLogs, `{"levels":["error"]}`)
	assert.Equal(t, 2, v.GetInt("total"))
	assert.Equal(t, []int{2, 3}, recordIDs(v))
	assert.False(t, v.Exists("truncated"))

	v = call(t, d, ToolFilterLogs, `{}`)
	assert.Equal(t, 3, v.GetInt("total"))
	assert.Equal(t, 2, v.GetInt("returned"))
	assert.True(t, v.GetBool("truncated"))

	v = call(t, d, ToolFilterLogs, `{"hosts":"db1","limit":10}`)
	assert.Equal(t, []int{3}, recordIDs(v))
	rec := v.GetArray("records")[0]
	assert.Equal(t, "postgres", string(rec.GetStringBytes("daemon")))
	assert.Equal(t, 42, rec.GetInt("pid"))
	assert.Equal(t, "2024-01-05T10:02:00Z", string(rec.GetStringBytes("timestamp")))

	v = call(t, d, ToolFilterLogs, `{"since":"2024-01-05T10:01:00Z","keywords":["timeout || disk"]}`)
	assert.Equal(t, []int{2, 3}, recordIDs(v))
}

func TestSearchLogs(t *testing.T) {
	d := newTestDispatcher()
	v := call(t, d, ToolSearchLogs, `{"query":"disk || health"}`)
	assert.Equal(t, []int{1, 3}, recordIDs(v))
	kws := v.GetArray("keywords")
	require.Len(t, kws, 2)
	assert.Equal(t, "disk", string(kws[0].GetStringBytes()))
}

func TestGetRecord(t *testing.T) {
	d := newTestDispatcher()
	v := call(t, d, ToolGetRecord, `{"id":3}`)
	assert.Equal(t, "disk full", string(v.GetStringBytes("record", "message")))
	assert.Equal(t, "flush", string(v.GetStringBytes("record", "function")))
}

func TestLogStats(t *testing.T) {
	d := newTestDispatcher()
	v := call(t, d, ToolLogStats, `{"buckets":2}`)
	assert.Equal(t, 3, v.GetInt("total"))
	assert.Equal(t, 2, v.GetInt("levels", "ERROR"))
	assert.Equal(t, 1, v.GetInt("levels", "INFO"))
	assert.False(t, v.Exists("levels", "DEBUG"))
	assert.Len(t, v.GetArray("histogram"), 2)
	assert.Equal(t, "2024-01-05T10:00:00Z", string(v.GetStringBytes("first")))
	top := v.GetArray("top_daemons")
	require.Len(t, top, 2)
	assert.Equal(t, "nginx", string(top[0].GetStringBytes("value")))
	assert.Equal(t, 2, top[0].GetInt("count"))
}

func TestCallErrors(t *testing.T) {
	d := newTestDispatcher()
	tests := []struct {
		name string
		tool string
		args string
	}{
		{"unknown tool", "drop_tables", `{}`},
		{"invalid json", ToolFilterLogs, `{"levels":`},
		{"not an object", ToolFilterLogs, `[1,2]`},
		{"wrong list type", ToolFilterLogs, `{"levels":5}`},
		{"bad list item", ToolFilterLogs, `{"levels":[5]}`},
		{"bad timestamp", ToolFilterLogs, `{"since":"yesterday-ish"}`},
		{"bad limit", ToolFilterLogs, `{"limit":0}`},
		{"limit too large", ToolSearchLogs, `{"query":"disk","limit":2000000000}`},
		{"buckets too large", ToolLogStats, `{"buckets":2000000000}`},
		{"top too large", ToolLogStats, `{"top":101}`},
		{"missing query", ToolSearchLogs, `{}`},
		{"missing id", ToolGetRecord, `{}`},
		{"unknown id", ToolGetRecord, `{"id":99}`},
		{"non-numeric id", ToolGetRecord, `{"id":"three"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Call(context.Background(), tt.tool, []byte(tt.args))
			require.Error(t, err)
			v, perr := fastjson.ParseBytes(out)
			require.NoError(t, perr)
			assert.Equal(t, err.Error(), string(v.GetStringBytes("error")))
		})
	}

	_, err := d.Call(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestCallCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestDispatcher().Call(ctx, ToolFilterLogs, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolSchemasAreValidJSON(t *testing.T) {
	seen := map[string]bool{}
	for _, tool := range Tools() {
		v, err := fastjson.Parse(tool.Parameters)
		require.NoError(t, err, tool.Name)
		assert.Equal(t, "object", string(v.GetStringBytes("type")), tool.Name)
		assert.NotEmpty(t, tool.Description)
		seen[tool.Name] = true
	}
	assert.Equal(t, map[string]bool{ToolFilterLogs: true, ToolSearchLogs: true, ToolGetRecord: true, ToolLogStats: true}, seen)
}

func TestToolSchemasDeclareArgumentBounds(t *testing.T) {
	maxima := map[string]int{}
	for _, tool := range Tools() {
		v, err := fastjson.Parse(tool.Parameters)
		require.NoError(t, err, tool.Name)
		for _, key := range []string{"limit", "buckets", "top"} {
			if p := v.Get("properties", key); p != nil {
				maxima[tool.Name+"."+key] = p.GetInt("maximum")
			}
		}
	}
	assert.Equal(t, map[string]int{
		ToolFilterLogs + ".limit":  MaxLimit,
		ToolSearchLogs + ".limit":  MaxLimit,
		ToolLogStats + ".buckets": MaxBuckets,
		ToolLogStats + ".top":     MaxTop,
	}, maxima)
}
