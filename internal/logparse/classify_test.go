package logparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		fileName string
		want     Record
	}{
		{
			name:     "module format",
			line:     "Jan  5 10:00:01 myhost myapp[123]: ERROR: cfg.c:42 in load: failed to read",
			fileName: "x.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "myhost",
				Daemon:    "myapp",
				PID:       123,
				Level:     LevelError,
				Module:    "cfg.c:42",
				Function:  "load",
				Message:   "failed to read",
			},
		},
		{
			name:     "module format with level line and colon",
			line:     "2024-01-05T10:00:01Z host ctl: info:2: main.go:17 in Run: started",
			fileName: "x.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "host",
				Daemon:    "ctl",
				Level:     LevelInfo,
				Module:    "main.go:17",
				Function:  "Run",
				Message:   "started",
			},
		},
		{
			name:     "dash format",
			line:     "2024-01-05T10:00:01.250+02:00 edge proxy[9]: WARNING net - connection reset",
			fileName: "x.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 8, 0, 1, 250000000, time.UTC),
				Hostname:  "edge",
				Daemon:    "proxy",
				PID:       9,
				Level:     LevelWarning,
				Module:    "net",
				Function:  Unknown,
				Message:   "connection reset",
			},
		},
		{
			name:     "bracket format with bare function",
			line:     "Jan  5 10:00:01 host app[9]: [ERROR] [db] : query failed (runQuery)",
			fileName: "x.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "host",
				Daemon:    "app",
				PID:       9,
				Level:     LevelError,
				Module:    "db",
				Function:  "runQuery",
				Message:   "query failed",
			},
		},
		{
			name:     "bracket format with located function",
			line:     "Jan  5 10:00:01 host app: [WARNING] : retry scheduled [in src/jobs/retry.go:88 (Schedule)]",
			fileName: "x.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "host",
				Daemon:    "app",
				Level:     LevelWarning,
				Module:    Unknown,
				Function:  "Schedule",
				Message:   "retry scheduled",
			},
		},
		{
			name:     "bracket format with unknown daemon",
			line:     "Jan  5 10:00:01 host unknown: [INFO] : started",
			fileName: "bundle.20240115.scheduler.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "host",
				Daemon:    "scheduler",
				Level:     LevelInfo,
				Module:    Unknown,
				Function:  Unknown,
				Message:   "started",
			},
		},
		{
			name:     "simple format",
			line:     "Jan  5 10:00:01 host kernel: something odd happened",
			fileName: "x.log",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "host",
				Daemon:    "kernel",
				Level:     LevelUnknown,
				Module:    Unknown,
				Function:  Unknown,
				Message:   "something odd happened",
			},
		},
		{
			name:     "simple format with epoch stamp",
			line:     "1700000000000 host app: hello",
			fileName: "x.log",
			want: Record{
				Timestamp: time.UnixMilli(1700000000000).UTC(),
				Hostname:  "host",
				Daemon:    "app",
				Level:     LevelUnknown,
				Module:    Unknown,
				Function:  Unknown,
				Message:   "hello",
			},
		},
		{
			name:     "syslog file",
			line:     "Jan  5 10:00:01 gw01 dhcpd[12]: Warning: lease table nearly full",
			fileName: "router.20240115.dhcpd.syslog",
			want: Record{
				Timestamp: time.Date(2024, 1, 5, 10, 0, 1, 0, time.UTC),
				Hostname:  "gw01",
				Daemon:    "dhcpd",
				Level:     LevelWarning,
				Module:    Unknown,
				Function:  Unknown,
				Message:   "dhcpd[12]: Warning: lease table nearly full",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAt(tt.line, 7, tt.fileName, fixedNow)
			require.True(t, ok, "ParseAt(%q) returned no record", tt.line)
			tt.want.ID = 7
			tt.want.Source = tt.fileName
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCascadePriority(t *testing.T) {
	// The IPv6 host lets the bracket format read "::" as an empty daemon
	// followed by its separator, so both formats accept this line.
	line := "2024-01-05 10:00:01 ::1 myapp[7]: ERROR: cfg.c:42 in load: failed to read"

	_, ok := matchBracketFormat(line, 1, "x.log", fixedNow)
	require.True(t, ok, "bracket format should also accept the line")

	got, ok := ParseAt(line, 1, "x.log", fixedNow)
	require.True(t, ok)
	assert.Equal(t, "::1", got.Hostname)
	assert.Equal(t, "myapp", got.Daemon)
	assert.Equal(t, "cfg.c:42", got.Module)
	assert.Equal(t, "load", got.Function)
	assert.Equal(t, "failed to read", got.Message)
}

func TestParseModuleFormatNeedsLevelColon(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		daemon  string
		pid     int
		message string
	}{
		{
			name:    "level without colon",
			line:    "Jan  5 10:00:01 myhost myapp[123]: ERROR cfg.c:42 in load: failed to read",
			daemon:  "myapp",
			pid:     123,
			message: "ERROR cfg.c:42 in load: failed to read",
		},
		{
			name:    "host port in message",
			line:    "Jan  5 10:00:01 host nginx: upstream backend:8080 in pool: timed out",
			daemon:  "nginx",
			message: "upstream backend:8080 in pool: timed out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := matchModuleFormat(tt.line, 1, "x.log", fixedNow)
			assert.False(t, ok)

			got, ok := ParseAt(tt.line, 1, "x.log", fixedNow)
			require.True(t, ok)
			assert.Equal(t, tt.daemon, got.Daemon)
			assert.Equal(t, tt.pid, got.PID)
			assert.Equal(t, LevelUnknown, got.Level)
			assert.Equal(t, Unknown, got.Module)
			assert.Equal(t, Unknown, got.Function)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestParseSyslogFileOnlyForSyslogNames(t *testing.T) {
	line := "Jan  5 10:00:01 gw01 dhcpd[12]: lease renewed"

	_, ok := matchSyslogFile(line, 1, "gw01.log", fixedNow)
	assert.False(t, ok)

	got, ok := ParseAt(line, 1, "gw01.log", fixedNow)
	require.True(t, ok)
	assert.Equal(t, 12, got.PID)
	assert.Equal(t, "lease renewed", got.Message)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"tabs", "\t \t"},
		{"single token", "garbage"},
		{"bad timestamp", "notatime host app: msg"},
		{"no daemon separator", "Jan  5 10:00:01 host just some words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseAt(tt.line, 5, "x.log", fixedNow)
			assert.False(t, ok)
		})
	}
}

func TestParseIsPure(t *testing.T) {
	line := "Jan  5 10:00:01 host app[9]: [ERROR] [db] : query failed (runQuery)"
	first, ok1 := ParseAt(line, 3, "x.log", fixedNow)
	second, ok2 := ParseAt(line, 3, "x.log", fixedNow)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestParseUsesWallClockYear(t *testing.T) {
	got, ok := Parse("Jan  5 10:00:01 host app: hi", 1, "x.log")
	require.True(t, ok)
	assert.Equal(t, time.Now().UTC().Year(), got.Timestamp.Year())
}
