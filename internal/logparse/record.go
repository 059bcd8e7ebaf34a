package logparse

import (
	"cmp"
	"strings"
	"time"
)

// Level is the severity of a parsed line.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelNotice   Level = "NOTICE"
	LevelVerbose  Level = "VERBOSE"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
	LevelUnknown  Level = "UNKNOWN"
)

// Levels lists every level from least to most severe, followed by UNKNOWN.
var Levels = []Level{
	LevelVerbose,
	LevelDebug,
	LevelInfo,
	LevelNotice,
	LevelWarning,
	LevelError,
	LevelCritical,
	LevelUnknown,
}

// Unknown is the placeholder for module and function names that could not be
// determined.
const Unknown = "unknown"

// ParseLevel maps a level token to a Level, case-insensitively. Anything that
// is not one of the known names yields LevelUnknown.
func ParseLevel(s string) Level {
	switch lvl := Level(strings.ToUpper(strings.TrimSpace(s))); lvl {
	case LevelDebug, LevelInfo, LevelNotice, LevelVerbose, LevelWarning, LevelError, LevelCritical:
		return lvl
	default:
		return LevelUnknown
	}
}

// Record is one parsed log line. Records are immutable once built.
type Record struct {
	ID        int64
	Timestamp time.Time
	Hostname  string
	Daemon    string
	PID       int
	Level     Level
	Module    string
	Function  string
	Message   string
	// Source is the display name of the file the line came from.
	Source string
}

// Compare orders records by timestamp, breaking ties by ID.
func Compare(a, b Record) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
