package logparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Shared prefix pieces. A timestamp is a syslog stamp, an ISO-8601 stamp with
// a space or T separator, or any single token.
const (
	timestampPart = `^(?P<timestamp>[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}(?:\.\d+)?` +
		`|\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}(?::?\d{2})?)?` +
		`|\S+)`
	hostPart   = `\s+(?P<hostname>\S+)`
	daemonPart = `\s+(?P<daemon>[^\s\[:]+)(?:\[(?P<pid>\d+)\])?:`
	// Daemon may be empty in the generic and fallback formats.
	looseDaemonPart = `\s+(?P<daemon>[^\s\[:]*)(?:\[(?P<pid>\d+)\])?:`
)

var (
	syslogFileRe = regexp.MustCompile(timestampPart + hostPart + `\s+(?P<message>.*)$`)

	// host app[12]: ERROR: cfg.c:42 in load: message
	moduleFormatRe = regexp.MustCompile(timestampPart + hostPart + daemonPart +
		`\s+(?P<level>[A-Za-z]+)(?::\d+)?:\s+(?P<module>[^\s:]+:\d+)\s+in\s+(?P<function>[^\s:]+):\s*(?P<message>.*)$`)

	// host app[12]: ERROR net - message
	dashFormatRe = regexp.MustCompile(timestampPart + hostPart + daemonPart +
		`\s+(?P<level>[A-Z]+)\s+(?P<module>\S+)\s+-\s+(?P<message>.*)$`)

	// host app[12]: [ERROR] [net] : message
	bracketFormatRe = regexp.MustCompile(timestampPart + hostPart + looseDaemonPart +
		`\s*(?:\[(?P<level>[^\]]*)\]\s*)?(?:\[(?P<module>[^\]]*)\]\s*)?:\s*(?P<message>.*)$`)

	// host app[12]: message
	simpleFormatRe = regexp.MustCompile(timestampPart + hostPart + looseDaemonPart + `\s*(?P<message>.*)$`)
)

// captures exposes the named groups of a single regexp match.
type captures struct {
	re *regexp.Regexp
	m  []string
}

func find(re *regexp.Regexp, line string) (captures, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return captures{}, false
	}
	return captures{re: re, m: m}, true
}

func (c captures) get(name string) string {
	if i := c.re.SubexpIndex(name); i > 0 && i < len(c.m) {
		return c.m[i]
	}
	return ""
}

// header fills the fields shared by every format. It reports false when the
// captured timestamp does not normalize.
func (c captures) header(id int64, fileName string, now time.Time) (Record, bool) {
	ts, ok := NormalizeAt(c.get("timestamp"), now)
	if !ok {
		return Record{}, false
	}
	pid, _ := strconv.Atoi(c.get("pid"))
	return Record{
		ID:        id,
		Timestamp: ts,
		Hostname:  c.get("hostname"),
		Daemon:    c.get("daemon"),
		PID:       pid,
		Level:     LevelUnknown,
		Module:    Unknown,
		Function:  Unknown,
		Message:   strings.TrimSpace(c.get("message")),
		Source:    fileName,
	}, true
}

// matcher tries one line format.
type matcher struct {
	name  string
	match func(line string, id int64, fileName string, now time.Time) (Record, bool)
}

// cascade lists the formats in priority order; the first match wins.
var cascade = []matcher{
	{name: "syslog-file", match: matchSyslogFile},
	{name: "module", match: matchModuleFormat},
	{name: "dash", match: matchDashFormat},
	{name: "bracket", match: matchBracketFormat},
	{name: "simple", match: matchSimpleFormat},
}

// Parse classifies one line read from fileName. It reports false for blank
// lines and for lines no format accepts.
func Parse(line string, id int64, fileName string) (Record, bool) {
	return ParseAt(line, id, fileName, time.Now())
}

// ParseAt is Parse with an explicit clock for year-less timestamps.
func ParseAt(line string, id int64, fileName string, now time.Time) (Record, bool) {
	if strings.TrimSpace(line) == "" {
		return Record{}, false
	}
	for _, m := range cascade {
		if rec, ok := m.match(line, id, fileName, now); ok {
			return rec, true
		}
	}
	return Record{}, false
}

func matchSyslogFile(line string, id int64, fileName string, now time.Time) (Record, bool) {
	if !strings.Contains(fileName, ".syslog") {
		return Record{}, false
	}
	c, ok := find(syslogFileRe, line)
	if !ok {
		return Record{}, false
	}
	rec, ok := c.header(id, fileName, now)
	if !ok {
		return Record{}, false
	}
	rec.Daemon = DaemonFromFileName(fileName)
	rec.Level = ScanLevel(rec.Message)
	return rec, true
}

func matchModuleFormat(line string, id int64, fileName string, now time.Time) (Record, bool) {
	c, ok := find(moduleFormatRe, line)
	if !ok {
		return Record{}, false
	}
	rec, ok := c.header(id, fileName, now)
	if !ok {
		return Record{}, false
	}
	rec.Level = ParseLevel(c.get("level"))
	rec.Module = c.get("module")
	rec.Function = c.get("function")
	return rec, true
}

func matchDashFormat(line string, id int64, fileName string, now time.Time) (Record, bool) {
	c, ok := find(dashFormatRe, line)
	if !ok {
		return Record{}, false
	}
	rec, ok := c.header(id, fileName, now)
	if !ok {
		return Record{}, false
	}
	rec.Level = ParseLevel(c.get("level"))
	rec.Module = c.get("module")
	return rec, true
}

func matchBracketFormat(line string, id int64, fileName string, now time.Time) (Record, bool) {
	c, ok := find(bracketFormatRe, line)
	if !ok {
		return Record{}, false
	}
	rec, ok := c.header(id, fileName, now)
	if !ok {
		return Record{}, false
	}
	if lvl := c.get("level"); lvl != "" {
		rec.Level = ParseLevel(lvl)
	}
	if mod := strings.TrimSpace(c.get("module")); mod != "" {
		rec.Module = mod
	}
	rec.Message, rec.Function = ExtractFunction(rec.Message)
	rec.Daemon = daemonOrFileName(rec.Daemon, fileName)
	return rec, true
}

func matchSimpleFormat(line string, id int64, fileName string, now time.Time) (Record, bool) {
	c, ok := find(simpleFormatRe, line)
	if !ok {
		return Record{}, false
	}
	rec, ok := c.header(id, fileName, now)
	if !ok {
		return Record{}, false
	}
	rec.Daemon = daemonOrFileName(rec.Daemon, fileName)
	return rec, true
}

func daemonOrFileName(daemon, fileName string) string {
	if daemon == "" || strings.EqualFold(daemon, Unknown) {
		return DaemonFromFileName(fileName)
	}
	return daemon
}
