package logparse

import (
	"regexp"
	"strings"
)

var (
	dateSegmentRe = regexp.MustCompile(`^(?:\d{6,8}|\d{4}-\d{2}-\d{2})$`)

	// Trailing "(name)" or "[in path:line (name)]" annotation on a message.
	functionSuffixRe = regexp.MustCompile(`\s*(?:\[in\s+[^\s\]]+:\d+\s+\((?P<bracketed>[^()\s]+)\)\]|\((?P<bare>[A-Za-z_][\w.:~<>-]*)\))\s*$`)
)

// DaemonFromFileName derives a daemon name from bundle-style file names such
// as "system.20240115.kernel.log": the segment after the first date-shaped
// segment. It returns "" when the name carries no date anchor.
func DaemonFromFileName(fileName string) string {
	segments := strings.Split(baseName(fileName), ".")
	for i, seg := range segments {
		if !dateSegmentRe.MatchString(seg) {
			continue
		}
		if i+1 < len(segments) {
			return segments[i+1]
		}
		return ""
	}
	return ""
}

// ExtractFunction strips a trailing function annotation from message and
// returns the remaining text together with the function name. Messages
// without an annotation come back unchanged with Unknown.
func ExtractFunction(message string) (string, string) {
	m := functionSuffixRe.FindStringSubmatchIndex(message)
	if m == nil {
		return message, Unknown
	}
	name := ""
	for _, group := range []string{"bracketed", "bare"} {
		idx := functionSuffixRe.SubexpIndex(group)
		if m[2*idx] >= 0 {
			name = message[m[2*idx]:m[2*idx+1]]
			break
		}
	}
	if name == "" {
		return message, Unknown
	}
	return strings.TrimSpace(message[:m[0]]), name
}

// ScanLevel guesses a level from free text by looking for level keywords in
// a fixed priority order.
func ScanLevel(message string) Level {
	upper := strings.ToUpper(message)
	switch {
	case strings.Contains(upper, "CRITICAL"):
		return LevelCritical
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "ERR"):
		return LevelError
	case strings.Contains(upper, "WARNING"), strings.Contains(upper, "WARN"):
		return LevelWarning
	case strings.Contains(upper, "NOTICE"):
		return LevelNotice
	case strings.Contains(upper, "INFO"):
		return LevelInfo
	case strings.Contains(upper, "DEBUG"):
		return LevelDebug
	case strings.Contains(upper, "VERBOSE"):
		return LevelVerbose
	default:
		return LevelUnknown
	}
}

func baseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
