package logparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	syslogStampRe = regexp.MustCompile(`^[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}(?:\.\d+)?$`)
	digitsRe      = regexp.MustCompile(`^\d+$`)
	isoSepRe      = regexp.MustCompile(`\dT\d`)
	zoneSuffixRe  = regexp.MustCompile(`\d{2}:\d{2}(?::\d{2})?(?:[.,]\d+)?\s*(?:[Zz]|[+-]\d{2}(?::?\d{2})?|UTC|GMT)$`)
)

// Layouts tried once a zone has been appended to a zone-less timestamp.
var assumedUTCLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006/01/02 15:04:05 MST",
	"2006-01-02 15:04 MST",
	"2006-01-02 MST",
	"Mon Jan _2 15:04:05 2006 MST",
	"02 Jan 2006 15:04:05 MST",
	"Jan _2 2006 15:04:05 MST",
	"Jan _2 15:04:05 2006 MST",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// Layouts for timestamps that already carry a zone or offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999 Z07:00",
	"2006-01-02 15:04:05.999999999 Z0700",
	"2006-01-02 15:04:05 MST",
	"2006/01/02 15:04:05 Z0700",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.UnixDate,
	"02/Jan/2006:15:04:05 -0700",
}

// Layouts for the last-resort parse in the local zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"Jan _2 2006",
	"Jan _2 15:04:05 2006",
	time.ANSIC,
}

// Normalize converts a raw timestamp to a UTC instant using the current year
// for year-less syslog stamps.
func Normalize(raw string) (time.Time, bool) {
	return NormalizeAt(raw, time.Now())
}

// NormalizeAt converts a raw timestamp to a UTC instant. Year-less syslog
// stamps take their year from now. Timestamps without a zone are read as UTC.
// The second return value is false when no interpretation yields an instant.
func NormalizeAt(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if syslogStampRe.MatchString(raw) {
		stamp := strings.Join(strings.Fields(raw), " ") + " " + strconv.Itoa(now.UTC().Year())
		if t, err := time.Parse("Jan 2 15:04:05 2006", stamp); err == nil {
			return t.UTC(), true
		}
	}

	if digitsRe.MatchString(raw) {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}

	if !zoneSuffixRe.MatchString(raw) {
		assumed := raw + " UTC"
		if isoSepRe.MatchString(raw) {
			assumed = raw + "Z"
		}
		if t, ok := parseLayouts(assumed, assumedUTCLayouts, time.UTC); ok {
			return t, true
		}
		return parseLayouts(raw, localLayouts, time.Local)
	}

	return parseLayouts(raw, zonedLayouts, time.UTC)
}

func parseLayouts(value string, layouts []string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
