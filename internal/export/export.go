package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/five82/logsift/internal/logparse"
)

// TimeLayout renders timestamps in exports: RFC 3339 with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Format selects an export encoding.
type Format string

const (
	CSV  Format = "csv"
	Text Format = "txt"
)

// Header is the CSV header row.
var Header = []string{"id", "timestamp", "hostname", "daemon", "pid", "level", "module", "function", "message"}

// ParseFormat accepts "csv", "txt" or "text", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".txt") || strings.HasSuffix(strings.ToLower(path), ".log") {
		return Text
	}
	return CSV
}

// Write encodes records in the given format. A nil loc renders UTC.
func Write(w io.Writer, format Format, records []logparse.Record, loc *time.Location) error {
	switch format {
	case CSV:
		return WriteCSV(w, records, loc)
	case Text:
		return WriteText(w, records, loc)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile writes records to path, creating parent directories. An empty
// format is chosen from the file extension.
func WriteFile(path string, format Format, records []logparse.Record, loc *time.Location) (err error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return Write(f, format, records, loc)
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []logparse.Record, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(Header))
	for _, r := range records {
		row[0] = strconv.FormatInt(r.ID, 10)
		row[1] = formatTime(r.Timestamp, loc)
		row[2] = r.Hostname
		row[3] = r.Daemon
		row[4] = strconv.Itoa(r.PID)
		row[5] = string(r.Level)
		row[6] = r.Module
		row[7] = r.Function
		row[8] = r.Message
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteText writes one syslog-style line per record.
func WriteText(w io.Writer, records []logparse.Record, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(Line(r, loc)); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush text: %w", err)
	}
	return nil
}

// Line renders rec as "timestamp host daemon[pid]: LEVEL module function: message".
// The pid is omitted when zero.
func Line(r logparse.Record, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(formatTime(r.Timestamp, loc))
	b.WriteByte(' ')
	b.WriteString(r.Hostname)
	b.WriteByte(' ')
	b.WriteString(r.Daemon)
	if r.PID != 0 {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(r.PID))
		b.WriteByte(']')
	}
	b.WriteString(": ")
	b.WriteString(string(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Module)
	b.WriteByte(' ')
	b.WriteString(r.Function)
	b.WriteString(": ")
	b.WriteString(r.Message)
	return b.String()
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}
