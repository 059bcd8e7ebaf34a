package ui

import (
	"strings"
	"unicode/utf8"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by removing characters from the middle,
// preserving both the beginning and end. For paths, it preserves file extensions.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}

	ellipsis := []rune("…/")
	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}

	// Smart path truncation: preserve file extension if it looks like a path
	if strings.ContainsAny(value, `/\`) {
		lastDot := strings.LastIndex(value, ".")
		lastSlash := max(strings.LastIndex(value, "/"), strings.LastIndex(value, `\`))
		if lastDot > lastSlash && lastDot > 0 {
			ext := []rune(value[lastDot:])
			if len(ext) < 10 && len(ext) < limit/2 {
				base := []rune(value[:lastDot])
				baseLimit := limit - len(ext) - len(ellipsis)
				if baseLimit > 0 && len(base) > baseLimit {
					prefix := baseLimit / 2
					suffix := baseLimit - prefix
					return string(base[:prefix]) + string(ellipsis) + string(base[len(base)-suffix:]) + string(ext)
				}
			}
		}
	}

	keep := limit - len(ellipsis)
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + string(ellipsis) + string(runes[len(runes)-suffix:])
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if width <= 0 || n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// splitList parses a comma separated input field, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// slug turns a tab name into a file name fragment.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "tab"
	}
	return out
}
