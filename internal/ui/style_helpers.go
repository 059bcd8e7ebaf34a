package ui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle provides helpers for rendering text with consistent background colors.
// This solves lipgloss's limitation where ANSI reset codes between styled segments
// cause gaps in background color. See: https://github.com/charmbracelet/lipgloss/discussions/78
type BgStyle struct {
	bg    lipgloss.Color
	space string // cached styled space
}

// NewBgStyle creates a new background style helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with a style, ensuring ALL characters including spaces
// have the background color applied.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}

	if !strings.Contains(text, " ") {
		return style.Background(b.bg).Render(text)
	}

	// Split on spaces, style each word, rejoin with styled spaces
	wordStyle := style.Background(b.bg)
	words := strings.Split(text, " ")
	result := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			result = append(result, wordStyle.Render(w))
		} else {
			result = append(result, "")
		}
	}
	return strings.Join(result, b.space)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Sep returns a styled separator string.
func (b BgStyle) Sep(sep string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(sep)
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads rendered content to fill the specified width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

// Highlight renders text with style, marking every case-insensitive
// occurrence of terms with match. Overlapping hits are merged.
func (b BgStyle) Highlight(text string, terms []string, style, match lipgloss.Style) string {
	spans := matchSpans(text, terms)
	if len(spans) == 0 {
		return b.Render(text, style)
	}
	var out strings.Builder
	pos := 0
	for _, sp := range spans {
		out.WriteString(b.Render(text[pos:sp[0]], style))
		out.WriteString(match.Render(text[sp[0]:sp[1]]))
		pos = sp[1]
	}
	out.WriteString(b.Render(text[pos:], style))
	return out.String()
}

// matchSpans returns sorted, merged byte ranges of terms within text.
func matchSpans(text string, terms []string) [][2]int {
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// Case folding changed byte offsets; skip highlighting.
		return nil
	}
	var spans [][2]int
	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		for start := 0; ; {
			i := strings.Index(lower[start:], term)
			if i < 0 {
				break
			}
			spans = append(spans, [2]int{start + i, start + i + len(term)})
			start += i + len(term)
		}
	}
	if len(spans) == 0 {
		return nil
	}
	slices.SortFunc(spans, func(a, b [2]int) int { return cmp.Compare(a[0], b[0]) })
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp[0] <= last[1] {
			last[1] = max(last[1], sp[1])
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}
