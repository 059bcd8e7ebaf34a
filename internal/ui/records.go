package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsift/internal/logparse"
)

const timeLayout = "2006-01-02 15:04:05.000"

// listHeight is the number of record rows that fit in the content box.
func (m Model) listHeight() int {
	return max(m.height-chromeRows, 1)
}

// handleRecordsKey processes keyboard input for the record list.
func (m Model) handleRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.activeTab()
	h := m.listHeight()

	switch {
	case key.Matches(msg, m.keys.Down):
		t.move(1)
	case key.Matches(msg, m.keys.Up):
		t.move(-1)
	case key.Matches(msg, m.keys.Top):
		t.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		t.cursor = len(t.records) - 1
		t.clamp()
	case key.Matches(msg, m.keys.PageDown):
		t.move(h)
	case key.Matches(msg, m.keys.PageUp):
		t.move(-h)
	case key.Matches(msg, m.keys.HalfPageDown):
		t.move(h / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		t.move(-h / 2)
	case key.Matches(msg, m.keys.NextMatch):
		m.nextMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.nextMatch(-1)
	default:
		return m, nil
	}
	t.scrollTo(h)
	return m, nil
}

// renderRecords renders the active tab's record list inside a titled box.
func (m Model) renderRecords() string {
	t := m.activeTab()
	boxHeight := m.height - 4
	inner := m.width - 2

	title := t.name
	if !t.criteria.IsZero() {
		title += " (filtered)"
	}

	if len(t.records) == 0 {
		msg := "No records"
		if len(m.snapshot.Records) > 0 {
			msg = "No records match this tab's filters"
		}
		bg := NewBgStyle(m.theme.FocusBg)
		content := bg.FillLine(bg.Render(msg, m.theme.Styles().MutedText), inner)
		return m.renderTitledBox(title, content, m.width, boxHeight, true)
	}

	h := m.listHeight()
	end := min(t.offset+h, len(t.records))
	terms := t.highlightTerms()

	matchSet := make(map[int]bool, len(t.search.matches))
	for _, idx := range t.search.matches {
		matchSet[idx] = true
	}

	lines := make([]string, 0, end-t.offset)
	for i := t.offset; i < end; i++ {
		lines = append(lines, m.formatRecordRow(t.records[i], inner, i == t.cursor, matchSet[i], terms))
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, boxHeight, true)
}

// formatRecordRow renders one record:
// "#id time host daemon[pid] LEVEL module function: message".
// The selected row uses the selection colors; search hits mark the id.
func (m Model) formatRecordRow(rec logparse.Record, width int, selected, matched bool, terms []string) string {
	styles := m.theme.Styles()
	bgColor := m.theme.FocusBg
	textStyle := styles.Text
	mutedStyle := styles.MutedText
	accentStyle := styles.AccentText
	idStyle := styles.FaintText
	levelStyle := styles.LevelText(string(rec.Level))
	if selected {
		bgColor = m.theme.SelectionBg
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		textStyle, mutedStyle, accentStyle, idStyle = sel, sel, sel.Bold(true), sel
	}
	if matched {
		idStyle = styles.WarningText.Bold(true)
	}
	bg := NewBgStyle(bgColor)

	type segment struct {
		text  string
		style lipgloss.Style
	}
	daemon := rec.Daemon
	if rec.PID != 0 {
		daemon += "[" + strconv.Itoa(rec.PID) + "]"
	}
	segments := []segment{
		{fmt.Sprintf("#%-6d", rec.ID), idStyle},
		{rec.Timestamp.In(m.location()).Format(timeLayout), mutedStyle},
	}
	if width >= LayoutCompactWidth {
		segments = append(segments, segment{rec.Hostname, mutedStyle})
	}
	segments = append(segments,
		segment{daemon, accentStyle},
		segment{padRight(string(rec.Level), 8), levelStyle},
	)
	if width >= LayoutCompactWidth && rec.Module != logparse.Unknown {
		segments = append(segments, segment{rec.Module, mutedStyle})
	}
	if width >= LayoutWideWidth && rec.Function != logparse.Unknown {
		segments = append(segments, segment{rec.Function + ":", mutedStyle})
	}

	var b strings.Builder
	used := 0
	for _, seg := range segments {
		if seg.text == "" {
			continue
		}
		b.WriteString(bg.Render(seg.text, seg.style))
		b.WriteString(bg.Space())
		used += utf8.RuneCountInString(seg.text) + 1
	}

	msg := truncate(strings.ReplaceAll(rec.Message, "\t", " "), width-used)
	b.WriteString(bg.Highlight(msg, terms, textStyle, styles.Match))
	return bg.FillLine(b.String(), width)
}

// renderTitledBox draws a bordered box with the title embedded in the top
// border. Content lines are padded or cut to fill the box.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	bgColor := m.theme.SurfaceAlt
	if focused {
		borderColor = m.theme.BorderFocus
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := utf8.RuneCountInString(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	rows := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + bottomBorder
}
