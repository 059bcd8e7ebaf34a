package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, loaded files, record counts and
// load health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("logsift", styles.Logo))

	files := len(m.snapshot.Files)
	failed := 0
	for _, f := range m.snapshot.Files {
		if f.Err != nil {
			failed++
		}
	}
	filesLabel := "Files:"
	if compact {
		filesLabel = "F:"
	}
	parts = append(parts,
		bg.Render(filesLabel, styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", files), styles.Text))

	recordsLabel := "Records:"
	if compact {
		recordsLabel = "R:"
	}
	parts = append(parts,
		bg.Render(recordsLabel, styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Records)), styles.Text))

	if failed > 0 {
		parts = append(parts,
			bg.Render("Unreadable:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", failed), styles.DangerText))
	}

	if m.reloading {
		parts = append(parts, bg.Render("Reloading...", styles.WarningText.Bold(true)))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		label := "ERROR"
		if m.snapshot.HasFailures() {
			label = fmt.Sprintf("ERROR x%d", m.snapshot.ConsecutiveFailures)
		}
		parts = append(parts,
			bg.Render(label, styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last load time with a relative indicator.
func (m Model) formatTimestamp() string {
	loaded := m.snapshot.LastUpdated
	if loaded.IsZero() {
		return ""
	}

	since := time.Since(loaded)
	out := loaded.In(m.location()).Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// renderTabBar renders one label per tab, highlighting the active one.
func (m Model) renderTabBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Bold(true)

	labels := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		label := " " + t.label(i+1) + " "
		if t.records == nil {
			label = fmt.Sprintf(" %d:%s ", i+1, t.name)
		}
		if i == m.active {
			labels = append(labels, activeStyle.Render(label))
			continue
		}
		labels = append(labels, bg.Render(label, styles.MutedText))
	}
	return styles.Header.Width(m.width).Render(bg.Join(labels, bg.Space()))
}

// renderCommandBar renders the command hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewStats:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"s", "Records"},
			{"F", "Filters"},
			{"]/[", "Tabs"},
			{"x", "Export"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"F", "Filters"},
			{":", "Jump"},
			{"t", "New tab"},
			{"]/[", "Tabs"},
			{"s", "Stats"},
			{"x", "Export"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if q := m.activeTab().search.query; q != "" {
		segments = append(segments, bg.Render("/"+truncate(q, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, bg.Spaces(2)))
}

// renderStatusLine renders the prompt while one is open, otherwise the last
// status message or the cursor position and search progress.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.prompt.kind == promptSearch:
		content = bg.Render("/", styles.AccentText) + m.prompt.input.View()
	case m.prompt.kind == promptJump:
		content = bg.Render("#", styles.AccentText) + m.prompt.input.View()
	case m.status.text != "":
		style := styles.InfoText
		if m.status.err {
			style = styles.DangerText
		}
		content = bg.Render(truncate(m.status.text, max(m.width-2, 0)), style)
	default:
		content = m.positionStatus(styles, bg)
	}
	return styles.Header.Width(m.width).Render(content)
}

// positionStatus describes the cursor position and any active search,
// e.g. "42/310  /disk - 3/7 - Press n for next, N for previous".
func (m Model) positionStatus(styles Styles, bg BgStyle) string {
	t := m.activeTab()
	if len(t.records) == 0 {
		return bg.Render("0/0", styles.MutedText)
	}
	parts := []string{bg.Render(fmt.Sprintf("%d/%d", t.cursor+1, len(t.records)), styles.MutedText)}

	if t.search.active() {
		q := truncate(t.search.query, 30)
		if n := len(t.search.matches); n > 0 {
			parts = append(parts, bg.Render(
				fmt.Sprintf("/%s - %d/%d - Press n for next, N for previous", q, t.search.idx+1, n),
				styles.InfoText))
		} else {
			parts = append(parts, bg.Render(fmt.Sprintf("/%s - no matches", q), styles.WarningText))
		}
	}
	if rec, ok := t.selected(); ok && rec.Source != "" {
		parts = append(parts, bg.Render(truncateMiddle(rec.Source, 40), styles.FaintText))
	}
	return strings.Join(parts, bg.Spaces(2))
}
