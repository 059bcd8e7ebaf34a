package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsift/internal/filter"
)

// updateStatsViewport re-renders the active tab's statistics into the
// viewport.
func (m *Model) updateStatsViewport() {
	if !m.ready {
		return
	}
	m.statsViewport.Width = max(m.width-2, 0)
	m.statsViewport.Height = m.listHeight()
	m.statsViewport.SetContent(m.buildStatsContent())
}

// renderStats renders the statistics view for the active tab.
func (m Model) renderStats() string {
	t := m.activeTab()
	title := "Stats: " + t.name
	return m.renderTitledBox(title, m.statsViewport.View(), m.width, m.height-4, true)
}

// buildStatsContent builds the statistics text: level counts, a timeline
// histogram, the busiest daemons, hosts and modules, and per-file load
// results.
func (m Model) buildStatsContent() string {
	styles := m.theme.Styles()
	t := m.activeTab()
	loc := m.location()
	sum := filter.Summarize(t.records, statsBuckets)

	var b strings.Builder
	section := func(name string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.AccentText.Bold(true).Render(name))
		b.WriteString("\n")
	}

	section("Summary")
	fmt.Fprintf(&b, "%s %s\n",
		styles.MutedText.Render(padRight("Records", 10)),
		styles.Text.Render(fmt.Sprintf("%d of %d", sum.Total, len(m.snapshot.Records))))
	if sum.Total > 0 {
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render(padRight("First", 10)),
			styles.Text.Render(sum.First.In(loc).Format(timeLayout)))
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render(padRight("Last", 10)),
			styles.Text.Render(sum.Last.In(loc).Format(timeLayout)))
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render(padRight("Span", 10)),
			styles.Text.Render(formatSpan(sum.Last.Sub(sum.First))))
	}

	section("Levels")
	peak := 0
	for _, c := range sum.Levels {
		peak = max(peak, c.Count)
	}
	for _, c := range sum.Levels {
		style := styles.LevelText(c.Value)
		fmt.Fprintf(&b, "%s %s %s\n",
			style.Render(padRight(c.Value, 10)),
			styles.Text.Render(fmt.Sprintf("%7d", c.Count)),
			style.Render(bar(c.Count, peak, statsBarWidth)))
	}

	if len(sum.Histogram) > 0 {
		section("Timeline")
		peak = 0
		for _, bucket := range sum.Histogram {
			peak = max(peak, bucket.Count)
		}
		for _, bucket := range sum.Histogram {
			fmt.Fprintf(&b, "%s %s %s\n",
				styles.MutedText.Render(bucket.Start.In(loc).Format("01-02 15:04:05")),
				styles.Text.Render(fmt.Sprintf("%7d", bucket.Count)),
				styles.InfoText.Render(bar(bucket.Count, peak, statsBarWidth)))
		}
	}

	facets := filter.Facets(t.records)
	for _, group := range []struct {
		name   string
		counts []filter.Count
	}{
		{"Top daemons", facets.Daemons},
		{"Top hosts", facets.Hosts},
		{"Top modules", facets.Modules},
	} {
		if len(group.counts) == 0 {
			continue
		}
		section(group.name)
		for _, c := range group.counts[:min(len(group.counts), statsTop)] {
			fmt.Fprintf(&b, "%s %s\n",
				styles.Text.Render(fmt.Sprintf("%7d", c.Count)),
				styles.MutedText.Render(truncate(c.Value, max(m.width-14, 10))))
		}
	}

	if len(m.snapshot.Files) > 0 {
		section("Files")
		for _, f := range m.snapshot.Files {
			line := fmt.Sprintf("%s  %d lines, %d parsed, %d dropped",
				truncateMiddle(f.Name, 40), f.Lines, f.Parsed, f.Dropped)
			if f.Err != nil {
				b.WriteString(styles.DangerText.Render(line + "  " + f.Err.Error()))
			} else {
				b.WriteString(styles.Text.Render(line))
			}
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.TrimSuffix(b.String(), "\n"))
}

// bar renders n relative to peak as a row of block characters.
func bar(n, peak, width int) string {
	if n <= 0 || peak <= 0 || width <= 0 {
		return ""
	}
	cells := max(n*width/peak, 1)
	return strings.Repeat("█", cells)
}

// formatSpan renders a duration compactly, e.g. "2d 3h", "4h 12m" or "35s".
func formatSpan(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd %dh", int(d.Hours())/24, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
