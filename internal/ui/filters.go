package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/logparse"
)

// Filter modal fields, in display order.
const (
	fieldLevels = iota
	fieldDaemons
	fieldHosts
	fieldModules
	fieldFunctions
	fieldSources
	fieldKeywords
	fieldSince
	fieldUntil
	fieldCount
)

var filterLabels = [fieldCount]string{
	"Levels:    ",
	"Daemons:   ",
	"Hosts:     ",
	"Modules:   ",
	"Functions: ",
	"Sources:   ",
	"Keywords:  ",
	"Since:     ",
	"Until:     ",
}

var filterPlaceholders = [fieldCount]string{
	"e.g. error, warning",
	"e.g. sshd, kernel",
	"e.g. gw01",
	"e.g. cfg.c:42",
	"e.g. load",
	"e.g. app.log",
	"e.g. disk && !usb",
	"e.g. 2024-01-05 10:00:00",
	"e.g. Jan  5 12:00:00",
}

// filterModal edits the active tab's criteria.
type filterModal struct {
	title   string
	inputs  [fieldCount]textinput.Model
	focus   int
	loc     *time.Location
	err     string
	applied bool
	result  filter.Criteria
}

func newFilterModal(title string, c filter.Criteria, loc *time.Location) filterModal {
	if loc == nil {
		loc = time.UTC
	}
	fm := filterModal{title: title, loc: loc}
	values := [fieldCount]string{
		fieldLevels:    strings.Join(c.Levels, ", "),
		fieldDaemons:   strings.Join(c.Daemons, ", "),
		fieldHosts:     strings.Join(c.Hosts, ", "),
		fieldModules:   strings.Join(c.Modules, ", "),
		fieldFunctions: strings.Join(c.Functions, ", "),
		fieldSources:   strings.Join(c.Sources, ", "),
		fieldKeywords:  joinKeywords(c.Keywords),
		fieldSince:     formatBound(c.Since, loc),
		fieldUntil:     formatBound(c.Until, loc),
	}
	for i := range fm.inputs {
		ti := textinput.New()
		ti.Placeholder = filterPlaceholders[i]
		ti.CharLimit = 200
		ti.Width = 36
		ti.SetValue(values[i])
		fm.inputs[i] = ti
	}
	fm.inputs[0].Focus()
	return fm
}

// joinKeywords folds several keyword queries into one equivalent query.
func joinKeywords(keywords []string) string {
	var parts []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	if len(parts) <= 1 {
		return strings.Join(parts, "")
	}
	for i, p := range parts {
		parts[i] = "(" + p + ")"
	}
	return strings.Join(parts, " && ")
}

func formatBound(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

// Update implements Modal.
func (fm filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fm, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Escape):
		return fm, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		c, err := fm.criteria()
		if err != nil {
			fm.err = err.Error()
			return fm, nil, false
		}
		fm.applied = true
		fm.result = c
		return fm, nil, true

	case key.Matches(keyMsg, keys.NextItem):
		fm.setFocus(fm.focus + 1)
		return fm, nil, false

	case key.Matches(keyMsg, keys.PrevItem):
		fm.setFocus(fm.focus - 1)
		return fm, nil, false

	case keyMsg.String() == "ctrl+x":
		for i := range fm.inputs {
			fm.inputs[i].SetValue("")
		}
		fm.err = ""
		return fm, nil, false
	}

	var cmd tea.Cmd
	fm.inputs[fm.focus], cmd = fm.inputs[fm.focus].Update(keyMsg)
	return fm, cmd, false
}

func (fm *filterModal) setFocus(i int) {
	fm.inputs[fm.focus].Blur()
	fm.focus = (i%fieldCount + fieldCount) % fieldCount
	fm.inputs[fm.focus].Focus()
}

// criteria parses the inputs. Times accept any format the log parser knows.
func (fm filterModal) criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		Levels:    splitList(fm.inputs[fieldLevels].Value()),
		Daemons:   splitList(fm.inputs[fieldDaemons].Value()),
		Hosts:     splitList(fm.inputs[fieldHosts].Value()),
		Modules:   splitList(fm.inputs[fieldModules].Value()),
		Functions: splitList(fm.inputs[fieldFunctions].Value()),
		Sources:   splitList(fm.inputs[fieldSources].Value()),
	}
	if q := strings.TrimSpace(fm.inputs[fieldKeywords].Value()); q != "" {
		c.Keywords = []string{q}
	}
	var err error
	if c.Since, err = parseBound("since", fm.inputs[fieldSince].Value()); err != nil {
		return filter.Criteria{}, err
	}
	if c.Until, err = parseBound("until", fm.inputs[fieldUntil].Value()); err != nil {
		return filter.Criteria{}, err
	}
	if !c.Since.IsZero() && !c.Until.IsZero() && c.Until.Before(c.Since) {
		return filter.Criteria{}, fmt.Errorf("until is before since")
	}
	return c, nil
}

func parseBound(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	ts, ok := logparse.Normalize(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("%s: unrecognised time %q", name, raw)
	}
	return ts, nil
}

// View implements Modal.
func (fm filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(fm.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 48)))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Lists are comma separated. Leave blank to disable."))
	b.WriteString("\n\n")

	for i := range fm.inputs {
		label := filterLabels[i]
		if i == fm.focus {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(fm.inputs[i].View())
		b.WriteString("\n")
	}

	if fm.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(fm.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  Ctrl+X: Clear"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(60)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
