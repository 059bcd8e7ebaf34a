package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logsift/internal/filter"
)

// promptKind identifies what the status line input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptJump
)

// promptState is the inline input shown in the status line.
type promptState struct {
	kind  promptKind
	input textinput.Model
}

func newPromptInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = ""
	return ti
}

func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.prompt.kind = kind
	switch kind {
	case promptSearch:
		m.prompt.input.Placeholder = "error && (disk || usb)"
		m.prompt.input.SetValue(m.activeTab().search.query)
	case promptJump:
		m.prompt.input.Placeholder = "record id"
		m.prompt.input.SetValue("")
	}
	m.prompt.input.CursorEnd()
	return m.prompt.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt.kind = promptNone
	m.prompt.input.Blur()
}

// handlePromptKey handles keyboard input while the status line prompt is open.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.prompt.input.Value())
		kind := m.prompt.kind
		m.closePrompt()
		switch kind {
		case promptSearch:
			m.applySearch(value)
		case promptJump:
			m.jumpTo(value)
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

// applySearch runs a keyword query over the active tab. An empty query
// clears the search.
func (m *Model) applySearch(q string) {
	t := m.activeTab()
	if q == "" {
		t.search = searchState{}
		return
	}
	t.search = newSearch(q)
	t.findMatches()
	if len(t.search.matches) == 0 {
		return
	}
	// Start from the first match at or below the cursor.
	t.search.idx = 0
	for i, idx := range t.search.matches {
		if idx >= t.cursor {
			t.search.idx = i
			break
		}
	}
	m.gotoMatch()
}

// findMatches recomputes the match list for the tab's current records.
func (t *tab) findMatches() {
	t.search.matches = t.search.matches[:0]
	for i, rec := range t.records {
		if t.search.expr.Match(rec.Message) {
			t.search.matches = append(t.search.matches, i)
		}
	}
	if t.search.idx >= len(t.search.matches) {
		t.search.idx = 0
	}
}

// nextMatch moves to the next (delta 1) or previous (delta -1) match.
func (m *Model) nextMatch(delta int) {
	t := m.activeTab()
	n := len(t.search.matches)
	if n == 0 {
		return
	}
	t.search.idx = ((t.search.idx+delta)%n + n) % n
	m.gotoMatch()
}

func (m *Model) gotoMatch() {
	t := m.activeTab()
	if t.search.idx >= len(t.search.matches) {
		return
	}
	t.cursor = t.search.matches[t.search.idx]
	t.clamp()
	// Center the match when possible.
	h := m.listHeight()
	t.offset = max(t.cursor-h/2, 0)
	t.scrollTo(h)
}

func (m *Model) clearSearch() bool {
	t := m.activeTab()
	if !t.search.active() {
		return false
	}
	t.search = searchState{}
	return true
}

// jumpTo moves the cursor to the record with the given id.
func (m *Model) jumpTo(value string) {
	if value == "" {
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(value, "#"), 10, 64)
	if err != nil {
		m.setStatus(fmt.Sprintf("not a record id: %q", value), true)
		return
	}
	t := m.activeTab()
	if idx := filter.IndexOf(t.records, id); idx >= 0 {
		t.cursor = idx
		t.scrollTo(m.listHeight())
		m.setStatus(fmt.Sprintf("record #%d", id), false)
		return
	}
	if m.store != nil {
		if _, ok := m.store.Record(id); ok {
			m.setStatus(fmt.Sprintf("record #%d is hidden by this tab's filters", id), true)
			return
		}
	}
	m.setStatus(fmt.Sprintf("record #%d not found", id), true)
}
