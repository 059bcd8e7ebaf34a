package ui

import (
	"fmt"

	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/logparse"
	"github.com/five82/logsift/internal/prefs"
	"github.com/five82/logsift/internal/query"
	"github.com/five82/logsift/internal/state"
)

// tab is one filtered view of the loaded records.
type tab struct {
	name     string
	criteria filter.Criteria
	// records is criteria applied to the snapshot identified by version.
	records []logparse.Record
	version uint64
	cursor  int
	offset  int
	search  searchState
}

// searchState holds an applied keyword search.
type searchState struct {
	query   string
	expr    query.Expr
	terms   []string
	matches []int // Indices into tab.records
	idx     int   // Current match
}

func (s searchState) active() bool {
	return s.query != ""
}

func newSearch(q string) searchState {
	return searchState{
		query: q,
		expr:  query.Compile(q),
		terms: query.ExtractKeywords(q),
	}
}

// tabsFromPrefs restores saved tabs, or a single unfiltered tab.
func tabsFromPrefs(p prefs.Prefs) []*tab {
	if len(p.Tabs) == 0 {
		return []*tab{{name: "All"}}
	}
	tabs := make([]*tab, 0, len(p.Tabs))
	for i, saved := range p.Tabs {
		name := saved.Name
		if name == "" {
			name = fmt.Sprintf("Tab %d", i+1)
		}
		tabs = append(tabs, &tab{name: name, criteria: saved.Criteria()})
	}
	return tabs
}

// refresh recomputes the tab's records when the snapshot changed. The
// selected record stays selected when it is still visible.
func (t *tab) refresh(snap state.Snapshot, force bool) {
	if !force && t.version == snap.Version && t.records != nil {
		return
	}
	var selected int64 = -1
	if rec, ok := t.selected(); ok {
		selected = rec.ID
	}

	t.records = t.criteria.Apply(snap.Records)
	if t.records == nil {
		t.records = []logparse.Record{}
	}
	t.version = snap.Version

	if idx := filter.IndexOf(t.records, selected); idx >= 0 {
		t.cursor = idx
	}
	t.clamp()
	if t.search.active() {
		t.findMatches()
	}
}

func (t *tab) selected() (logparse.Record, bool) {
	if t.cursor < 0 || t.cursor >= len(t.records) {
		return logparse.Record{}, false
	}
	return t.records[t.cursor], true
}

func (t *tab) clamp() {
	if t.cursor >= len(t.records) {
		t.cursor = len(t.records) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// move shifts the cursor by delta rows.
func (t *tab) move(delta int) {
	t.cursor += delta
	t.clamp()
}

// scrollTo keeps the cursor within a window of height rows.
func (t *tab) scrollTo(height int) {
	if height <= 0 {
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+height {
		t.offset = t.cursor - height + 1
	}
	if maxOffset := max(len(t.records)-height, 0); t.offset > maxOffset {
		t.offset = maxOffset
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// highlightTerms returns the terms to mark in messages.
func (t *tab) highlightTerms() []string {
	terms := t.criteria.Highlights()
	return append(terms, t.search.terms...)
}

// label renders the tab bar label, e.g. "2:errors (41)".
func (t *tab) label(n int) string {
	return fmt.Sprintf("%d:%s (%d)", n, t.name, len(t.records))
}

// --- Tab management on the model ---

func (m *Model) activeTab() *tab {
	return m.tabs[m.active]
}

func (m *Model) switchTab(i int) {
	if i < 0 || i >= len(m.tabs) || i == m.active {
		return
	}
	m.active = i
	m.activeTab().refresh(m.snapshot, false)
	m.updateStatsViewport()
}

func (m *Model) newTab() {
	m.tabSeq++
	m.tabs = append(m.tabs, &tab{name: fmt.Sprintf("Tab %d", m.tabSeq)})
	m.switchTab(len(m.tabs) - 1)
}

func (m *Model) closeTab() {
	if len(m.tabs) <= 1 {
		m.setStatus("cannot close the last tab", true)
		return
	}
	m.tabs = append(m.tabs[:m.active:m.active], m.tabs[m.active+1:]...)
	if m.active >= len(m.tabs) {
		m.active = len(m.tabs) - 1
	}
	m.activeTab().refresh(m.snapshot, false)
	m.updateStatsViewport()
}

func (m *Model) cycleTab(delta int) {
	n := len(m.tabs)
	m.switchTab(((m.active+delta)%n + n) % n)
}

// saveTabs persists the theme and every tab's criteria.
func (m *Model) saveTabs() {
	saved := make([]prefs.Tab, 0, len(m.tabs))
	for _, t := range m.tabs {
		saved = append(saved, prefs.TabFromCriteria(t.name, t.criteria))
	}
	m.prefs.Tabs = saved
	m.prefs.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.setStatus(fmt.Sprintf("save tabs: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("saved %d tabs", len(saved)), false)
}
