package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logsift/internal/filter"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// handleModalKey routes input to the open modal and applies its result once
// it closes.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd, done := m.modal.Update(msg, m.keys)
	if !done {
		m.modal = next
		return m, cmd
	}
	m.modal = nil
	if fm, ok := next.(filterModal); ok && fm.applied {
		m.applyCriteria(fm.result)
	}
	return m, cmd
}

// applyCriteria replaces the active tab's filters.
func (m *Model) applyCriteria(c filter.Criteria) {
	t := m.activeTab()
	t.criteria = c
	t.refresh(m.snapshot, true)
	t.scrollTo(m.listHeight())
	m.updateStatsViewport()
	m.setStatus(fmt.Sprintf("%d records match", len(t.records)), false)
}
