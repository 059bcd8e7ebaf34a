package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/logsift/internal/export"
)

// exportPath names the CSV file for a tab export.
func exportPath(dir, tabName string, now time.Time) string {
	name := fmt.Sprintf("logsift-%s-%s.csv", slug(tabName), now.Format("20060102-150405"))
	return filepath.Join(dir, name)
}

// exportCmd writes the active tab's records to a CSV file in the background.
func (m Model) exportCmd() tea.Cmd {
	t := m.activeTab()
	if len(t.records) == 0 {
		return func() tea.Msg {
			return exportDoneMsg{err: fmt.Errorf("tab %q has no records", t.name)}
		}
	}
	records := t.records
	path := exportPath(m.exportDir, t.name, time.Now())
	loc := m.location()
	logger := m.logger
	return func() tea.Msg {
		err := export.WriteFile(path, export.CSV, records, loc)
		if err != nil {
			logger.Warn("export failed", zap.String("path", path), zap.Error(err))
		} else {
			logger.Info("exported records", zap.String("path", path), zap.Int("count", len(records)))
		}
		return exportDoneMsg{path: path, count: len(records), err: err}
	}
}
