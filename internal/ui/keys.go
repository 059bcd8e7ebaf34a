package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Reload     key.Binding

	// Views
	ToggleStats key.Binding

	// Tabs
	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	SaveTabs key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Records actions
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Filters   key.Binding
	Jump      key.Binding
	Export    key.Binding

	// Search/input
	Confirm  key.Binding
	NextItem key.Binding
	PrevItem key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search / back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload files"),
		),

		ToggleStats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Toggle stats"),
		),

		// Tabs
		NewTab: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "New tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "Next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "Previous tab"),
		),
		SaveTabs: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Save tabs"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Records actions
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search messages"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		Filters: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Tab filters"),
		),
		Jump: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Jump to record id"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Export tab to CSV"),
		),

		// Search/input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		NextItem: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevItem: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.PageDown, k.PageUp},
		{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab, k.SaveTabs},
		{k.Search, k.NextMatch, k.PrevMatch, k.Filters, k.Jump},
		{k.ToggleStats, k.Export, k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
