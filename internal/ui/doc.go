// Package ui provides the interactive terminal interface for logsift.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the root state; it polls the
// shared state.Store on a ticker and re-filters the active tab whenever the
// snapshot version changes. The interface never writes records, it only
// reads snapshots and asks the loader to reload.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key routing and the Run entry point
//   - tabs.go: per-tab filter criteria, cursor and scroll state
//   - records.go: record list rendering and navigation
//   - search.go: keyword search and jump-to-id prompts
//   - filters.go: the filter editor modal
//   - stats.go: level, timeline and facet statistics for a tab
//   - export.go: background CSV export of a tab
//   - header.go: header, tab bar, command bar and status line
//   - theme.go, style_helpers.go: colors and background-safe rendering
//
// # Layout
//
// From top to bottom the screen holds the header, the tab bar, the command
// bar, a bordered content box and a one-line status area that doubles as the
// search and jump prompt.
//
// # Tabs
//
// Each tab applies its own filter.Criteria to the full record set. Tabs and
// the theme can be saved to the preferences file and are restored on start.
package ui
