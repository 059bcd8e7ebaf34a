package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which host and module
	// columns are hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the function column.
	LayoutWideWidth = 140
)

// Rows taken by chrome around the record list: header, tab bar, command bar,
// box borders and status line.
const chromeRows = 6

// Stats rendering limits.
const (
	statsBuckets  = 24
	statsTop      = 8
	statsBarWidth = 40
)

// DefaultUIInterval is the default store polling interval.
const DefaultUIInterval = time.Second
