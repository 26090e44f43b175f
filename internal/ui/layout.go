package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the details panel moves
	// under the search table.
	LayoutCompactWidth = 110

	// DetailsWidth is the width of the details panel in wide layouts.
	DetailsWidth = 44
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines read from the tail.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI samples the store and steps the
	// genome panel. It matches the viewport polling cadence.
	DefaultUIInterval = 200 * time.Millisecond

	// LogRefreshEvery throttles log file reads while following.
	LogRefreshEvery = 2 * time.Second

	// RequestTimeout bounds portal calls made from the UI.
	RequestTimeout = 15 * time.Second

	// StatusMessageTTL is how long a status message stays in the footer.
	StatusMessageTTL = 5 * time.Second
)
