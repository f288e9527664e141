// Package ui provides Bubbletea TUI components for bundlewatch.
package ui

import (
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Data messages (from the orchestrator to UI)

// StateMsg carries an orchestrator state copy after a transition.
type StateMsg struct {
	State analytics.State
}

// FetchDoneMsg reports the outcome of a fetch started by the UI.
type FetchDoneMsg struct {
	Error error
}

// RosterMsg carries the latest wallet roster.
type RosterMsg struct {
	Wallets   []metrics.Wallet
	FetchedAt time.Time
	Error     error
}

// Action messages

// ExportDoneMsg contains the result of an export.
type ExportDoneMsg struct {
	Format analytics.ExportFormat
	Path   string
	Bytes  int
	Error  error
}

// UI state messages

// TickMsg triggers periodic redraws of relative timestamps.
type TickMsg time.Time

// ToastExpiredMsg hides the toast with the given id.
type ToastExpiredMsg struct {
	ID int
}

// WindowTooSmallMsg indicates terminal is below minimum size.
type WindowTooSmallMsg struct {
	Width  int
	Height int
}
