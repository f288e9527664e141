// Package styles provides centralized Lipgloss styling for the dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Color palette
var (
	// Transaction status colors
	ColorConfirmed = lipgloss.Color("10")  // Green
	ColorPending   = lipgloss.Color("11")  // Yellow
	ColorFailed    = lipgloss.Color("9")   // Red
	ColorEstimated = lipgloss.Color("244") // Gray - estimated gas bars

	// UI element colors
	ColorBorder  = lipgloss.Color("240") // Gray - all borders
	ColorAccent  = lipgloss.Color("6")   // Cyan - titles, highlights
	ColorMuted   = lipgloss.Color("8")   // Dark gray - secondary text
	ColorText    = lipgloss.Color("7")
	ColorSuccess = lipgloss.Color("10")
	ColorError   = lipgloss.Color("9")
	ColorWarning = lipgloss.Color("11")

	// Selection colors
	ColorSelectedFg = lipgloss.Color("229") // Light yellow text
	ColorSelectedBg = lipgloss.Color("57")  // Purple background
)

// SliceColors is the cycle used for distribution legends.
var SliceColors = []lipgloss.Color{"39", "42", "214", "203", "141", "44"}

// TxStatusColor returns the color for a transaction status.
func TxStatusColor(s metrics.TxStatus) lipgloss.Color {
	switch s {
	case metrics.TxConfirmed:
		return ColorConfirmed
	case metrics.TxPending:
		return ColorPending
	case metrics.TxFailed:
		return ColorFailed
	default:
		return ColorMuted
	}
}

// CongestionColor returns the color for a congestion level.
func CongestionColor(c metrics.Congestion) lipgloss.Color {
	switch c {
	case metrics.CongestionHigh:
		return ColorFailed
	case metrics.CongestionMedium:
		return ColorPending
	default:
		return ColorConfirmed
	}
}

// RefreshColor returns the color for the fetch lifecycle status.
func RefreshColor(s analytics.Status) lipgloss.Color {
	switch s {
	case analytics.StatusLoading:
		return ColorAccent
	case analytics.StatusSuccess:
		return ColorSuccess
	case analytics.StatusError:
		return ColorError
	default:
		return ColorMuted
	}
}
