// Package views renders the dashboard sections from an analytics state copy.
package views

import (
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Title returns the tab label for a view mode.
func Title(v analytics.ViewMode) string {
	switch v {
	case analytics.ViewOverview:
		return "Overview"
	case analytics.ViewBundles:
		return "Bundles"
	case analytics.ViewWallets:
		return "Wallets"
	case analytics.ViewNetwork:
		return "Network"
	case analytics.ViewTransactions:
		return "Transactions"
	case analytics.ViewGas:
		return "Gas"
	default:
		return "Unknown"
	}
}

// Next returns the view after v in tab order, wrapping around.
func Next(v analytics.ViewMode) analytics.ViewMode {
	return step(v, 1)
}

// Prev returns the view before v in tab order, wrapping around.
func Prev(v analytics.ViewMode) analytics.ViewMode {
	return step(v, -1)
}

func step(v analytics.ViewMode, delta int) analytics.ViewMode {
	modes := analytics.ViewModes()
	for i, m := range modes {
		if m == v {
			return modes[(i+delta+len(modes))%len(modes)]
		}
	}
	return analytics.ViewOverview
}

// Context is everything a view needs to render one frame.
type Context struct {
	State  analytics.State
	Roster []metrics.Wallet
	// RosterVersion changes whenever Roster is replaced.
	RosterVersion int
	Tables        *Tables
	Width         int
	Height        int
	Now           time.Time
	DateFormat    string
}

func (c Context) dateFormat() string {
	if c.DateFormat == "" {
		return "2006-01-02 15:04:05"
	}
	return c.DateFormat
}

// bucketFormat picks a timestamp layout matching the range granularity.
func (c Context) bucketFormat() string {
	switch c.State.Range.Granularity {
	case metrics.GranularityMinute, metrics.GranularityHour:
		return "15:04"
	default:
		return "01-02"
	}
}
