package analytics

import (
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Status is the refresh lifecycle of the cached snapshot.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// RefreshState tracks the most recent fetch attempt. A zero LastUpdated means
// no fetch has succeeded yet.
type RefreshState struct {
	Status      Status
	LastUpdated time.Time
	Err         string
}

// RealTimeSession describes periodic auto-refresh.
type RealTimeSession struct {
	Enabled  bool
	Interval time.Duration
}

// ExportTask is the synthetic export progress shown to the user.
type ExportTask struct {
	InProgress bool
	Percent    int
}

// ViewMode selects which dashboard section is shown.
type ViewMode string

const (
	ViewOverview     ViewMode = "overview"
	ViewBundles      ViewMode = "bundles"
	ViewWallets      ViewMode = "wallets"
	ViewNetwork      ViewMode = "network"
	ViewTransactions ViewMode = "transactions"
	ViewGas          ViewMode = "gas"
)

var viewModes = []ViewMode{ViewOverview, ViewBundles, ViewWallets, ViewNetwork, ViewTransactions, ViewGas}

// ViewModes lists every view mode in display order.
func ViewModes() []ViewMode {
	out := make([]ViewMode, len(viewModes))
	copy(out, viewModes)
	return out
}

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	for _, m := range viewModes {
		if m == v {
			return true
		}
	}
	return false
}

// State is a copy of the orchestrator's fields for presentation. Snapshot is
// shared and must be treated as read-only. Seq increases with every
// transition, so listeners can order states delivered from different
// goroutines.
type State struct {
	Seq           uint64
	Range         metrics.TimeRange
	Refresh       RefreshState
	RealTime      RealTimeSession
	Export        ExportTask
	ViewMode      ViewMode
	Filters       map[string]string
	Fetching      bool
	Snapshot      *metrics.Snapshot
	SnapshotRange metrics.TimeRange
}
