package app

import (
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
)

// preferencesLoadedMsg is sent once stored preferences were applied.
type preferencesLoadedMsg struct {
	Prefs analytics.Preferences
	Err   error
}

// statusBarTickMsg is sent periodically to update relative timestamps
type statusBarTickMsg struct {
	Timestamp time.Time
}

// rosterDueMsg triggers a roster reload
type rosterDueMsg struct{}
