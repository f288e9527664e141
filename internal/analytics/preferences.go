package analytics

import (
	"context"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Preferences is the persisted part of the dashboard state. Zero fields are
// unset and leave the current value alone when applied.
type Preferences struct {
	ViewMode        ViewMode          `json:"view_mode,omitempty" yaml:"view_mode,omitempty"`
	Period          metrics.Period    `json:"period,omitempty" yaml:"period,omitempty"`
	RefreshInterval time.Duration     `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
	RealTime        bool              `json:"real_time,omitempty" yaml:"real_time,omitempty"`
	Filters         map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// PreferenceStore loads and saves Preferences.
type PreferenceStore interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, p Preferences) error
}
