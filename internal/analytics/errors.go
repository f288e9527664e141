package analytics

import (
	"errors"
	"fmt"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

var (
	// ErrSuperseded is returned by a fetch whose selection was replaced before
	// the provider answered. Its result was discarded.
	ErrSuperseded = errors.New("fetch superseded by a newer selection")

	// ErrExportInProgress is returned when an export is already running.
	ErrExportInProgress = errors.New("export already in progress")

	// ErrNoProvider is returned when an orchestrator is built without a provider.
	ErrNoProvider = errors.New("no metrics provider configured")
)

// FetchError records a failed provider call. The previous snapshot stays cached.
type FetchError struct {
	Range metrics.TimeRange
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch metrics for %s: %v", metrics.FormatPeriod(e.Range), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExportError records a failed export. Export progress is reset to 0.
type ExportError struct {
	Format ExportFormat
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ConfigError describes an invalid setting that was replaced by a safe default.
type ConfigError struct {
	Field    string
	Value    any
	Fallback any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v, using %v", e.Field, e.Value, e.Fallback)
}
