package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// Provider is the backend the orchestrator fetches snapshots from.
type Provider interface {
	GetMetrics(ctx context.Context, r metrics.TimeRange) (*metrics.Snapshot, error)
	// StartMonitoring and StopMonitoring are idempotent lifecycle hooks.
	StartMonitoring(ctx context.Context)
	StopMonitoring()
	ExportMetrics(ctx context.Context, opts ExportOptions) ([]byte, error)
}

// ExportFormat is the serialization requested from the provider.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts json or csv, case-insensitively.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
	}
}

// Category is one metric family of a snapshot.
type Category string

const (
	CategoryBundles      Category = "bundles"
	CategoryWallets      Category = "wallets"
	CategoryNetwork      Category = "network"
	CategoryTransactions Category = "transactions"
	CategoryGas          Category = "gas"
)

// AllCategories lists every category in export order.
func AllCategories() []Category {
	return []Category{CategoryBundles, CategoryWallets, CategoryNetwork, CategoryTransactions, CategoryGas}
}

// ParseCategories splits a comma separated list. An empty string selects all.
func ParseCategories(s string) ([]Category, error) {
	if strings.TrimSpace(s) == "" {
		return AllCategories(), nil
	}
	var out []Category
	for _, part := range strings.Split(s, ",") {
		c := Category(strings.ToLower(strings.TrimSpace(part)))
		switch c {
		case CategoryBundles, CategoryWallets, CategoryNetwork, CategoryTransactions, CategoryGas:
			out = append(out, c)
		default:
			return nil, fmt.Errorf("unknown metric category %q", part)
		}
	}
	return out, nil
}

// ExportOptions selects what the provider serializes.
type ExportOptions struct {
	Format  ExportFormat
	Range   metrics.TimeRange
	Metrics []Category
}

// Includes reports whether c was selected. No selection means everything.
func (o ExportOptions) Includes(c Category) bool {
	if len(o.Metrics) == 0 {
		return true
	}
	for _, m := range o.Metrics {
		if m == c {
			return true
		}
	}
	return false
}
