package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// NetworkStore persists sampled network status so gas history survives restarts.
type NetworkStore struct {
	db  *DB
	now func() time.Time
}

// NewNetworkStore creates a new NetworkStore.
func NewNetworkStore(db *DB) *NetworkStore {
	return &NetworkStore{db: db, now: time.Now}
}

// SaveBatch inserts samples in a single transaction.
func (s *NetworkStore) SaveBatch(ctx context.Context, samples []metrics.NetworkStatus) error {
	if len(samples) == 0 {
		return nil
	}

	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO network_samples (ts_ms, connected, block_number, gas_price_gwei)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, ns := range samples {
			if ns.ObservedAt.IsZero() {
				continue
			}
			if _, err := stmt.ExecContext(ctx, ns.ObservedAt.UnixMilli(), ns.Connected, int64(ns.BlockNumber), ns.GasPriceGwei); err != nil {
				return fmt.Errorf("failed to insert sample: %w", err)
			}
		}
		return nil
	})
}

// Range returns samples observed within r, oldest first.
func (s *NetworkStore) Range(ctx context.Context, r metrics.TimeRange) ([]metrics.NetworkStatus, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT ts_ms, connected, block_number, gas_price_gwei
		FROM network_samples
		WHERE ts_ms >= ? AND ts_ms <= ?
		ORDER BY ts_ms ASC
	`, r.Start.UnixMilli(), r.End.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var result []metrics.NetworkStatus
	for rows.Next() {
		var tsMs, block int64
		var ns metrics.NetworkStatus
		if err := rows.Scan(&tsMs, &ns.Connected, &block, &ns.GasPriceGwei); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		ns.ObservedAt = time.UnixMilli(tsMs).UTC()
		ns.BlockNumber = uint64(block)
		result = append(result, ns)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Prune removes samples older than the retention period.
func (s *NetworkStore) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	result, err := s.db.conn.ExecContext(ctx, `DELETE FROM network_samples WHERE ts_ms < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune samples: %w", err)
	}
	return result.RowsAffected()
}
