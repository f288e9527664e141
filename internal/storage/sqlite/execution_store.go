package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// ExecutionStore persists bundle executions and their transactions.
type ExecutionStore struct {
	db  *DB
	now func() time.Time
}

// NewExecutionStore creates a new ExecutionStore.
func NewExecutionStore(db *DB) *ExecutionStore {
	return &ExecutionStore{db: db, now: time.Now}
}

// Save upserts executions in a single transaction. Re-saving an execution
// replaces its transactions.
func (s *ExecutionStore) Save(ctx context.Context, execs ...metrics.BundleExecution) error {
	if len(execs) == 0 {
		return nil
	}

	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		return saveExecutions(ctx, tx, execs)
	})
}

func saveExecutions(ctx context.Context, tx *sql.Tx, execs []metrics.BundleExecution) error {
	execStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO executions
			(id, bundle_type, ts_ms, execution_time_ms, total_cost_bnb, mev_protection, stealth_score, randomization, multi_rpc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bundle_type = excluded.bundle_type,
			ts_ms = excluded.ts_ms,
			execution_time_ms = excluded.execution_time_ms,
			total_cost_bnb = excluded.total_cost_bnb,
			mev_protection = excluded.mev_protection,
			stealth_score = excluded.stealth_score,
			randomization = excluded.randomization,
			multi_rpc = excluded.multi_rpc
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare execution statement: %w", err)
	}
	defer execStmt.Close()

	clearStmt, err := tx.PrepareContext(ctx, `DELETE FROM transactions WHERE bundle_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare clear statement: %w", err)
	}
	defer clearStmt.Close()

	txStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, bundle_id, seq, wallet_address, tx_hash, status, amount_bnb, gas_used, gas_limit,
			 gas_price_gwei, estimated_gas_gwei, error, execution_time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare transaction statement: %w", err)
	}
	defer txStmt.Close()

	for _, e := range execs {
		if e.ID == "" {
			return fmt.Errorf("execution at %s has no id", e.Timestamp.Format(time.RFC3339))
		}

		var score sql.NullFloat64
		var randomized, multiRPC bool
		if e.Stealth != nil {
			score = sql.NullFloat64{Float64: e.Stealth.Score, Valid: true}
			randomized = e.Stealth.RandomizationApplied
			multiRPC = e.Stealth.MultipleRPCsUsed
		}

		if _, err := execStmt.ExecContext(ctx,
			e.ID, string(e.Type), e.Timestamp.UnixMilli(), e.ExecutionTimeMs, e.TotalCostBNB,
			e.MEVProtectionEnabled, score, randomized, multiRPC,
		); err != nil {
			return fmt.Errorf("failed to insert execution %s: %w", e.ID, err)
		}
		if _, err := clearStmt.ExecContext(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to clear transactions of %s: %w", e.ID, err)
		}

		for i, t := range e.Transactions {
			if _, err := txStmt.ExecContext(ctx,
				t.ID, e.ID, i, t.WalletAddress, t.TxHash, string(t.Status), t.AmountBNB,
				int64(t.GasUsed), int64(t.GasLimit), t.GasPriceGwei, t.EstimatedGasGwei,
				t.Error, t.ExecutionTimeMs,
			); err != nil {
				return fmt.Errorf("failed to insert transaction %d of %s: %w", i, e.ID, err)
			}
		}
	}
	return nil
}

// Range returns executions with Start <= timestamp <= End, oldest first.
// A positive limit keeps only the most recent limit executions.
func (s *ExecutionStore) Range(ctx context.Context, r metrics.TimeRange, limit int) ([]metrics.BundleExecution, error) {
	query := `
		SELECT id, bundle_type, ts_ms, execution_time_ms, total_cost_bnb, mev_protection,
		       stealth_score, randomization, multi_rpc
		FROM (
			SELECT * FROM executions
			WHERE ts_ms >= ? AND ts_ms <= ?
			ORDER BY ts_ms DESC, id DESC
			LIMIT ?
		)
		ORDER BY ts_ms ASC, id ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.conn.QueryContext(ctx, query, r.Start.UnixMilli(), r.End.UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	execs, err := scanExecutions(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadTransactions(ctx, execs); err != nil {
		return nil, err
	}
	return execs, nil
}

// Recent returns the most recent executions, oldest first.
func (s *ExecutionStore) Recent(ctx context.Context, limit int) ([]metrics.BundleExecution, error) {
	r := metrics.TimeRange{Start: time.UnixMilli(0), End: time.UnixMilli(1<<62 - 1)}
	return s.Range(ctx, r, limit)
}

func scanExecutions(rows *sql.Rows) ([]metrics.BundleExecution, error) {
	defer rows.Close()

	var result []metrics.BundleExecution
	for rows.Next() {
		var (
			e                    metrics.BundleExecution
			bundleType           string
			tsMs                 int64
			score                sql.NullFloat64
			randomized, multiRPC bool
		)
		if err := rows.Scan(&e.ID, &bundleType, &tsMs, &e.ExecutionTimeMs, &e.TotalCostBNB,
			&e.MEVProtectionEnabled, &score, &randomized, &multiRPC); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		e.Type = metrics.BundleType(bundleType)
		e.Timestamp = time.UnixMilli(tsMs).UTC()
		if score.Valid {
			e.Stealth = &metrics.StealthMetrics{
				Score:                score.Float64,
				RandomizationApplied: randomized,
				MultipleRPCsUsed:     multiRPC,
			}
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// loadTransactions fills the Transactions of execs in submission order.
func (s *ExecutionStore) loadTransactions(ctx context.Context, execs []metrics.BundleExecution) error {
	if len(execs) == 0 {
		return nil
	}

	index := make(map[string]int, len(execs))
	for i, e := range execs {
		index[e.ID] = i
	}

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT t.bundle_id, t.id, t.wallet_address, t.tx_hash, t.status, t.amount_bnb, t.gas_used,
		       t.gas_limit, t.gas_price_gwei, t.estimated_gas_gwei, t.error, t.execution_time_ms
		FROM transactions t
		JOIN executions e ON e.id = t.bundle_id
		WHERE e.ts_ms >= ? AND e.ts_ms <= ?
		ORDER BY t.bundle_id, t.seq
	`, execs[0].Timestamp.UnixMilli(), execs[len(execs)-1].Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bundleID          string
			t                 metrics.TransactionResult
			status            string
			gasUsed, gasLimit int64
		)
		if err := rows.Scan(&bundleID, &t.ID, &t.WalletAddress, &t.TxHash, &status, &t.AmountBNB,
			&gasUsed, &gasLimit, &t.GasPriceGwei, &t.EstimatedGasGwei, &t.Error, &t.ExecutionTimeMs); err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}
		i, ok := index[bundleID]
		if !ok {
			continue // outside the limited window
		}
		t.Status = metrics.TxStatus(status)
		t.GasUsed = uint64(gasUsed)
		t.GasLimit = uint64(gasLimit)
		execs[i].Transactions = append(execs[i].Transactions, t)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

// Prune removes executions older than the retention period along with their
// transactions. Returns number of executions deleted.
func (s *ExecutionStore) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays).UnixMilli()

	var n int64
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE bundle_id IN (SELECT id FROM executions WHERE ts_ms < ?)`, cutoff); err != nil {
			return fmt.Errorf("failed to prune transactions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM executions WHERE ts_ms < ?`, cutoff)
		if err != nil {
			return fmt.Errorf("failed to prune: %w", err)
		}
		n, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the total number of stored executions.
func (s *ExecutionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM executions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return count, nil
}
