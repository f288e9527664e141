package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func execution(id string, at time.Time, txs ...metrics.TxStatus) metrics.BundleExecution {
	e := metrics.BundleExecution{
		ID:                   id,
		Type:                 metrics.BundleBuy,
		Timestamp:            at,
		ExecutionTimeMs:      900,
		TotalCostBNB:         0.5,
		MEVProtectionEnabled: true,
	}
	for i, st := range txs {
		e.Transactions = append(e.Transactions, metrics.TransactionResult{
			ID:               id + "-tx" + string(rune('a'+i)),
			WalletAddress:    "0xwallet",
			Status:           st,
			AmountBNB:        0.1,
			GasUsed:          21000,
			GasLimit:         30000,
			GasPriceGwei:     5,
			EstimatedGasGwei: 5.5,
			ExecutionTimeMs:  300,
		})
	}
	return e
}

func TestExecutionStore_SaveAndRange(t *testing.T) {
	store := NewExecutionStore(setupTestDB(t))
	ctx := context.Background()

	withStealth := execution("b2", base.Add(-30*time.Minute), metrics.TxConfirmed)
	withStealth.Stealth = &metrics.StealthMetrics{Score: 82.5, RandomizationApplied: true}

	err := store.Save(ctx,
		execution("b1", base.Add(-2*time.Hour), metrics.TxConfirmed, metrics.TxFailed),
		withStealth,
		execution("b3", base.Add(-10*time.Minute), metrics.TxPending, metrics.TxConfirmed, metrics.TxFailed),
	)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	r := metrics.ResolvePeriod(metrics.Period1h, base)
	got, err := store.Range(ctx, r, 0)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 executions in the last hour, got %d", len(got))
	}
	if got[0].ID != "b2" || got[1].ID != "b3" {
		t.Errorf("expected oldest first [b2 b3], got [%s %s]", got[0].ID, got[1].ID)
	}
	if !got[0].Timestamp.Equal(withStealth.Timestamp) {
		t.Errorf("timestamp mismatch: %v vs %v", got[0].Timestamp, withStealth.Timestamp)
	}
	if got[0].Stealth == nil || got[0].Stealth.Score != 82.5 || !got[0].Stealth.RandomizationApplied {
		t.Errorf("stealth not restored: %+v", got[0].Stealth)
	}
	if got[1].Stealth != nil {
		t.Errorf("expected nil stealth, got %+v", got[1].Stealth)
	}

	txs := got[1].Transactions
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	wantStatus := []metrics.TxStatus{metrics.TxPending, metrics.TxConfirmed, metrics.TxFailed}
	for i, tx := range txs {
		if tx.Status != wantStatus[i] {
			t.Errorf("tx %d: expected %s, got %s", i, wantStatus[i], tx.Status)
		}
		if tx.GasUsed != 21000 || tx.GasLimit != 30000 {
			t.Errorf("tx %d: gas not restored: %d/%d", i, tx.GasUsed, tx.GasLimit)
		}
	}
}

func TestExecutionStore_SaveReplacesTransactions(t *testing.T) {
	store := NewExecutionStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, execution("b1", base, metrics.TxPending, metrics.TxPending)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, execution("b1", base, metrics.TxConfirmed)); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 || len(got[0].Transactions) != 1 {
		t.Fatalf("expected one execution with one transaction, got %+v", got)
	}
	if got[0].Transactions[0].Status != metrics.TxConfirmed {
		t.Errorf("expected confirmed, got %s", got[0].Transactions[0].Status)
	}
}

func TestExecutionStore_SaveRequiresID(t *testing.T) {
	store := NewExecutionStore(setupTestDB(t))
	if err := store.Save(context.Background(), execution("", base)); err == nil {
		t.Error("expected error for execution without id")
	}
}

func TestExecutionStore_RecentLimit(t *testing.T) {
	store := NewExecutionStore(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		if err := store.Save(ctx, execution(id, base.Add(time.Duration(i)*time.Minute), metrics.TxConfirmed)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d" || got[1].ID != "e" {
		t.Fatalf("expected [d e], got %+v", got)
	}
	for _, e := range got {
		if len(e.Transactions) != 1 {
			t.Errorf("%s: expected 1 transaction, got %d", e.ID, len(e.Transactions))
		}
	}
}

func TestExecutionStore_Prune(t *testing.T) {
	store := NewExecutionStore(setupTestDB(t))
	store.now = func() time.Time { return base }
	ctx := context.Background()

	err := store.Save(ctx,
		execution("old", base.AddDate(0, 0, -10), metrics.TxConfirmed),
		execution("new", base.AddDate(0, 0, -1), metrics.TxConfirmed),
	)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := store.Prune(ctx, 7)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 remaining, got %d", count)
	}

	var orphans int
	if err := store.db.conn.QueryRow(`SELECT COUNT(*) FROM transactions WHERE bundle_id = 'old'`).Scan(&orphans); err != nil {
		t.Fatalf("orphan query failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected transactions of pruned execution removed, got %d", orphans)
	}
}

func TestNetworkStore(t *testing.T) {
	store := NewNetworkStore(setupTestDB(t))
	store.now = func() time.Time { return base }
	ctx := context.Background()

	samples := []metrics.NetworkStatus{
		{Connected: true, BlockNumber: 100, GasPriceGwei: 3, ObservedAt: base.AddDate(0, 0, -40)},
		{Connected: true, BlockNumber: 200, GasPriceGwei: 6, ObservedAt: base.Add(-time.Minute)},
		{},
	}
	if err := store.SaveBatch(ctx, samples); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	got, err := store.Range(ctx, metrics.ResolvePeriod(metrics.Period1h, base))
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(got) != 1 || got[0].BlockNumber != 200 || got[0].GasPriceGwei != 6 || !got[0].Connected {
		t.Fatalf("unexpected samples: %+v", got)
	}

	deleted, err := store.Prune(ctx, 30)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned sample, got %d", deleted)
	}
}

func TestPreferenceStore(t *testing.T) {
	store := NewPreferenceStore(setupTestDB(t))
	ctx := context.Background()

	empty, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if empty.ViewMode != "" || empty.Filters != nil {
		t.Errorf("expected empty preferences, got %+v", empty)
	}

	want := analytics.Preferences{
		ViewMode:        analytics.ViewGas,
		Period:          metrics.Period30d,
		RefreshInterval: 10 * time.Second,
		Filters:         map[string]string{"status": "failed"},
	}
	for i := 0; i < 2; i++ {
		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ViewMode != want.ViewMode || got.Period != want.Period || got.RefreshInterval != want.RefreshInterval {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got.Filters["status"] != "failed" {
		t.Errorf("filters not restored: %v", got.Filters)
	}
}
