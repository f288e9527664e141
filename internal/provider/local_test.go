package provider

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/storage/sqlite"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type countingNetwork struct {
	calls atomic.Int64
	gas   float64
}

func (n *countingNetwork) Status(ctx context.Context) (metrics.NetworkStatus, error) {
	n.calls.Add(1)
	return metrics.NetworkStatus{Connected: true, BlockNumber: 42, GasPriceGwei: n.gas}, nil
}

func sampleExecution(at time.Time, statuses ...metrics.TxStatus) metrics.BundleExecution {
	e := metrics.BundleExecution{
		Type:            metrics.BundleBuy,
		Timestamp:       at,
		ExecutionTimeMs: 800,
	}
	for _, st := range statuses {
		e.Transactions = append(e.Transactions, metrics.TransactionResult{
			WalletAddress: "0xaaa",
			Status:        st,
			AmountBNB:     1,
			GasUsed:       21000,
			GasPriceGwei:  5,
		})
	}
	return e
}

func TestLocalRecordAssignsIDs(t *testing.T) {
	l := NewLocal(WithLocalClock(func() time.Time { return testNow }))

	out, err := l.Record(context.Background(), sampleExecution(time.Time{}, metrics.TxConfirmed))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].ID)
	assert.NotEmpty(t, out[0].Transactions[0].ID)
	assert.Equal(t, testNow, out[0].Timestamp)
}

func TestLocalGetMetricsInMemory(t *testing.T) {
	network := &countingNetwork{gas: 6}
	l := NewLocal(
		WithNetworkSource(network),
		WithLocalClock(func() time.Time { return testNow }),
	)
	ctx := context.Background()

	_, err := l.Record(ctx,
		sampleExecution(testNow.Add(-3*time.Hour), metrics.TxConfirmed),
		sampleExecution(testNow.Add(-20*time.Minute), metrics.TxConfirmed, metrics.TxFailed),
	)
	require.NoError(t, err)

	snap, err := l.GetMetrics(ctx, metrics.ResolvePeriod(metrics.Period1h, testNow))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Bundles.TotalBundles)
	assert.Equal(t, 1, snap.Bundles.SuccessfulTransactions)
	assert.Equal(t, 1, snap.Bundles.FailedTransactions)
	assert.True(t, snap.Network.Connected)
	assert.Equal(t, uint64(42), snap.Network.BlockNumber)
	assert.Equal(t, metrics.CongestionMedium, snap.Network.Congestion)

	// A fresh sample is reused until it goes stale.
	_, err = l.GetMetrics(ctx, metrics.ResolvePeriod(metrics.Period24h, testNow))
	require.NoError(t, err)
	assert.Equal(t, int64(1), network.calls.Load())
}

func TestLocalGetMetricsInvalidRange(t *testing.T) {
	l := NewLocal()
	_, err := l.GetMetrics(context.Background(), metrics.TimeRange{Start: testNow, End: testNow})
	assert.Error(t, err)
}

func TestLocalWithSQLite(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	clock := func() time.Time { return testNow }
	first := NewLocal(
		WithExecutionStore(sqlite.NewExecutionStore(db)),
		WithSampleStore(sqlite.NewNetworkStore(db)),
		WithNetworkSource(&countingNetwork{gas: 3}),
		WithLocalClock(clock),
	)
	_, err = first.Record(ctx, sampleExecution(testNow.Add(-time.Hour), metrics.TxConfirmed, metrics.TxConfirmed))
	require.NoError(t, err)

	// A second provider on the same database sees the persisted history.
	second := NewLocal(
		WithExecutionStore(sqlite.NewExecutionStore(db)),
		WithSampleStore(sqlite.NewNetworkStore(db)),
		WithNetworkSource(&countingNetwork{gas: 3}),
		WithLocalClock(clock),
	)
	snap, err := second.GetMetrics(ctx, metrics.ResolvePeriod(metrics.Period24h, testNow))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Bundles.TotalBundles)
	assert.Equal(t, 2, snap.Bundles.SuccessfulTransactions)
	assert.Len(t, snap.Transactions.Records, 2)
	assert.NotEmpty(t, snap.Network.GasPriceHistory)
}

func TestLocalMonitoringIdempotent(t *testing.T) {
	network := &countingNetwork{gas: 1}
	l := NewLocal(WithNetworkSource(network), WithSampleInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	l.StartMonitoring(ctx)
	l.StartMonitoring(ctx)
	cancel() // loops are detached from the caller's context

	assert.Eventually(t, func() bool { return network.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, l.monitoring())

	l.StopMonitoring()
	l.StopMonitoring()
	assert.False(t, l.monitoring())

	stopped := network.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, network.calls.Load())
}

func TestLocalExportCSV(t *testing.T) {
	l := NewLocal(WithLocalClock(func() time.Time { return testNow }))
	ctx := context.Background()
	_, err := l.Record(ctx,
		sampleExecution(testNow.Add(-10*time.Minute), metrics.TxConfirmed, metrics.TxFailed, metrics.TxPending),
	)
	require.NoError(t, err)

	data, err := l.ExportMetrics(ctx, analytics.ExportOptions{
		Format:  analytics.FormatCSV,
		Range:   metrics.ResolvePeriod(metrics.Period1h, testNow),
		Metrics: []analytics.Category{analytics.CategoryTransactions},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "# transactions", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "id,bundle_id,bundle_type,wallet"))
	assert.NotContains(t, string(data), "# bundles")
}

func TestLocalExportJSON(t *testing.T) {
	l := NewLocal(WithLocalClock(func() time.Time { return testNow }))
	ctx := context.Background()
	_, err := l.Record(ctx, sampleExecution(testNow.Add(-10*time.Minute), metrics.TxConfirmed))
	require.NoError(t, err)

	data, err := l.ExportMetrics(ctx, analytics.ExportOptions{
		Format:  analytics.FormatJSON,
		Range:   metrics.ResolvePeriod(metrics.Period1h, testNow),
		Metrics: []analytics.Category{analytics.CategoryBundles, analytics.CategoryGas},
	})
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "bundles")
	assert.Contains(t, doc, "gas")
	assert.NotContains(t, doc, "wallets")
	assert.NotContains(t, doc, "transactions")

	var bundles metrics.BundlePerformance
	require.NoError(t, json.Unmarshal(doc["bundles"], &bundles))
	assert.Equal(t, 1, bundles.TotalBundles)
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	_, err := Encode(&metrics.Snapshot{}, analytics.ExportOptions{Format: "xml"})
	assert.Error(t, err)

	_, err = Encode(nil, analytics.ExportOptions{Format: analytics.FormatJSON})
	assert.Error(t, err)
}
