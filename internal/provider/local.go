// Package provider implements the metrics backends the dashboard fetches from:
// a local SQLite-backed provider, a client for the bundler's HTTP API, and a
// Redis caching decorator.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/chain"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// ExecutionStore is the persistent execution history.
type ExecutionStore interface {
	Save(ctx context.Context, execs ...metrics.BundleExecution) error
	Range(ctx context.Context, r metrics.TimeRange, limit int) ([]metrics.BundleExecution, error)
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

// SampleStore persists network samples.
type SampleStore interface {
	SaveBatch(ctx context.Context, samples []metrics.NetworkStatus) error
	Range(ctx context.Context, r metrics.TimeRange) ([]metrics.NetworkStatus, error)
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

// Local aggregates snapshots from recorded executions and sampled network
// status. Without an ExecutionStore it serves the bounded in-memory history.
type Local struct {
	executions ExecutionStore
	samples    SampleStore
	network    chain.NetworkSource
	now        func() time.Time

	recent  *metrics.CircularBuffer[metrics.BundleExecution]
	status  *metrics.CircularBuffer[metrics.NetworkStatus]

	historyLimit   int
	sampleInterval time.Duration
	pruneInterval  time.Duration
	retentionDays  int

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// LocalOption configures a Local provider.
type LocalOption func(*Local)

// WithExecutionStore persists recorded executions.
func WithExecutionStore(s ExecutionStore) LocalOption {
	return func(l *Local) { l.executions = s }
}

// WithSampleStore persists network samples.
func WithSampleStore(s SampleStore) LocalOption {
	return func(l *Local) { l.samples = s }
}

// WithNetworkSource sets where network status is sampled from.
func WithNetworkSource(src chain.NetworkSource) LocalOption {
	return func(l *Local) { l.network = src }
}

// WithHistoryLimit bounds the in-memory execution and sample history.
func WithHistoryLimit(n int) LocalOption {
	return func(l *Local) { l.historyLimit = n }
}

// WithSampleInterval sets how often network status is sampled while monitoring.
func WithSampleInterval(d time.Duration) LocalOption {
	return func(l *Local) { l.sampleInterval = d }
}

// WithPruneInterval sets how often old history is pruned while monitoring.
func WithPruneInterval(d time.Duration) LocalOption {
	return func(l *Local) { l.pruneInterval = d }
}

// WithRetentionDays sets the retention period used when pruning.
func WithRetentionDays(days int) LocalOption {
	return func(l *Local) { l.retentionDays = days }
}

// WithLocalClock overrides time.Now.
func WithLocalClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

// NewLocal creates a local provider.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		network:        chain.Offline{},
		now:            time.Now,
		historyLimit:   metrics.DefaultBufferCapacity,
		sampleInterval: 15 * time.Second,
		pruneInterval:  time.Hour,
		retentionDays:  30,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.recent = metrics.NewCircularBuffer[metrics.BundleExecution](l.historyLimit)
	l.status = metrics.NewCircularBuffer[metrics.NetworkStatus](l.historyLimit)
	return l
}

// Record stores executions, assigning IDs to executions and transactions that
// lack one. The recorded copies are returned.
func (l *Local) Record(ctx context.Context, execs ...metrics.BundleExecution) ([]metrics.BundleExecution, error) {
	out := make([]metrics.BundleExecution, len(execs))
	for i, e := range execs {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = l.now()
		}
		txs := make([]metrics.TransactionResult, len(e.Transactions))
		for j, tx := range e.Transactions {
			if tx.ID == "" {
				tx.ID = uuid.NewString()
			}
			txs[j] = tx
		}
		e.Transactions = txs
		out[i] = e
	}

	if l.executions != nil {
		if err := l.executions.Save(ctx, out...); err != nil {
			return nil, fmt.Errorf("record executions: %w", err)
		}
	}
	for _, e := range out {
		l.recent.Push(e)
	}
	logger.Debug("Recorded executions", "count", len(out))
	return out, nil
}

// GetMetrics aggregates the executions and network samples inside r.
func (l *Local) GetMetrics(ctx context.Context, r metrics.TimeRange) (*metrics.Snapshot, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if !l.monitoring() {
		l.sampleIfStale(ctx)
	}

	var execs []metrics.BundleExecution
	var samples []metrics.NetworkStatus

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if l.executions == nil {
			execs = l.recent.InRange(r)
			return nil
		}
		var err error
		execs, err = l.executions.Range(gctx, r, 0)
		if err != nil {
			return fmt.Errorf("load executions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if l.samples == nil {
			samples = l.status.InRange(r)
			return nil
		}
		var err error
		samples, err = l.samples.Range(gctx, r)
		if err != nil {
			return fmt.Errorf("load network samples: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return metrics.Aggregate(metrics.AggregateInput{
		Range:      r,
		Executions: execs,
		Network:    samples,
		Now:        l.now(),
	}), nil
}

// ExportMetrics serializes the snapshot of opts.Range.
func (l *Local) ExportMetrics(ctx context.Context, opts analytics.ExportOptions) ([]byte, error) {
	snap, err := l.GetMetrics(ctx, opts.Range)
	if err != nil {
		return nil, err
	}
	return Encode(snap, opts)
}

// StartMonitoring begins sampling network status and pruning old history.
// Calling it while running is a no-op. The loops outlive ctx's cancellation
// and stop only on StopMonitoring.
func (l *Local) StartMonitoring(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l.cancel = cancel
	l.running = true

	l.wg.Add(1)
	go l.sampleLoop(loopCtx)

	if l.executions != nil || l.samples != nil {
		l.wg.Add(1)
		go l.pruneLoop(loopCtx)
	}
	logger.Info("Monitoring started", "sample_interval", l.sampleInterval)
}

// StopMonitoring stops the loops started by StartMonitoring and waits for them.
func (l *Local) StopMonitoring() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.cancel()
	l.running = false
	l.mu.Unlock()

	l.wg.Wait()
	logger.Info("Monitoring stopped")
}

func (l *Local) monitoring() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// sampleLoop periodically samples network status.
func (l *Local) sampleLoop(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.sampleInterval)
	defer ticker.Stop()

	l.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sample(ctx)
		}
	}
}

// sampleIfStale takes a sample when the newest one is older than the sample
// interval, so one-off fetches still report live status.
func (l *Local) sampleIfStale(ctx context.Context) {
	if latest, ok := l.status.Latest(); ok && l.now().Sub(latest.ObservedAt) < l.sampleInterval {
		return
	}
	l.sample(ctx)
}

func (l *Local) sample(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := l.network.Status(sctx)
	if err != nil {
		logger.Debug("Network sample failed", "error", err)
	}
	if status.ObservedAt.IsZero() {
		status.ObservedAt = l.now()
	}
	l.status.Push(status)

	if l.samples != nil {
		if err := l.samples.SaveBatch(sctx, []metrics.NetworkStatus{status}); err != nil {
			logger.Warn("Failed to persist network sample", "error", err)
		}
	}
}

// pruneLoop periodically removes old data from storage.
func (l *Local) pruneLoop(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := l.Prune(pctx); err != nil {
				logger.Warn("Prune failed", "error", err)
			}
			cancel()
		}
	}
}

// Prune removes history older than the retention period.
func (l *Local) Prune(ctx context.Context) error {
	var errs []error
	if l.executions != nil {
		n, err := l.executions.Prune(ctx, l.retentionDays)
		if err != nil {
			errs = append(errs, fmt.Errorf("prune executions: %w", err))
		} else if n > 0 {
			logger.Info("Pruned executions", "deleted", n, "retention_days", l.retentionDays)
		}
	}
	if l.samples != nil {
		if _, err := l.samples.Prune(ctx, l.retentionDays); err != nil {
			errs = append(errs, fmt.Errorf("prune network samples: %w", err))
		}
	}
	return errors.Join(errs...)
}

var _ analytics.Provider = (*Local)(nil)
