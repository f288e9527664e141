// Package analytics owns the lifecycle of fetched metrics snapshots: the
// selected time range, the refresh state machine, periodic real-time refresh,
// export progress, and persisted dashboard preferences.
package analytics

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
)

// Refresh interval bounds. Values outside them fall back to DefaultRefreshInterval.
const (
	DefaultRefreshInterval = 30 * time.Second
	MinRefreshInterval     = time.Second
	MaxRefreshInterval     = time.Hour
)

// Export progress timing.
const (
	DefaultExportStep         = 200 * time.Millisecond
	DefaultExportDisplayDelay = time.Second
	exportStepPercent         = 10
	exportMaxSynthetic        = 90
)

// Listener is called with a copy of the state after every transition. It runs
// on the goroutine that caused the transition and must not block.
type Listener func(State)

// Orchestrator coordinates fetches, the cached snapshot and auto-refresh.
// All methods are safe for concurrent use.
type Orchestrator struct {
	provider  Provider
	scheduler Scheduler
	prefs     PreferenceStore
	listener  Listener
	now       func() time.Time

	defaultPeriod   metrics.Period
	defaultInterval time.Duration
	exportStep      time.Duration
	exportDisplay   time.Duration

	// ctx bounds work started by ticks; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	seq           uint64
	rng           metrics.TimeRange
	generation    uint64
	fetching      bool
	fetchingGen   uint64
	refresh       RefreshState
	snapshot      *metrics.Snapshot
	snapshotRange metrics.TimeRange
	interval      time.Duration
	realTime      bool
	export        ExportTask
	exportReset   Task
	viewMode      ViewMode
	filters       map[string]string

	// timerMu serializes real-time task changes. Lock order: timerMu before mu.
	timerMu sync.Mutex
	task    Task

	// monitorMu serializes provider monitoring calls, which run outside
	// timerMu. Lock order: monitorMu before timerMu.
	monitorMu  sync.Mutex
	monitoring bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithScheduler replaces the ticker-backed scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *Orchestrator) {
		o.scheduler = s
	}
}

// WithClock sets the time source used to resolve periods.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithListener registers a state change callback.
func WithListener(l Listener) Option {
	return func(o *Orchestrator) {
		o.listener = l
	}
}

// WithPreferences enables loading and saving dashboard preferences.
func WithPreferences(store PreferenceStore) Option {
	return func(o *Orchestrator) {
		o.prefs = store
	}
}

// WithRefreshInterval sets the initial real-time interval.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.defaultInterval = d
	}
}

// WithExportTiming sets the synthetic progress step and how long 100% stays visible.
func WithExportTiming(step, displayDelay time.Duration) Option {
	return func(o *Orchestrator) {
		o.exportStep = step
		o.exportDisplay = displayDelay
	}
}

// WithDefaultPeriod sets the period selected at startup and after Reset.
func WithDefaultPeriod(p metrics.Period) Option {
	return func(o *Orchestrator) {
		o.defaultPeriod = p
	}
}

// New creates an orchestrator selecting the default period. Nothing is fetched
// until Fetch or Refresh is called.
func New(provider Provider, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}

	o := &Orchestrator{
		provider:        provider,
		scheduler:       TickerScheduler{},
		now:             time.Now,
		defaultPeriod:   metrics.DefaultPeriod,
		defaultInterval: DefaultRefreshInterval,
		exportStep:      DefaultExportStep,
		exportDisplay:   DefaultExportDisplayDelay,
	}
	for _, opt := range opts {
		opt(o)
	}

	if !o.defaultPeriod.Valid() {
		logger.Warn("Invalid default period", "error", &ConfigError{Field: "period", Value: o.defaultPeriod, Fallback: metrics.DefaultPeriod})
		o.defaultPeriod = metrics.DefaultPeriod
	}
	o.defaultInterval = validInterval(o.defaultInterval)

	o.ctx, o.cancel = context.WithCancel(context.Background())
	o.resetLocked()
	return o, nil
}

func (o *Orchestrator) resetLocked() {
	o.rng = metrics.ResolvePeriod(o.defaultPeriod, o.now())
	o.generation++
	o.refresh = RefreshState{Status: StatusIdle}
	o.snapshot = nil
	o.snapshotRange = metrics.TimeRange{}
	o.interval = o.defaultInterval
	o.realTime = false
	o.viewMode = ViewOverview
	o.filters = map[string]string{}
	if !o.export.InProgress {
		o.export = ExportTask{}
	}
}

func validInterval(d time.Duration) time.Duration {
	if d < MinRefreshInterval || d > MaxRefreshInterval {
		logger.Warn("Invalid refresh interval", "error", &ConfigError{Field: "refresh interval", Value: d, Fallback: DefaultRefreshInterval})
		return DefaultRefreshInterval
	}
	return d
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() State {
	return State{
		Seq:           o.seq,
		Range:         o.rng,
		Refresh:       o.refresh,
		RealTime:      RealTimeSession{Enabled: o.realTime, Interval: o.interval},
		Export:        o.export,
		ViewMode:      o.viewMode,
		Filters:       maps.Clone(o.filters),
		Fetching:      o.fetching,
		Snapshot:      o.snapshot,
		SnapshotRange: o.snapshotRange,
	}
}

// Snapshot returns the cached snapshot, or nil before the first successful fetch.
func (o *Orchestrator) Snapshot() *metrics.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// unlockAndNotify releases mu and reports the state captured while locked.
// Listeners may receive states out of order; Seq tells them apart.
func (o *Orchestrator) unlockAndNotify() {
	o.seq++
	s := o.stateLocked()
	o.mu.Unlock()
	if o.listener != nil {
		o.listener(s)
	}
}

// Fetch selects r and loads a snapshot for it. A fetch for the selection that
// is already loading is coalesced into the running one. If the selection
// changes before the provider answers, the result is dropped and ErrSuperseded
// returned. Failures keep the previous snapshot and return a *FetchError.
func (o *Orchestrator) Fetch(ctx context.Context, r metrics.TimeRange) error {
	if err := r.Validate(); err != nil {
		fallback := metrics.ResolvePeriod(o.defaultPeriod, o.now())
		logger.Warn("Invalid time range", "error", &ConfigError{Field: "time range", Value: err, Fallback: fallback.Period})
		r = fallback
	}

	o.mu.Lock()
	if r.Key() != o.rng.Key() {
		o.generation++
	} else if o.fetching && o.fetchingGen == o.generation {
		o.mu.Unlock()
		logger.Debug("Fetch coalesced", "range", r.Key())
		return nil
	}
	o.rng = r
	gen := o.generation
	o.fetching = true
	o.fetchingGen = gen
	o.refresh.Status = StatusLoading
	o.refresh.Err = ""
	o.unlockAndNotify()

	start := time.Now()
	snap, err := o.provider.GetMetrics(ctx, r)

	o.mu.Lock()
	if o.fetchingGen == gen {
		o.fetching = false
	}
	if gen != o.generation {
		o.mu.Unlock()
		logger.Debug("Discarding superseded fetch", "range", r.Key(), "elapsed", time.Since(start))
		return ErrSuperseded
	}

	if err != nil {
		o.refresh.Status = StatusError
		o.refresh.Err = err.Error()
		o.unlockAndNotify()
		fetchErr := &FetchError{Range: r, Err: err}
		logger.Error("Metrics fetch failed", "range", r.Key(), "error", err)
		return fetchErr
	}
	if snap == nil {
		snap = &metrics.Snapshot{Range: r, GeneratedAt: o.now()}
	}

	o.snapshot = snap
	o.snapshotRange = r
	o.refresh = RefreshState{Status: StatusSuccess, LastUpdated: o.now()}
	o.unlockAndNotify()
	logger.Debug("Metrics fetched", "range", r.Key(), "elapsed", time.Since(start))
	return nil
}

// Refresh fetches the current selection. Named periods are resolved again so
// the window ends at the current time; custom ranges are kept as is.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.mu.Lock()
	r := o.rng
	o.mu.Unlock()

	if r.Period.Valid() {
		r = metrics.ResolvePeriod(r.Period, o.now())
	}
	return o.Fetch(ctx, r)
}

// SetTimeRange selects a named period and fetches it. Unknown periods fall back
// to the 24h definition.
func (o *Orchestrator) SetTimeRange(ctx context.Context, p metrics.Period) error {
	if !p.Valid() {
		logger.Warn("Invalid time range period", "error", &ConfigError{Field: "period", Value: p, Fallback: metrics.DefaultPeriod})
	}
	r := metrics.ResolvePeriod(p, o.now())
	err := o.Fetch(ctx, r)
	o.savePreferences(ctx)
	return err
}

// SetRange selects an explicit range and fetches it.
func (o *Orchestrator) SetRange(ctx context.Context, r metrics.TimeRange) error {
	return o.Fetch(ctx, r)
}

// EnableRealTime starts periodic refresh at the current interval. Any running
// refresh task is cancelled first, so at most one task exists.
func (o *Orchestrator) EnableRealTime(ctx context.Context) {
	o.timerMu.Lock()
	o.startTaskLocked()
	o.timerMu.Unlock()
	o.syncMonitoring(ctx)

	logger.Info("Real-time refresh enabled", "interval", o.State().RealTime.Interval)
	o.savePreferences(ctx)
}

// startTaskLocked requires timerMu.
func (o *Orchestrator) startTaskLocked() {
	if o.task != nil {
		o.task.Cancel()
		o.task = nil
	}

	o.mu.Lock()
	interval := o.interval
	o.realTime = true
	o.task = o.scheduler.Every(interval, o.tick)
	o.unlockAndNotify()
}

// DisableRealTime stops periodic refresh. An in-flight fetch still completes.
func (o *Orchestrator) DisableRealTime() {
	if o.stopTask() {
		logger.Info("Real-time refresh disabled")
		o.savePreferences(o.ctx)
	}
}

// stopTask cancels the refresh task, stops provider monitoring and reports
// whether a task was running.
func (o *Orchestrator) stopTask() bool {
	o.timerMu.Lock()
	if o.task == nil {
		o.timerMu.Unlock()
		return false
	}
	o.task.Cancel()
	o.task = nil

	o.mu.Lock()
	o.realTime = false
	o.unlockAndNotify()
	o.timerMu.Unlock()

	o.syncMonitoring(o.ctx)
	return true
}

// syncMonitoring starts or stops provider monitoring to match whether a
// refresh task exists. Concurrent callers settle on the latest task state.
func (o *Orchestrator) syncMonitoring(ctx context.Context) {
	o.monitorMu.Lock()
	defer o.monitorMu.Unlock()

	o.timerMu.Lock()
	want := o.task != nil
	o.timerMu.Unlock()

	if want == o.monitoring {
		return
	}
	if want {
		o.provider.StartMonitoring(ctx)
	} else {
		o.provider.StopMonitoring()
	}
	o.monitoring = want
}

// SetAutoRefreshInterval changes the real-time interval. Values outside
// [1s, 1h] fall back to 30s. A running task is replaced by one at the new
// interval.
func (o *Orchestrator) SetAutoRefreshInterval(ctx context.Context, d time.Duration) {
	d = validInterval(d)

	o.timerMu.Lock()
	o.mu.Lock()
	o.interval = d
	running := o.task != nil
	o.unlockAndNotify()
	if running {
		o.startTaskLocked()
	}
	o.timerMu.Unlock()

	o.savePreferences(ctx)
}

// tick runs on the scheduler goroutine. The refresh itself runs on its own
// goroutine so cancelling the task never waits on the provider.
func (o *Orchestrator) tick() {
	o.mu.Lock()
	busy := o.fetching
	o.mu.Unlock()
	if busy {
		logger.Debug("Skipping real-time tick, fetch in flight")
		return
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.Refresh(o.ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			logger.Debug("Real-time refresh failed", "error", err)
		}
	}()
}

// Reset stops real-time refresh, drops the snapshot and restores defaults.
// A fetch still in flight is discarded when it returns.
func (o *Orchestrator) Reset() {
	o.stopTask()

	o.mu.Lock()
	o.resetLocked()
	o.unlockAndNotify()
	logger.Info("Analytics state reset")
}

// ClearError drops the last error message. The status is left unchanged.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	o.refresh.Err = ""
	o.unlockAndNotify()
}

// SetViewMode switches the dashboard section. Unknown modes are ignored.
func (o *Orchestrator) SetViewMode(ctx context.Context, v ViewMode) {
	if !v.Valid() {
		logger.Warn("Ignoring unknown view mode", "mode", v)
		return
	}
	o.mu.Lock()
	o.viewMode = v
	o.unlockAndNotify()
	o.savePreferences(ctx)
}

// SetFilter sets a table filter value; "" or "all" clears it.
func (o *Orchestrator) SetFilter(ctx context.Context, name, value string) {
	o.mu.Lock()
	if value == "" || value == transform.FilterAll {
		delete(o.filters, name)
	} else {
		o.filters[name] = value
	}
	o.unlockAndNotify()
	o.savePreferences(ctx)
}

// Export asks the provider to serialize the selected metrics while reporting
// synthetic progress. Progress reaches 100 only after the provider returns and
// drops back to 0 after the display delay. Zero-valued options default to the
// cached snapshot's range (the selection before any snapshot), JSON and every
// category.
func (o *Orchestrator) Export(ctx context.Context, opts ExportOptions) ([]byte, error) {
	o.mu.Lock()
	if o.export.InProgress {
		o.mu.Unlock()
		return nil, ErrExportInProgress
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.Range.Validate() != nil {
		opts.Range = o.rng
		if o.snapshot != nil {
			opts.Range = o.snapshotRange
		}
	}
	if len(opts.Metrics) == 0 {
		opts.Metrics = AllCategories()
	}
	pendingReset := o.exportReset
	o.exportReset = nil
	o.export = ExportTask{InProgress: true, Percent: 0}
	o.unlockAndNotify()

	if pendingReset != nil {
		pendingReset.Cancel()
	}

	progress := o.scheduler.Every(o.exportStep, o.stepExport)
	data, err := o.provider.ExportMetrics(ctx, opts)
	progress.Cancel()

	if err != nil {
		o.mu.Lock()
		o.export = ExportTask{}
		o.unlockAndNotify()
		logger.Error("Export failed", "format", opts.Format, "error", err)
		return nil, &ExportError{Format: opts.Format, Err: err}
	}

	o.mu.Lock()
	o.export = ExportTask{InProgress: false, Percent: 100}
	o.exportReset = o.scheduler.After(o.exportDisplay, o.clearExport)
	o.unlockAndNotify()
	logger.Info("Export complete", "format", opts.Format, "bytes", len(data))
	return data, nil
}

func (o *Orchestrator) stepExport() {
	o.mu.Lock()
	if !o.export.InProgress || o.export.Percent >= exportMaxSynthetic {
		o.mu.Unlock()
		return
	}
	o.export.Percent = min(o.export.Percent+exportStepPercent, exportMaxSynthetic)
	o.unlockAndNotify()
}

func (o *Orchestrator) clearExport() {
	o.mu.Lock()
	if o.export.InProgress {
		o.mu.Unlock()
		return
	}
	o.export = ExportTask{}
	o.exportReset = nil
	o.unlockAndNotify()
}

// LoadPreferences applies stored preferences. Unset fields keep their current
// value. The selected period is applied without fetching.
func (o *Orchestrator) LoadPreferences(ctx context.Context) (Preferences, error) {
	if o.prefs == nil {
		return Preferences{}, nil
	}
	p, err := o.prefs.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load preferences", "error", err)
		return Preferences{}, err
	}

	o.mu.Lock()
	if p.ViewMode != "" {
		if p.ViewMode.Valid() {
			o.viewMode = p.ViewMode
		} else {
			logger.Warn("Ignoring stored view mode", "error", &ConfigError{Field: "view mode", Value: p.ViewMode, Fallback: o.viewMode})
		}
	}
	if p.Period != "" {
		if !p.Period.Valid() {
			logger.Warn("Ignoring stored period", "error", &ConfigError{Field: "period", Value: p.Period, Fallback: o.rng.Period})
		} else if p.Period != o.rng.Period {
			o.rng = metrics.ResolvePeriod(p.Period, o.now())
			o.generation++
			// A fetch still loading is now orphaned and will be discarded.
			if o.refresh.Status == StatusLoading {
				o.refresh.Status = StatusIdle
			}
			o.fetching = false
		}
	}
	if p.RefreshInterval != 0 {
		o.interval = validInterval(p.RefreshInterval)
	}
	for name, value := range p.Filters {
		if value != "" && value != transform.FilterAll {
			o.filters[name] = value
		}
	}
	o.unlockAndNotify()
	return p, nil
}

func (o *Orchestrator) currentPreferences() Preferences {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := Preferences{
		ViewMode:        o.viewMode,
		RefreshInterval: o.interval,
		RealTime:        o.realTime,
		Filters:         maps.Clone(o.filters),
	}
	if o.rng.Period.Valid() {
		p.Period = o.rng.Period
	}
	return p
}

func (o *Orchestrator) savePreferences(ctx context.Context) {
	if o.prefs == nil {
		return
	}
	if err := o.prefs.Save(ctx, o.currentPreferences()); err != nil {
		logger.Warn("Failed to save preferences", "error", err)
	}
}

// Close stops real-time refresh and waits for refreshes started by ticks.
func (o *Orchestrator) Close() error {
	o.stopTask()

	o.mu.Lock()
	pendingReset := o.exportReset
	o.exportReset = nil
	o.mu.Unlock()
	if pendingReset != nil {
		pendingReset.Cancel()
	}

	o.cancel()
	o.wg.Wait()
	return nil
}
