package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// fakeScheduler records tasks and runs them only when a test fires them.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	s         *fakeScheduler
	interval  time.Duration
	fn        func()
	once      bool
	cancelled bool
}

func (t *fakeTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.cancelled = true
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{s: s, interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{s: s, interval: d, fn: fn, once: true}
	s.tasks = append(s.tasks, t)
	return t
}

// active returns live periodic tasks with the given interval; zero matches any.
func (s *fakeScheduler) active(interval time.Duration) []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTask
	for _, t := range s.tasks {
		if t.cancelled || t.once {
			continue
		}
		if interval == 0 || t.interval == interval {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every live periodic task with the given interval once.
func (s *fakeScheduler) fire(interval time.Duration) {
	for _, t := range s.active(interval) {
		t.fn()
	}
}

// fireAfter runs and retires every pending one-shot task.
func (s *fakeScheduler) fireAfter() {
	s.mu.Lock()
	var due []*fakeTask
	for _, t := range s.tasks {
		if t.once && !t.cancelled {
			t.cancelled = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

// fakeProvider serves snapshots tagged with the requested range. Calls for a
// period listed in block wait until that channel is closed.
type fakeProvider struct {
	mu        sync.Mutex
	calls     []metrics.TimeRange
	block     map[metrics.Period]chan struct{}
	err       error
	started   int
	stopped   int
	exports   []ExportOptions
	exportErr error
	exportGo  chan struct{}
	entered   chan metrics.TimeRange
	stopGo    chan struct{}
	stopping  chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		block:   map[metrics.Period]chan struct{}{},
		entered: make(chan metrics.TimeRange, 1024),
	}
}

func (p *fakeProvider) GetMetrics(ctx context.Context, r metrics.TimeRange) (*metrics.Snapshot, error) {
	p.mu.Lock()
	p.calls = append(p.calls, r)
	gate := p.block[r.Period]
	err := p.err
	p.mu.Unlock()

	p.entered <- r
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &metrics.Snapshot{Range: r, GeneratedAt: r.End}, nil
}

func (p *fakeProvider) StartMonitoring(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
}

func (p *fakeProvider) StopMonitoring() {
	p.mu.Lock()
	gate, stopping := p.stopGo, p.stopping
	p.mu.Unlock()
	if stopping != nil {
		stopping <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped++
}

// blockStop makes StopMonitoring signal on the returned channel and wait
// until release is closed.
func (p *fakeProvider) blockStop() (stopping chan struct{}, release chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopping = make(chan struct{}, 1)
	p.stopGo = make(chan struct{})
	return p.stopping, p.stopGo
}

func (p *fakeProvider) ExportMetrics(ctx context.Context, opts ExportOptions) ([]byte, error) {
	p.mu.Lock()
	p.exports = append(p.exports, opts)
	gate := p.exportGo
	err := p.exportErr
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return []byte(`{"ok":true}`), nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakeProvider) setBlock(period metrics.Period) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan struct{})
	p.block[period] = ch
	return ch
}

func (p *fakeProvider) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakeProvider) monitoring() (started, stopped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started, p.stopped
}

// memoryPrefs is an in-memory PreferenceStore.
type memoryPrefs struct {
	mu    sync.Mutex
	prefs Preferences
	saves int
	err   error
}

func (m *memoryPrefs) Load(ctx context.Context) (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, m.err
}

func (m *memoryPrefs) Save(ctx context.Context, p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = p
	m.saves++
	return nil
}

func (m *memoryPrefs) get() Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

// stateRecorder collects listener notifications.
type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) listen(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}
