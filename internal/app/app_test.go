package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/provider"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
	"github.com/kushdevteam/bunproj-sub004/internal/ui"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *analytics.Orchestrator) {
	t.Helper()
	ctx := context.Background()

	local := provider.NewLocal(provider.WithLocalClock(func() time.Time { return testNow }))
	_, err := local.Record(ctx,
		metrics.BundleExecution{ID: "b1", Type: metrics.BundleBuy, Timestamp: testNow.Add(-time.Hour), Transactions: []metrics.TransactionResult{
			{ID: "t1", WalletAddress: "0xaaaa", Status: metrics.TxConfirmed, AmountBNB: 1},
			{ID: "t2", WalletAddress: "0xbbbb", Status: metrics.TxFailed, AmountBNB: 1},
		}},
	)
	require.NoError(t, err)

	bridge := NewStateBridge()
	orch, err := analytics.New(local,
		analytics.WithClock(func() time.Time { return testNow }),
		analytics.WithListener(bridge.Publish),
	)
	require.NoError(t, err)
	t.Cleanup(func() { orch.Close() })

	m := New(ctx, Options{Orchestrator: orch, Bridge: bridge, ExportDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), orch
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestViewBeforeData(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "bundlewatch")
	assert.Contains(t, out, "1 Overview")
	assert.Contains(t, out, "No data yet")
}

func TestTooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, next.(Model).View(), "Terminal too small")
}

func TestSwitchViewUpdatesOrchestrator(t *testing.T) {
	m, orch := newTestModel(t)

	m, cmd := press(m, "5")
	assert.Equal(t, analytics.ViewTransactions, m.state.ViewMode)
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, analytics.ViewTransactions, orch.State().ViewMode)

	m, cmd = press(m, "tab")
	assert.Equal(t, analytics.ViewGas, m.state.ViewMode)
	cmd()
	assert.Equal(t, analytics.ViewGas, orch.State().ViewMode)
}

func TestRefreshAndStateMsg(t *testing.T) {
	m, orch := newTestModel(t)

	_, cmd := press(m, "r")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, ui.FetchDoneMsg{}, msg)

	next, follow := m.Update(ui.StateMsg{State: orch.State()})
	m = next.(Model)
	assert.NotNil(t, follow)
	require.NotNil(t, m.state.Snapshot)
	assert.Equal(t, 1, m.state.Snapshot.Bundles.TotalBundles)
	assert.Contains(t, m.View(), "Bundle Types")
}

func TestStartupOverrides(t *testing.T) {
	m, orch := newTestModel(t)
	m.startPeriod = metrics.Period7d
	m.startRealTime = true

	_, cmd := m.Update(preferencesLoadedMsg{})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c != nil {
			c()
		}
	}

	st := orch.State()
	assert.Equal(t, metrics.Period7d, st.Range.Period)
	assert.True(t, st.RealTime.Enabled)
	orch.DisableRealTime()
}

func TestFilterCyclesStatus(t *testing.T) {
	m, orch := newTestModel(t)
	require.NoError(t, orch.Refresh(context.Background()))
	orch.SetViewMode(context.Background(), analytics.ViewTransactions)

	next, _ := m.Update(ui.StateMsg{State: orch.State()})
	m = next.(Model)

	_, cmd := press(m, "f")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, string(metrics.TxConfirmed), orch.State().Filters[transform.FilterStatus])
}

func TestSortKeys(t *testing.T) {
	m, orch := newTestModel(t)
	require.NoError(t, orch.Refresh(context.Background()))
	orch.SetViewMode(context.Background(), analytics.ViewTransactions)
	next, _ := m.Update(ui.StateMsg{State: orch.State()})
	m = next.(Model)

	m, _ = press(m, "s")
	assert.Equal(t, transform.ColBundle, m.tables.Transactions.Sort.Field)
	m, _ = press(m, "S")
	assert.Equal(t, transform.Asc, m.tables.Transactions.Sort.Direction)
}

func TestExportWritesFile(t *testing.T) {
	m, orch := newTestModel(t)
	require.NoError(t, orch.Refresh(context.Background()))

	_, cmd := press(m, "E")
	require.NotNil(t, cmd)
	done, ok := cmd().(ui.ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Error)
	assert.True(t, strings.HasSuffix(done.Path, ".csv"))

	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# bundles")

	next, _ := m.Update(done)
	assert.Contains(t, next.(Model).toast, "Exported")
}

func TestToastExpiry(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(ui.ExportDoneMsg{Error: errors.New("disk full")})
	m = next.(Model)
	assert.True(t, m.toastError)

	next, _ = m.Update(ui.ToastExpiredMsg{ID: m.toastID - 1})
	assert.NotEmpty(t, next.(Model).toast)
	next, _ = m.Update(ui.ToastExpiredMsg{ID: m.toastID})
	assert.Empty(t, next.(Model).toast)
}

func TestStateBridgeKeepsLatest(t *testing.T) {
	b := NewStateBridge()
	b.Publish(analytics.State{ViewMode: analytics.ViewBundles})
	b.Publish(analytics.State{ViewMode: analytics.ViewGas})

	msg := waitForState(b)().(ui.StateMsg)
	assert.Equal(t, analytics.ViewGas, msg.State.ViewMode)
}

func TestStateBridgeDropsOlderSeq(t *testing.T) {
	b := NewStateBridge()
	b.Publish(analytics.State{Seq: 3, Refresh: analytics.RefreshState{Status: analytics.StatusSuccess}})
	b.Publish(analytics.State{Seq: 2, Refresh: analytics.RefreshState{Status: analytics.StatusLoading}})

	msg := waitForState(b)().(ui.StateMsg)
	assert.Equal(t, uint64(3), msg.State.Seq)
	assert.Equal(t, analytics.StatusSuccess, msg.State.Refresh.Status)

	// A state older than one already consumed is dropped too.
	b.Publish(analytics.State{Seq: 1})
	b.Publish(analytics.State{Seq: 4, ViewMode: analytics.ViewGas})
	msg = waitForState(b)().(ui.StateMsg)
	assert.Equal(t, uint64(4), msg.State.Seq)
}

func TestStateBridgeSlowListenerKeepsNewest(t *testing.T) {
	ctx := context.Background()
	local := provider.NewLocal(provider.WithLocalClock(func() time.Time { return testNow }))
	bridge := NewStateBridge()

	entered := make(chan struct{})
	var once sync.Once
	listener := func(st analytics.State) {
		// Hold back the view change captured before the refresh started.
		if st.ViewMode == analytics.ViewGas && st.Refresh.Status == analytics.StatusIdle {
			once.Do(func() { close(entered) })
			time.Sleep(50 * time.Millisecond)
		}
		bridge.Publish(st)
	}
	orch, err := analytics.New(local,
		analytics.WithClock(func() time.Time { return testNow }),
		analytics.WithListener(listener),
	)
	require.NoError(t, err)
	t.Cleanup(func() { orch.Close() })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		orch.SetViewMode(ctx, analytics.ViewGas)
	}()
	<-entered
	require.NoError(t, orch.Refresh(ctx))
	wg.Wait()

	require.Equal(t, analytics.StatusSuccess, orch.State().Refresh.Status)
	msg := waitForState(bridge)().(ui.StateMsg)
	assert.Equal(t, analytics.StatusSuccess, msg.State.Refresh.Status)
	assert.Equal(t, orch.State().Seq, msg.State.Seq)
}

func TestStepInterval(t *testing.T) {
	assert.Equal(t, time.Minute, stepInterval(30*time.Second, 1))
	assert.Equal(t, 15*time.Second, stepInterval(30*time.Second, -1))
	assert.Equal(t, 5*time.Second, stepInterval(time.Second, -1))
	assert.Equal(t, time.Hour, stepInterval(time.Hour, 1))
	// Off-grid values snap to the next step up before moving.
	assert.Equal(t, 2*time.Minute, stepInterval(45*time.Second, 1))
}

func TestFormatConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&provider.APIError{StatusCode: 401, Message: "bad key"}, "Backend rejected the request (401)"},
		{&provider.APIError{StatusCode: 404, Message: "nope"}, "Analytics endpoint not found"},
		{errors.New("dial tcp 127.0.0.1:5000: connect: connection refused"), "Connection refused"},
		{errors.New("context deadline exceeded"), "Request timeout"},
		{errors.New("database is locked"), "History database is locked"},
		{errors.New("NOAUTH Authentication required"), "Redis authentication failed"},
		{errors.New("something odd"), "Metrics provider error"},
	}
	for _, tt := range tests {
		assert.Contains(t, FormatConnectionError(tt.err), tt.want, tt.err.Error())
	}
}

func TestErrorSummary(t *testing.T) {
	assert.Equal(t, "something odd", ErrorSummary("something odd"))
	assert.True(t, strings.HasPrefix(ErrorSummary("connection refused"), "Connection refused:"))
}
