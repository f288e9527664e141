package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/chain"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/ui"
)

// StateBridge carries orchestrator state into the Bubbletea loop. Only the
// latest state is kept; older ones are dropped when the UI falls behind or
// when they arrive after a newer one.
type StateBridge struct {
	mu   sync.Mutex
	last uint64
	ch   chan analytics.State
}

// NewStateBridge creates an empty bridge.
func NewStateBridge() *StateBridge {
	return &StateBridge{ch: make(chan analytics.State, 1)}
}

// Publish is an analytics.Listener. It never blocks.
func (b *StateBridge) Publish(st analytics.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st.Seq < b.last {
		return
	}
	b.last = st.Seq

	for {
		select {
		case b.ch <- st:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// waitForState blocks until the next state arrives.
func waitForState(b *StateBridge) tea.Cmd {
	return func() tea.Msg {
		return ui.StateMsg{State: <-b.ch}
	}
}

// tickStatusBar returns a command that ticks every second
func tickStatusBar() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusBarTickMsg{Timestamp: t}
	})
}

func loadPreferences(ctx context.Context, o *analytics.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		prefs, err := o.LoadPreferences(ctx)
		return preferencesLoadedMsg{Prefs: prefs, Err: err}
	}
}

func fetchDone(err error) tea.Msg {
	if errors.Is(err, analytics.ErrSuperseded) {
		err = nil
	}
	return ui.FetchDoneMsg{Error: err}
}

func refresh(ctx context.Context, o *analytics.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return fetchDone(o.Refresh(ctx))
	}
}

func setPeriod(ctx context.Context, o *analytics.Orchestrator, st analytics.State) tea.Cmd {
	next := st.Range.Period.Next()
	return func() tea.Msg {
		return fetchDone(o.SetTimeRange(ctx, next))
	}
}

func selectPeriod(ctx context.Context, o *analytics.Orchestrator, p metrics.Period) tea.Cmd {
	return func() tea.Msg {
		return fetchDone(o.SetTimeRange(ctx, p))
	}
}

func toggleRealTime(ctx context.Context, o *analytics.Orchestrator, enabled bool) tea.Cmd {
	return func() tea.Msg {
		if enabled {
			o.DisableRealTime()
		} else {
			o.EnableRealTime(ctx)
		}
		return nil
	}
}

func enableRealTime(ctx context.Context, o *analytics.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		o.EnableRealTime(ctx)
		return nil
	}
}

// Auto-refresh intervals offered by +/-.
var refreshSteps = []time.Duration{
	5 * time.Second, 10 * time.Second, 15 * time.Second, 30 * time.Second,
	time.Minute, 2 * time.Minute, 5 * time.Minute, 10 * time.Minute, 30 * time.Minute, time.Hour,
}

// stepInterval moves current to the neighbouring entry of refreshSteps.
func stepInterval(current time.Duration, delta int) time.Duration {
	idx := len(refreshSteps) - 1
	for i, d := range refreshSteps {
		if d >= current {
			idx = i
			break
		}
	}
	idx = max(0, min(idx+delta, len(refreshSteps)-1))
	return refreshSteps[idx]
}

func setInterval(ctx context.Context, o *analytics.Orchestrator, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		o.SetAutoRefreshInterval(ctx, d)
		return nil
	}
}

func setViewMode(ctx context.Context, o *analytics.Orchestrator, v analytics.ViewMode) tea.Cmd {
	return func() tea.Msg {
		o.SetViewMode(ctx, v)
		return nil
	}
}

func setFilter(ctx context.Context, o *analytics.Orchestrator, name, value string) tea.Cmd {
	return func() tea.Msg {
		o.SetFilter(ctx, name, value)
		return nil
	}
}

func clearError(o *analytics.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		o.ClearError()
		return nil
	}
}

func reset(o *analytics.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		o.Reset()
		return nil
	}
}

// exportFile asks the orchestrator for an export and writes it under dir.
func exportFile(ctx context.Context, o *analytics.Orchestrator, format analytics.ExportFormat, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		data, err := o.Export(ctx, analytics.ExportOptions{Format: format})
		if err != nil {
			return ui.ExportDoneMsg{Format: format, Error: err}
		}

		name := fmt.Sprintf("bundlewatch-%s.%s", now.Format("20060102-150405"), format)
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ui.ExportDoneMsg{Format: format, Error: fmt.Errorf("create export dir: %w", err)}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ui.ExportDoneMsg{Format: format, Error: fmt.Errorf("write export: %w", err)}
		}
		logger.Info("Export written", "path", path, "bytes", len(data))
		return ui.ExportDoneMsg{Format: format, Path: path, Bytes: len(data)}
	}
}

func fetchRoster(ctx context.Context, src chain.RosterSource) tea.Cmd {
	return func() tea.Msg {
		wallets, err := src.Wallets(ctx)
		return ui.RosterMsg{Wallets: wallets, FetchedAt: time.Now(), Error: err}
	}
}

func scheduleRoster(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return rosterDueMsg{}
	})
}

func expireToast(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ui.ToastExpiredMsg{ID: id}
	})
}
