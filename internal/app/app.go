// Package app is the interactive dashboard: a Bubbletea model driving an
// analytics orchestrator.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/chain"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
	"github.com/kushdevteam/bunproj-sub004/internal/ui"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/components"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/views"
)

// Minimum terminal size the dashboard renders at.
const (
	minWidth  = 80
	minHeight = 20
)

const toastDuration = 4 * time.Second

// Options configures the dashboard model.
type Options struct {
	Orchestrator   *analytics.Orchestrator
	Bridge         *StateBridge
	Roster         chain.RosterSource
	RosterInterval time.Duration
	ExportDir      string
	DateFormat     string
	PageSize       int
	Debug          bool

	// Period and RealTime override stored preferences at startup when set.
	Period   metrics.Period
	RealTime bool
}

// Model represents the main Bubbletea application model
type Model struct {
	ctx    context.Context
	orch   *analytics.Orchestrator
	bridge *StateBridge
	roster chain.RosterSource

	rosterInterval time.Duration
	exportDir      string
	dateFormat     string
	startPeriod    metrics.Period
	startRealTime  bool

	// UI state
	width  int
	height int

	// Keyboard bindings
	keys ui.KeyMap

	// UI components
	help      *components.HelpText
	statusBar *components.StatusBar
	tables    *views.Tables

	// Data
	state         analytics.State
	wallets       []metrics.Wallet
	rosterVersion int
	now           time.Time

	// Application state
	helpVisible bool
	quitting    bool
	ready       bool

	toast      string
	toastError bool
	toastID    int
}

// New creates a new application model
func New(ctx context.Context, opts Options) *Model {
	if opts.Roster == nil {
		opts.Roster = chain.NewStaticRoster(nil)
	}
	if opts.RosterInterval <= 0 {
		opts.RosterInterval = time.Minute
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02 15:04:05"
	}

	keys := ui.DefaultKeyMap()
	statusBar := components.NewStatusBar()
	statusBar.SetDateFormat(opts.DateFormat)
	statusBar.SetShowCounts(opts.Debug)

	return &Model{
		ctx:            ctx,
		orch:           opts.Orchestrator,
		bridge:         opts.Bridge,
		roster:         opts.Roster,
		rosterInterval: opts.RosterInterval,
		startPeriod:    opts.Period,
		startRealTime:  opts.RealTime,
		exportDir:      opts.ExportDir,
		dateFormat:     opts.DateFormat,
		keys:           keys,
		help: components.NewHelp(
			components.HelpSection{Title: "Navigation", Bindings: []key.Binding{keys.NextView, keys.PrevView, keys.JumpToOverview, keys.JumpToBundles, keys.JumpToWallets, keys.JumpToNetwork, keys.JumpToTransactions, keys.JumpToGas, keys.Help, keys.CloseDialog, keys.Quit}},
			components.HelpSection{Title: "Tables", Bindings: []key.Binding{keys.Up, keys.Down, keys.PageUp, keys.PageDown, keys.Sort, keys.SortDirection, keys.Filter}},
			components.HelpSection{Title: "Data", Bindings: []key.Binding{keys.Period, keys.Refresh, keys.RealTime, keys.IntervalUp, keys.IntervalDown, keys.ExportJSON, keys.ExportCSV, keys.ClearError, keys.ResetSettings}},
		),
		statusBar: statusBar,
		tables:    views.NewTables(opts.PageSize),
		state:     opts.Orchestrator.State(),
		now:       time.Now(),
	}
}

// Init loads preferences, then the first snapshot, and starts the listeners
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.bridge),
		loadPreferences(m.ctx, m.orch),
		fetchRoster(m.ctx, m.roster),
		tickStatusBar(),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.statusBar.SetSize(msg.Width)
		m.ready = true
		return m, nil

	case ui.StateMsg:
		m.state = msg.State
		m.clampTables()
		return m, waitForState(m.bridge)

	case preferencesLoadedMsg:
		cmds := []tea.Cmd{refresh(m.ctx, m.orch)}
		if m.startPeriod != "" {
			cmds[0] = selectPeriod(m.ctx, m.orch, m.startPeriod)
		}
		if msg.Prefs.RealTime || m.startRealTime {
			cmds = append(cmds, enableRealTime(m.ctx, m.orch))
		}
		return m, tea.Batch(cmds...)

	case ui.FetchDoneMsg:
		if msg.Error != nil {
			logger.Debug("Fetch finished with error", "error", msg.Error)
		}
		return m, nil

	case ui.RosterMsg:
		if msg.Error != nil {
			logger.Warn("Failed to load wallet roster", "error", msg.Error)
		} else {
			m.wallets = msg.Wallets
			m.rosterVersion++
		}
		return m, scheduleRoster(m.rosterInterval)

	case rosterDueMsg:
		return m, fetchRoster(m.ctx, m.roster)

	case ui.ExportDoneMsg:
		if msg.Error != nil {
			return m.showToast(fmt.Sprintf("Export failed: %v", msg.Error), true)
		}
		return m.showToast(fmt.Sprintf("Exported %s to %s", humanize.Bytes(uint64(msg.Bytes)), msg.Path), false)

	case ui.ToastExpiredMsg:
		if msg.ID == m.toastID {
			m.toast = ""
		}
		return m, nil

	case statusBarTickMsg:
		m.now = msg.Timestamp
		return m, tickStatusBar()
	}

	return m, nil
}

func (m Model) showToast(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	m.toastError = isErr
	return m, expireToast(m.toastID, toastDuration)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.CloseDialog):
		m.helpVisible = false
		return m, nil
	}

	if m.helpVisible {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextView):
		return m.switchView(views.Next(m.state.ViewMode))
	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(views.Prev(m.state.ViewMode))
	case key.Matches(msg, m.keys.JumpToOverview):
		return m.switchView(analytics.ViewOverview)
	case key.Matches(msg, m.keys.JumpToBundles):
		return m.switchView(analytics.ViewBundles)
	case key.Matches(msg, m.keys.JumpToWallets):
		return m.switchView(analytics.ViewWallets)
	case key.Matches(msg, m.keys.JumpToNetwork):
		return m.switchView(analytics.ViewNetwork)
	case key.Matches(msg, m.keys.JumpToTransactions):
		return m.switchView(analytics.ViewTransactions)
	case key.Matches(msg, m.keys.JumpToGas):
		return m.switchView(analytics.ViewGas)

	case key.Matches(msg, m.keys.Period):
		return m, setPeriod(m.ctx, m.orch, m.state)
	case key.Matches(msg, m.keys.Refresh):
		return m, refresh(m.ctx, m.orch)
	case key.Matches(msg, m.keys.RealTime):
		return m, toggleRealTime(m.ctx, m.orch, m.state.RealTime.Enabled)
	case key.Matches(msg, m.keys.IntervalUp):
		return m, setInterval(m.ctx, m.orch, stepInterval(m.state.RealTime.Interval, 1))
	case key.Matches(msg, m.keys.IntervalDown):
		return m, setInterval(m.ctx, m.orch, stepInterval(m.state.RealTime.Interval, -1))
	case key.Matches(msg, m.keys.ExportJSON):
		return m.export(analytics.FormatJSON)
	case key.Matches(msg, m.keys.ExportCSV):
		return m.export(analytics.FormatCSV)
	case key.Matches(msg, m.keys.ClearError):
		return m, clearError(m.orch)
	case key.Matches(msg, m.keys.ResetSettings):
		m.tables = views.NewTables(m.tables.Transactions.PageSize)
		return m, reset(m.orch)
	}

	return m.handleTableKey(msg)
}

func (m Model) switchView(v analytics.ViewMode) (tea.Model, tea.Cmd) {
	m.state.ViewMode = v
	return m, setViewMode(m.ctx, m.orch, v)
}

func (m Model) export(format analytics.ExportFormat) (tea.Model, tea.Cmd) {
	if m.state.Export.InProgress {
		return m.showToast("Export already in progress", true)
	}
	return m, exportFile(m.ctx, m.orch, format, m.exportDir, m.now)
}

// handleTableKey applies navigation keys to the table of the current view.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	table := m.tables.Active(m.state.ViewMode)
	if table == nil {
		return m, nil
	}
	ctx := m.viewContext()

	var rows, pages int
	var columns []string
	var filterName string
	var filterValues []string
	switch m.state.ViewMode {
	case analytics.ViewTransactions:
		v := m.tables.TransactionView(ctx)
		rows, pages = len(v.Records), v.PageCount
		columns = views.ColumnNames(transform.TransactionTable)
		filterName = transform.FilterStatus
		if m.state.Snapshot != nil {
			filterValues = transform.TransactionTable.DistinctValues(m.state.Snapshot.Transactions.Records, filterName)
		}
	case analytics.ViewWallets:
		v := m.tables.WalletView(ctx)
		rows, pages = len(v.Records), v.PageCount
		columns = views.ColumnNames(transform.WalletTable)
		filterName = transform.FilterRole
		var perf []metrics.WalletPerformance
		if m.state.Snapshot != nil {
			perf = m.state.Snapshot.Wallets.Wallets
		}
		filterValues = transform.WalletTable.DistinctValues(transform.WalletRows(perf, m.wallets), filterName)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		views.MoveCursor(table, -1, rows)
	case key.Matches(msg, m.keys.Down):
		views.MoveCursor(table, 1, rows)
	case key.Matches(msg, m.keys.PageUp):
		views.MovePage(table, -1, pages)
	case key.Matches(msg, m.keys.PageDown):
		views.MovePage(table, 1, pages)
	case key.Matches(msg, m.keys.Sort):
		views.NextSort(table, columns)
	case key.Matches(msg, m.keys.SortDirection):
		views.ToggleDirection(table)
	case key.Matches(msg, m.keys.Filter):
		next := views.NextFilterValue(m.state.Filters[filterName], filterValues)
		table.Page, table.Cursor = 1, 0
		return m, setFilter(m.ctx, m.orch, filterName, next)
	}
	return m, nil
}

// clampTables keeps pages valid after the snapshot or filters changed.
func (m *Model) clampTables() {
	ctx := m.viewContext()
	tx := m.tables.TransactionView(ctx)
	m.tables.Transactions.Page = transform.ClampPage(m.tables.Transactions.Page, tx.PageCount)
	views.MoveCursor(&m.tables.Transactions, 0, len(tx.Records))

	w := m.tables.WalletView(ctx)
	m.tables.Wallets.Page = transform.ClampPage(m.tables.Wallets.Page, w.PageCount)
	views.MoveCursor(&m.tables.Wallets, 0, len(w.Records))
}

func (m Model) viewContext() views.Context {
	return views.Context{
		State:         m.state,
		Roster:        m.wallets,
		RosterVersion: m.rosterVersion,
		Tables:        m.tables,
		Width:         m.width,
		Height:        m.bodyHeight(),
		Now:           m.now,
		DateFormat:    m.dateFormat,
	}
}

// bodyHeight is what remains after header, banners and status bar.
func (m Model) bodyHeight() int {
	h := m.height - 5
	if m.state.Refresh.Err != "" {
		h--
	}
	if m.toast != "" {
		h--
	}
	return max(h, 3)
}

// View renders the application UI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.width < minWidth || m.height < minHeight {
		return styles.WarningStyle.Render(fmt.Sprintf("Terminal too small (%dx%d), need at least %dx%d", m.width, m.height, minWidth, minHeight))
	}
	if m.helpVisible {
		return m.help.View()
	}

	parts := []string{m.renderHeader()}
	if m.state.Refresh.Err != "" {
		parts = append(parts, styles.ErrorStyle.Render(styles.Truncate("✕ "+ErrorSummary(m.state.Refresh.Err)+"  (x to dismiss)", m.width)))
	}
	if m.toast != "" {
		style := styles.SuccessStyle
		if m.toastError {
			style = styles.ErrorStyle
		}
		parts = append(parts, style.Render(styles.Truncate(m.toast, m.width)))
	}

	body := lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(views.Render(m.viewContext()))
	parts = append(parts, body)

	m.statusBar.SetState(m.state)
	m.statusBar.SetTimestamp(m.now)
	parts = append(parts, m.statusBar.View(), components.ShortHelp(m.keys.ShortHelp()))

	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("bundlewatch")
	return title + "  " + views.Tabs(m.state.ViewMode)
}
