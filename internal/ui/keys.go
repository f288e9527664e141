package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard bindings for the dashboard
type KeyMap struct {
	// Navigation
	Quit        key.Binding
	Help        key.Binding
	CloseDialog key.Binding
	NextView    key.Binding
	PrevView    key.Binding

	// View jumping (1-6)
	JumpToOverview     key.Binding
	JumpToBundles      key.Binding
	JumpToWallets      key.Binding
	JumpToNetwork      key.Binding
	JumpToTransactions key.Binding
	JumpToGas          key.Binding

	// Table navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Table actions
	Sort          key.Binding
	SortDirection key.Binding
	Filter        key.Binding

	// Data
	Period        key.Binding
	RealTime      key.Binding
	Refresh       key.Binding
	IntervalUp    key.Binding
	IntervalDown  key.Binding
	ExportJSON    key.Binding
	ExportCSV     key.Binding
	ClearError    key.Binding
	ResetSettings key.Binding
}

// DefaultKeyMap returns the default keyboard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "help"),
		),
		CloseDialog: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close dialog"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous view"),
		),

		// View jumping
		JumpToOverview: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "overview"),
		),
		JumpToBundles: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "bundles"),
		),
		JumpToWallets: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "wallets"),
		),
		JumpToNetwork: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "network"),
		),
		JumpToTransactions: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "transactions"),
		),
		JumpToGas: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "gas"),
		),

		// Table navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "left", "ctrl+u"),
			key.WithHelp("←/pgup", "previous page"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "right", "ctrl+d"),
			key.WithHelp("→/pgdn", "next page"),
		),

		// Table actions
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		SortDirection: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort direction"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle filter"),
		),

		// Data
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next period"),
		),
		RealTime: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle auto-refresh"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		IntervalUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "slower refresh"),
		),
		IntervalDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "faster refresh"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export json"),
		),
		ExportCSV: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export csv"),
		),
		ClearError: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss error"),
		),
		ResetSettings: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset"),
		),
	}
}

// ShortHelp returns bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Period, k.RealTime, k.Refresh, k.ExportJSON, k.Quit}
}

// FullHelp returns bindings grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.JumpToOverview, k.JumpToBundles, k.JumpToWallets, k.JumpToNetwork, k.JumpToTransactions, k.JumpToGas},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Sort, k.SortDirection, k.Filter},
		{k.Period, k.RealTime, k.Refresh, k.IntervalUp, k.IntervalDown, k.ExportJSON, k.ExportCSV, k.ClearError, k.ResetSettings, k.Quit},
	}
}
