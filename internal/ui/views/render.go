package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/components"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// Render draws the body of the current view.
func Render(c Context) string {
	snap := c.State.Snapshot
	if snap == nil {
		return renderPlaceholder(c)
	}

	switch c.State.ViewMode {
	case analytics.ViewBundles:
		return renderBundles(c, snap)
	case analytics.ViewWallets:
		return renderWallets(c, snap)
	case analytics.ViewNetwork:
		return renderNetwork(c, snap)
	case analytics.ViewTransactions:
		return renderTransactions(c, snap)
	case analytics.ViewGas:
		return renderGas(c, snap)
	default:
		return renderOverview(c, snap)
	}
}

// Tabs renders the view selector line.
func Tabs(current analytics.ViewMode) string {
	modes := analytics.ViewModes()
	tabs := make([]string, len(modes))
	for i, m := range modes {
		label := fmt.Sprintf("%d %s", i+1, Title(m))
		if m == current {
			tabs[i] = styles.ActiveTabStyle.Render(label)
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderPlaceholder(c Context) string {
	msg := "No data yet. Press r to refresh."
	if c.State.Fetching {
		msg = "Loading " + metrics.FormatPeriod(c.State.Range) + "…"
	}
	return lipgloss.Place(c.Width, max(c.Height, 3), lipgloss.Center, lipgloss.Center, styles.MutedStyle.Render(msg))
}

func cards(c Context, cs ...components.Card) string {
	p := components.NewMetricsPanel()
	p.SetWidth(c.Width)
	p.SetCards(cs)
	return p.View()
}

func chart(c Context, title string, points []metrics.DataPoint, color asciigraph.AnsiColor, height int) string {
	cfg := components.DefaultTimeSeriesConfig()
	cfg.Title = title
	cfg.Period = metrics.FormatPeriod(c.State.Range)
	cfg.Width = c.Width
	cfg.Height = height
	cfg.Color = color
	ts := components.NewTimeSeriesChart(cfg)
	ts.SetData(metrics.Values(points))
	return ts.View()
}

func successColor(rate float64) lipgloss.Color {
	switch {
	case rate >= 90:
		return styles.ColorSuccess
	case rate >= 70:
		return styles.ColorWarning
	default:
		return styles.ColorError
	}
}

func profitColor(v float64) lipgloss.Color {
	if v < 0 {
		return styles.ColorError
	}
	return styles.ColorSuccess
}

func renderOverview(c Context, snap *metrics.Snapshot) string {
	b := snap.Bundles
	trend := transform.ClassifyTrend(metrics.Values(b.SuccessRateHistory))

	top := cards(c,
		components.Card{Label: "Bundles", Value: transform.FormatCompact(float64(b.TotalBundles))},
		components.Card{Label: "Success Rate", Value: transform.FormatPercent(b.SuccessRate) + " " + trend.Arrow(), Color: successColor(b.SuccessRate)},
		components.Card{Label: "Avg Execution", Value: transform.FormatDuration(b.AverageExecutionMs)},
		components.Card{Label: "Volume", Value: transform.FormatCurrency(b.TotalVolume)},
		components.Card{Label: "P/L", Value: transform.FormatSignedCurrency(b.ProfitLoss), Color: profitColor(b.ProfitLoss)},
	)

	chartHeight := max((c.Height-8)/2, 5)
	dist := components.NewBarChart(components.BarChartConfig{
		Title:          "Bundle Types",
		Width:          c.Width,
		Height:         len(b.TypeDistribution),
		MaxLabelWidth:  12,
		ShowValues:     true,
		ValueFormatter: transform.FormatPercent,
	})
	dist.SetItems(components.ShareItems(b.TypeDistribution))

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		chart(c, "Success Rate %", b.SuccessRateHistory, asciigraph.Green, chartHeight),
		"",
		dist.View(),
	)
}

func renderBundles(c Context, snap *metrics.Snapshot) string {
	b := snap.Bundles
	top := cards(c,
		components.Card{Label: "Successful Tx", Value: humanize.Comma(int64(b.SuccessfulTransactions)), Color: styles.ColorSuccess},
		components.Card{Label: "Failed Tx", Value: humanize.Comma(int64(b.FailedTransactions)), Color: styles.ColorError},
		components.Card{Label: "Avg / Smoothed", Value: transform.FormatDuration(b.AverageExecutionMs), Hint: "ewma " + transform.FormatDuration(b.SmoothedExecutionMs)},
		components.Card{Label: "p95 Execution", Value: transform.FormatDuration(b.P95ExecutionMs)},
		components.Card{Label: "Fees", Value: transform.FormatCurrency(b.TotalFees)},
	)

	var sb strings.Builder
	sb.WriteString(styles.SectionStyle.Render("Stealth"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %d\n", styles.Pad("Bundles with stealth", 24), b.Stealth.BundlesWithStealth)
	fmt.Fprintf(&sb, "%s %.1f\n", styles.Pad("Average score", 24), b.Stealth.AverageScore)
	fmt.Fprintf(&sb, "%s %d\n", styles.Pad("Randomized", 24), b.Stealth.RandomizationUsage)
	fmt.Fprintf(&sb, "%s %d\n\n", styles.Pad("Multi-RPC", 24), b.Stealth.MultiRPCUsage)

	sb.WriteString(styles.SectionStyle.Render("MEV Protection"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %d\n", styles.Pad("Protected transactions", 24), b.MEV.ProtectedTransactions)
	fmt.Fprintf(&sb, "%s %d\n", styles.Pad("Attacks blocked", 24), b.MEV.AttacksBlocked)
	fmt.Fprintf(&sb, "%s %.1f\n", styles.Pad("Average protection", 24), b.MEV.AverageProtectionScore)
	fmt.Fprintf(&sb, "%s %d", styles.Pad("Frontrun attempts", 24), b.MEV.FrontrunAttemptsDetected)

	half := max(c.Width/2-2, 30)
	dist := components.NewBarChart(components.BarChartConfig{
		Title:          "Type Distribution",
		Width:          half,
		Height:         len(b.TypeDistribution),
		MaxLabelWidth:  12,
		ShowValues:     true,
		ValueFormatter: transform.FormatPercent,
	})
	dist.SetItems(components.ShareItems(b.TypeDistribution))

	left := lipgloss.NewStyle().Width(half).Render(sb.String())
	return lipgloss.JoinVertical(lipgloss.Left, top, "", lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", dist.View()))
}

func renderWallets(c Context, snap *metrics.Snapshot) string {
	view := c.Tables.WalletView(c)
	state := c.Tables.Wallets

	header := fmt.Sprintf("%d active · top performer %s · role %s",
		snap.Wallets.ActiveCount,
		orDash(transform.ShortAddress(snap.Wallets.TopPerformer)),
		filterLabel(c.State.Filters, transform.FilterRole))

	table := components.NewTable([]components.Column{
		{Title: "Address", Width: 13},
		{Title: "Label"},
		{Title: "Role"},
		{Title: "Tx", Right: true},
		{Title: "Success", Right: true},
		{Title: "Volume", Right: true},
		{Title: "Gas", Right: true},
		{Title: "Balance", Right: true},
		{Title: "Last Active"},
	})
	rows := make([][]string, len(view.Records))
	for i, w := range view.Records {
		rows[i] = []string{
			transform.ShortAddress(w.Address),
			w.Label,
			string(w.Role),
			humanize.Comma(int64(w.Transactions)),
			transform.FormatPercent(w.SuccessRate),
			transform.FormatCurrency(w.Volume),
			transform.FormatCurrency(w.GasSpentBNB),
			transform.FormatCurrency(w.BalanceBNB),
			transform.FormatAgo(w.LastActive, c.Now),
		}
	}
	table.SetRows(rows, nil)
	table.SetWidth(c.Width)
	table.SetSelected(state.Cursor)
	table.SetSortIndicator(columnIndex(ColumnNames(transform.WalletTable), view.Sort.Field), view.Sort.Direction == transform.Asc)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.MutedStyle.Render(header),
		"",
		table.View(),
		"",
		pageFooter(view.Page, view.PageCount, view.Filtered, view.Total),
	)
}

func renderNetwork(c Context, snap *metrics.Snapshot) string {
	n := snap.Network
	status, statusColor := "Disconnected", styles.ColorError
	if n.Connected {
		status, statusColor = "Connected", styles.ColorSuccess
	}
	block := "-"
	if n.BlockNumber > 0 {
		block = humanize.Comma(int64(n.BlockNumber))
	}

	top := cards(c,
		components.Card{Label: "Status", Value: status, Color: statusColor, Hint: transform.FormatAgo(n.ObservedAt, c.Now)},
		components.Card{Label: "Block", Value: block},
		components.Card{Label: "Gas Price", Value: transform.FormatGwei(n.GasPriceGwei)},
		components.Card{Label: "Average Gas", Value: transform.FormatGwei(n.AverageGasGwei)},
		components.Card{Label: "Congestion", Value: string(n.Congestion), Color: styles.CongestionColor(n.Congestion)},
	)

	spark := components.RenderTrend(metrics.Values(n.GasPriceHistory), components.SparklineConfig{Width: 24, Color: styles.ColorAccent})
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		chart(c, "Gas Price (gwei)", n.GasPriceHistory, asciigraph.Cyan, max(c.Height-8, 6)),
		"",
		styles.MutedStyle.Render("trend ")+spark,
	)
}

func renderTransactions(c Context, snap *metrics.Snapshot) string {
	view := c.Tables.TransactionView(c)
	state := c.Tables.Transactions
	t := snap.Transactions

	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(styles.TxStatusColor(metrics.TxConfirmed)).Render(fmt.Sprintf("%d confirmed", t.Confirmed)),
		"  ",
		lipgloss.NewStyle().Foreground(styles.TxStatusColor(metrics.TxPending)).Render(fmt.Sprintf("%d pending", t.Pending)),
		"  ",
		lipgloss.NewStyle().Foreground(styles.TxStatusColor(metrics.TxFailed)).Render(fmt.Sprintf("%d failed", t.Failed)),
		"  ",
		styles.MutedStyle.Render(fmt.Sprintf("status %s · type %s",
			filterLabel(c.State.Filters, transform.FilterStatus),
			filterLabel(c.State.Filters, transform.FilterBundleType))),
	)

	table := components.NewTable([]components.Column{
		{Title: "Time"},
		{Title: "Bundle", Width: 10},
		{Title: "Type"},
		{Title: "Wallet", Width: 13},
		{Title: "Status"},
		{Title: "Amount", Right: true},
		{Title: "Gas", Right: true},
		{Title: "Exec", Right: true},
		{Title: "Error"},
	})
	rows := make([][]string, len(view.Records))
	colors := make([]lipgloss.Color, len(view.Records))
	for i, r := range view.Records {
		rows[i] = []string{
			r.Timestamp.Local().Format(c.dateFormat()),
			r.BundleID,
			string(r.BundleType),
			transform.ShortAddress(r.Wallet),
			string(r.Status),
			transform.FormatCurrency(r.AmountBNB),
			transform.FormatGwei(r.GasPriceGwei),
			transform.FormatDuration(float64(r.ExecutionTimeMs)),
			r.Error,
		}
		colors[i] = styles.TxStatusColor(r.Status)
	}
	table.SetRows(rows, colors)
	table.SetWidth(c.Width)
	table.SetSelected(state.Cursor)
	table.SetSortIndicator(columnIndex(ColumnNames(transform.TransactionTable), view.Sort.Field), view.Sort.Direction == transform.Asc)

	return lipgloss.JoinVertical(lipgloss.Left,
		summary,
		"",
		table.View(),
		"",
		pageFooter(view.Page, view.PageCount, view.Filtered, view.Total),
	)
}

func renderGas(c Context, snap *metrics.Snapshot) string {
	g := snap.Gas
	effColor := styles.ColorSuccess
	if g.EfficiencyPercent < 90 {
		effColor = styles.ColorWarning
	}

	top := cards(c,
		components.Card{Label: "Average Gas", Value: transform.FormatGwei(g.AverageGasGwei)},
		components.Card{Label: "Total Gas Cost", Value: transform.FormatCurrency(g.TotalGasCostBNB)},
		components.Card{Label: "Efficiency", Value: transform.FormatPercent(g.EfficiencyPercent), Color: effColor},
		components.Card{Label: "Savings", Value: transform.FormatSignedCurrency(g.SavingsBNB), Color: profitColor(g.SavingsBNB)},
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		styles.SectionStyle.Render("Estimated vs Actual"),
		components.RenderGasComparison(g.Samples, c.Width, max(c.Height-8, 2), c.bucketFormat()),
	)
}

// columnIndex finds field among the table's columns, which are displayed in
// registry order.
func columnIndex(names []string, field string) int {
	for i, name := range names {
		if name == field {
			return i
		}
	}
	return -1
}

func filterLabel(filters map[string]string, name string) string {
	if v := filters[name]; v != "" {
		return v
	}
	return transform.FilterAll
}

func pageFooter(page, pages, filtered, total int) string {
	return styles.MutedStyle.Render(fmt.Sprintf("page %d/%d · %d of %d rows", page, max(pages, 1), filtered, total))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
