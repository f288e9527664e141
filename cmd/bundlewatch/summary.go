package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
)

// summaryWallets caps the wallet rows printed by summary.
const summaryWallets = 10

func newSummaryCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a metrics summary for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, period)
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "", "period to summarize (1h, 24h, 7d, 30d); default from config")
	return cmd
}

// fetchOnce opens the runtime and fetches one snapshot for period, or the
// configured default when period is empty.
func fetchOnce(ctx context.Context, period string) (*runtime, *analytics.Orchestrator, *metrics.Snapshot, error) {
	rt, err := openRuntime(ctx, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	orch, err := rt.newOrchestrator()
	if err != nil {
		rt.Close()
		return nil, nil, nil, err
	}

	r := orch.State().Range
	if period != "" {
		p, err := metrics.ParsePeriod(period)
		if err != nil {
			orch.Close()
			rt.Close()
			return nil, nil, nil, err
		}
		r = metrics.ResolvePeriod(p, time.Now())
	}

	if err := orch.Fetch(ctx, r); err != nil {
		orch.Close()
		rt.Close()
		return nil, nil, nil, fmt.Errorf("fetch %s: %w", metrics.FormatPeriod(r), err)
	}
	return rt, orch, orch.Snapshot(), nil
}

func runSummary(cmd *cobra.Command, period string) error {
	rt, orch, snap, err := fetchOnce(cmd.Context(), period)
	if err != nil {
		return err
	}
	defer rt.Close()
	defer orch.Close()

	roster, err := rt.roster.Wallets(cmd.Context())
	if err != nil {
		roster = nil
	}
	return printSummary(cmd.OutOrStdout(), snap, roster)
}

// printSummary writes the snapshot as a set of tables.
func printSummary(w io.Writer, snap *metrics.Snapshot, roster []metrics.Wallet) error {
	heading := color.New(color.Bold, color.FgCyan).SprintFunc()
	muted := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", heading("Bundle analytics"), metrics.FormatPeriod(snap.Range))
	fmt.Fprintf(w, "%s\n\n", muted(fmt.Sprintf("%s → %s · generated %s",
		snap.Range.Start.Format(time.DateTime), snap.Range.End.Format(time.DateTime), humanize.Time(snap.GeneratedAt))))

	b := snap.Bundles
	if err := printTable(w, heading("Bundles"), [][]string{
		{"Metric", "Value"},
		{"Bundles", humanize.Comma(int64(b.TotalBundles))},
		{"Success rate", rateColor(b.SuccessRate)(transform.FormatPercent(b.SuccessRate))},
		{"Successful / failed tx", fmt.Sprintf("%d / %d", b.SuccessfulTransactions, b.FailedTransactions)},
		{"Avg execution", transform.FormatDuration(b.AverageExecutionMs)},
		{"p95 execution", transform.FormatDuration(b.P95ExecutionMs)},
		{"Volume", transform.FormatCurrency(b.TotalVolume) + " BNB"},
		{"Fees", transform.FormatCurrency(b.TotalFees) + " BNB"},
		{"Profit / loss", profitColor(b.ProfitLoss)(transform.FormatSignedCurrency(b.ProfitLoss) + " BNB")},
	}); err != nil {
		return err
	}

	n := snap.Network
	g := snap.Gas
	if err := printTable(w, heading("Network & gas"), [][]string{
		{"Metric", "Value"},
		{"Status", transform.NetworkBadge(n.NetworkStatus)},
		{"Congestion", string(n.Congestion)},
		{"Avg gas", transform.FormatGwei(g.AverageGasGwei)},
		{"Gas cost", transform.FormatCurrency(g.TotalGasCostBNB) + " BNB"},
		{"Efficiency", transform.FormatPercent(g.EfficiencyPercent)},
		{"Savings", transform.FormatCurrency(g.SavingsBNB) + " BNB"},
	}); err != nil {
		return err
	}

	tx := snap.Transactions
	if err := printTable(w, heading("Transactions"), [][]string{
		{"Confirmed", "Pending", "Failed"},
		{strconv.Itoa(tx.Confirmed), strconv.Itoa(tx.Pending), strconv.Itoa(tx.Failed)},
	}); err != nil {
		return err
	}

	rows := transform.WalletTable.Sort(
		transform.WalletRows(snap.Wallets.Wallets, roster),
		transform.Sort{Field: transform.ColVolume, Direction: transform.Desc},
	)
	if len(rows) == 0 {
		fmt.Fprintln(w, muted("No wallet activity"))
		return nil
	}
	data := [][]string{{"Wallet", "Label", "Role", "Tx", "Success", "Volume", "Balance"}}
	for _, r := range rows[:min(len(rows), summaryWallets)] {
		data = append(data, []string{
			transform.ShortAddress(r.Address),
			r.Label,
			string(r.Role),
			strconv.Itoa(r.Transactions),
			transform.FormatPercent(r.SuccessRate),
			transform.FormatCurrency(r.Volume),
			transform.FormatCurrency(r.BalanceBNB),
		})
	}
	title := heading("Wallets")
	if len(rows) > summaryWallets {
		title += muted(fmt.Sprintf(" (top %d of %d by volume)", summaryWallets, len(rows)))
	}
	return printTable(w, title, data)
}

func printTable(w io.Writer, title string, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintf(w, "%s\n%s\n\n", title, out)
	return nil
}

func rateColor(rate float64) func(a ...interface{}) string {
	switch {
	case rate >= 90:
		return color.New(color.FgGreen).SprintFunc()
	case rate >= 70:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}

func profitColor(v float64) func(a ...interface{}) string {
	if v < 0 {
		return color.New(color.FgRed).SprintFunc()
	}
	return color.New(color.FgGreen).SprintFunc()
}
