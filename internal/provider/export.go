package provider

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// exportDocument is the JSON export shape; unselected categories are omitted.
type exportDocument struct {
	Range        metrics.TimeRange            `json:"range"`
	GeneratedAt  time.Time                    `json:"generated_at"`
	Bundles      *metrics.BundlePerformance   `json:"bundles,omitempty"`
	Wallets      *metrics.WalletAnalytics     `json:"wallets,omitempty"`
	Network      *metrics.NetworkStats        `json:"network,omitempty"`
	Transactions *metrics.TransactionTracking `json:"transactions,omitempty"`
	Gas          *metrics.GasAnalytics        `json:"gas,omitempty"`
}

// Encode serializes the selected categories of snap in opts.Format.
func Encode(snap *metrics.Snapshot, opts analytics.ExportOptions) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("no snapshot to export")
	}
	switch opts.Format {
	case analytics.FormatJSON, "":
		return encodeJSON(snap, opts)
	case analytics.FormatCSV:
		return encodeCSV(snap, opts)
	default:
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
}

func encodeJSON(snap *metrics.Snapshot, opts analytics.ExportOptions) ([]byte, error) {
	doc := exportDocument{Range: snap.Range, GeneratedAt: snap.GeneratedAt}
	if opts.Includes(analytics.CategoryBundles) {
		doc.Bundles = &snap.Bundles
	}
	if opts.Includes(analytics.CategoryWallets) {
		doc.Wallets = &snap.Wallets
	}
	if opts.Includes(analytics.CategoryNetwork) {
		doc.Network = &snap.Network
	}
	if opts.Includes(analytics.CategoryTransactions) {
		doc.Transactions = &snap.Transactions
	}
	if opts.Includes(analytics.CategoryGas) {
		doc.Gas = &snap.Gas
	}
	return json.MarshalIndent(doc, "", "  ")
}

// encodeCSV writes one table per selected category, each introduced by a
// "# <category>" row and separated by an empty line.
func encodeCSV(snap *metrics.Snapshot, opts analytics.ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	first := true
	section := func(c analytics.Category, header []string, rows [][]string) {
		if !opts.Includes(c) {
			return
		}
		if !first {
			w.Write([]string{""})
		}
		first = false
		w.Write([]string{"# " + string(c)})
		w.Write(header)
		w.WriteAll(rows)
	}

	b := snap.Bundles
	section(analytics.CategoryBundles, []string{"metric", "value"}, [][]string{
		{"total_bundles", strconv.Itoa(b.TotalBundles)},
		{"successful_transactions", strconv.Itoa(b.SuccessfulTransactions)},
		{"failed_transactions", strconv.Itoa(b.FailedTransactions)},
		{"success_rate", ff(b.SuccessRate)},
		{"average_execution_ms", ff(b.AverageExecutionMs)},
		{"p95_execution_ms", ff(b.P95ExecutionMs)},
		{"total_volume", ff(b.TotalVolume)},
		{"total_fees", ff(b.TotalFees)},
		{"profit_loss", ff(b.ProfitLoss)},
		{"bundles_with_stealth", strconv.Itoa(b.Stealth.BundlesWithStealth)},
		{"average_stealth_score", ff(b.Stealth.AverageScore)},
		{"mev_protected_transactions", strconv.Itoa(b.MEV.ProtectedTransactions)},
		{"mev_attacks_blocked", strconv.Itoa(b.MEV.AttacksBlocked)},
	})

	var walletRows [][]string
	for _, wp := range snap.Wallets.Wallets {
		walletRows = append(walletRows, []string{
			wp.Address, wp.Label, string(wp.Role), strconv.Itoa(wp.Transactions),
			ff(wp.SuccessRate), ff(wp.Volume), ff(wp.GasSpentBNB), ff(wp.BalanceBNB), ts(wp.LastActive),
		})
	}
	section(analytics.CategoryWallets,
		[]string{"address", "label", "role", "transactions", "success_rate", "volume", "gas_spent_bnb", "balance_bnb", "last_active"},
		walletRows)

	var gasHistory [][]string
	for _, p := range snap.Network.GasPriceHistory {
		gasHistory = append(gasHistory, []string{ts(p.Timestamp), ff(p.Value)})
	}
	section(analytics.CategoryNetwork, []string{"timestamp", "gas_price_gwei"}, gasHistory)

	var txRows [][]string
	for _, r := range snap.Transactions.Records {
		txRows = append(txRows, []string{
			r.ID, r.BundleID, string(r.BundleType), r.Wallet, r.TxHash, string(r.Status),
			ff(r.AmountBNB), strconv.FormatUint(r.GasUsed, 10), ff(r.GasPriceGwei),
			strconv.FormatInt(r.ExecutionTimeMs, 10), ts(r.Timestamp), r.Error,
		})
	}
	section(analytics.CategoryTransactions,
		[]string{"id", "bundle_id", "bundle_type", "wallet", "tx_hash", "status", "amount_bnb", "gas_used", "gas_price_gwei", "execution_time_ms", "timestamp", "error"},
		txRows)

	var gasRows [][]string
	for _, s := range snap.Gas.Samples {
		gasRows = append(gasRows, []string{ts(s.Timestamp), ff(s.Estimated), ff(s.Actual)})
	}
	section(analytics.CategoryGas, []string{"timestamp", "estimated_gwei", "actual_gwei"}, gasRows)

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
