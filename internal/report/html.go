// Package report renders a self-contained HTML dashboard for one snapshot.
// Charts are inline SVG built from transformer output.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
)

// MaxTableRows caps the rows shown in each report table.
const MaxTableRows = 50

// palette cycles through pie segment colours.
var palette = []string{"#3b82f6", "#22c55e", "#f59e0b", "#ef4444", "#8b5cf6", "#14b8a6"}

// Chart is a line chart in the 0..100 SVG viewBox.
type Chart struct {
	Line  string
	Area  string
	Point *transform.Point
	Trend transform.Trend
	Empty bool
}

// Slice is a rendered pie segment.
type Slice struct {
	transform.Segment
	Path  string
	Color string
	Full  bool
}

// Card is a headline number.
type Card struct {
	Label string
	Value string
	Note  string
}

// Data is what the template renders.
type Data struct {
	Title        string
	Period       string
	Range        metrics.TimeRange
	GeneratedAt  time.Time
	Cards        []Card
	SuccessRate  Chart
	GasPrice     Chart
	Types        []Slice
	Geometry     transform.PieGeometry
	GasBars      []transform.BarGroup
	Wallets      transform.View[metrics.WalletPerformance]
	Transactions transform.View[metrics.TransactionRecord]
	Network      string
	Congestion   metrics.Congestion
}

// Options adjusts what the report includes.
type Options struct {
	Title  string
	Roster []metrics.Wallet
	Now    time.Time
}

// Build derives the template data from snap.
func Build(snap *metrics.Snapshot, opts Options) (*Data, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}
	if opts.Title == "" {
		opts.Title = "Bundle Analytics"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	b := snap.Bundles
	d := &Data{
		Title:       opts.Title,
		Period:      metrics.FormatPeriod(snap.Range),
		Range:       snap.Range,
		GeneratedAt: snap.GeneratedAt,
		Geometry:    transform.DefaultPieGeometry(),
		Network:     transform.NetworkBadge(snap.Network.NetworkStatus),
		Congestion:  snap.Network.Congestion,
		Cards: []Card{
			{Label: "Bundles", Value: transform.FormatCompact(float64(b.TotalBundles))},
			{Label: "Success Rate", Value: transform.FormatPercent(b.SuccessRate),
				Note: fmt.Sprintf("%d ok / %d failed", b.SuccessfulTransactions, b.FailedTransactions)},
			{Label: "Avg Execution", Value: transform.FormatDuration(b.AverageExecutionMs),
				Note: "p95 " + transform.FormatDuration(b.P95ExecutionMs)},
			{Label: "Volume", Value: transform.FormatCurrency(b.TotalVolume)},
			{Label: "Profit / Loss", Value: transform.FormatSignedCurrency(b.ProfitLoss),
				Note: "fees " + transform.FormatCurrency(b.TotalFees)},
			{Label: "Gas Efficiency", Value: transform.FormatPercent(snap.Gas.EfficiencyPercent),
				Note: "saved " + transform.FormatCurrency(snap.Gas.SavingsBNB)},
			{Label: "Stealth Bundles", Value: fmt.Sprint(b.Stealth.BundlesWithStealth),
				Note: fmt.Sprintf("avg score %.1f", b.Stealth.AverageScore)},
			{Label: "MEV Blocked", Value: fmt.Sprint(b.MEV.AttacksBlocked),
				Note: fmt.Sprintf("%d protected", b.MEV.ProtectedTransactions)},
		},
	}

	d.SuccessRate = lineChart(transform.NormalizeInverted(b.SuccessRateHistory), metrics.Values(b.SuccessRateHistory))
	d.GasPrice = lineChart(
		transform.NormalizeRange(snap.Network.GasPriceHistory, transform.DefaultFillFraction),
		metrics.Values(snap.Network.GasPriceHistory),
	)

	for i, seg := range transform.Segments(b.TypeDistribution, d.Geometry) {
		d.Types = append(d.Types, Slice{
			Segment: seg,
			Path:    seg.Path(d.Geometry),
			Color:   palette[i%len(palette)],
			Full:    seg.Extent() >= 360,
		})
	}

	d.GasBars = transform.GroupedBars(snap.Gas.Samples, transform.DefaultBarLayout())

	wallets := transform.WalletRows(snap.Wallets.Wallets, opts.Roster)
	d.Wallets = transform.WalletTable.Derive(wallets, transform.Query{
		Sort:     transform.DefaultWalletSort,
		PageSize: MaxTableRows,
	})
	d.Transactions = transform.TransactionTable.Derive(snap.Transactions.Records, transform.Query{
		Sort:     transform.DefaultTransactionSort,
		PageSize: MaxTableRows,
	})

	return d, nil
}

func lineChart(points []transform.Point, values []float64) Chart {
	c := Chart{Trend: transform.ClassifyTrend(values)}
	switch len(points) {
	case 0:
		c.Empty = true
	case 1:
		p := points[0]
		c.Point = &p
	default:
		c.Line = transform.LinePath(points).String()
		c.Area = transform.AreaPath(points).String()
	}
	return c
}

// GenerateHTMLString renders the report for snap.
func GenerateHTMLString(snap *metrics.Snapshot, opts Options) (string, error) {
	data, err := Build(snap, opts)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("report").Funcs(templateFuncs(opts.Now)).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateHTML renders the report and writes it to outputPath.
func GenerateHTML(snap *metrics.Snapshot, opts Options, outputPath string) error {
	html, err := GenerateHTMLString(snap, opts)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}

func templateFuncs(now time.Time) template.FuncMap {
	if now.IsZero() {
		now = time.Now()
	}
	return template.FuncMap{
		"currency": transform.FormatCurrency,
		"percent":  transform.FormatPercent,
		"gwei":     transform.FormatGwei,
		"short":    transform.ShortAddress,
		"ago":      func(t time.Time) string { return transform.FormatAgo(t, now) },
		"stamp":    func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"ms":       func(v int64) string { return transform.FormatDuration(float64(v)) },
		"flip":     func(h float64) float64 { return transform.ChartScale - h },
		"coord":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
}
