package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

type exportFlags struct {
	format   string
	metrics  string
	period   string
	output   string
	compress bool
}

func newExportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export metrics as JSON or CSV",
		Long: `Export the selected metric categories for a period. Without --output a
timestamped file is written to the working directory; use -o - for stdout.`,
		Example: `  bundlewatch export --format csv --metrics bundles,gas --period 7d
  bundlewatch export -o - | jq .bundles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "export format (json, csv)")
	cmd.Flags().StringVarP(&f.metrics, "metrics", "m", "", "comma separated categories (bundles, wallets, network, transactions, gas); default all")
	cmd.Flags().StringVarP(&f.period, "period", "p", "", "period to export (1h, 24h, 7d, 30d); default from config")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().BoolVar(&f.compress, "gzip", false, "gzip the output")
	return cmd
}

func runExport(cmd *cobra.Command, f exportFlags) error {
	format, err := analytics.ParseExportFormat(f.format)
	if err != nil {
		return err
	}
	categories, err := analytics.ParseCategories(f.metrics)
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd.Context(), 0)
	if err != nil {
		return err
	}
	defer rt.Close()

	orch, err := rt.newOrchestrator()
	if err != nil {
		return err
	}
	defer orch.Close()

	r := orch.State().Range
	if f.period != "" {
		p, err := metrics.ParsePeriod(f.period)
		if err != nil {
			return err
		}
		r = metrics.ResolvePeriod(p, time.Now())
	}

	data, err := orch.Export(cmd.Context(), analytics.ExportOptions{Format: format, Range: r, Metrics: categories})
	if err != nil {
		return err
	}

	path := f.output
	if path == "" {
		path = exportName(format, f.compress, time.Now())
	}
	if path == "-" {
		return writeExport(cmd.OutOrStdout(), data, f.compress)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeExport(out, data, f.compress); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	logger.Info("Export written", "path", path, "bytes", len(data), "gzip", f.compress)
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s %s to %s\n", humanize.Bytes(uint64(len(data))), format, path)
	return nil
}

// exportName is the default file name, e.g. bundlewatch-20260301-120000.csv.gz.
func exportName(format analytics.ExportFormat, compressed bool, now time.Time) string {
	name := fmt.Sprintf("bundlewatch-%s.%s", now.Format("20060102-150405"), format)
	if compressed {
		name += ".gz"
	}
	return name
}

// writeExport writes data, gzip-compressed when compress is set.
func writeExport(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return fmt.Errorf("compress export: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress export: %w", err)
	}
	return nil
}
