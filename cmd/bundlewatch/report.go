package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		period string
		output string
		title  string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a self-contained HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, orch, snap, err := fetchOnce(cmd.Context(), period)
			if err != nil {
				return err
			}
			defer rt.Close()
			defer orch.Close()

			roster, err := rt.roster.Wallets(cmd.Context())
			if err != nil {
				logger.Warn("Roster unavailable for report", "error", err)
			}

			if output == "" {
				output = fmt.Sprintf("bundlewatch-report-%s.html", time.Now().Format("20060102-150405"))
			}
			if err := report.GenerateHTML(snap, report.Options{Title: title, Roster: roster}, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report for %s written to %s\n", metrics.FormatPeriod(snap.Range), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "", "period to report (1h, 24h, 7d, 30d); default from config")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default bundlewatch-report-<time>.html)")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	return cmd
}
