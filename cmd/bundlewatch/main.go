package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
	logLevel   string
	logFile    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bundlewatch",
		Short: "Terminal analytics for bundle executions",
		Long: `bundlewatch aggregates bundle executions, wallet activity, network status
and gas usage over a selectable time range and presents them as a live
terminal dashboard.

Dashboard:
  bundlewatch [dashboard]              Open the interactive dashboard

One-off output:
  bundlewatch summary [--period 7d]    Print a summary table
  bundlewatch export --format csv      Export metrics to a file
  bundlewatch report -o report.html    Write an HTML report

History:
  bundlewatch record --file runs.json  Record executions into local history
  bundlewatch prune                    Remove history past retention`,
		Version:       version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd)
		},
	}

	addDashboardFlags(rootCmd)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/bundlewatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default ~/.config/bundlewatch/bundlewatch.log)")

	rootCmd.AddCommand(
		newDashboardCmd(),
		newSummaryCmd(),
		newExportCmd(),
		newReportCmd(),
		newRecordCmd(),
		newPruneCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bundlewatch %s\n", version)
		},
	}
}
