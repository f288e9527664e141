package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/app"
	"github.com/kushdevteam/bunproj-sub004/internal/config"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// logCapture is how many recent log entries the dashboard keeps for its
// warning and error counters.
const logCapture = 200

var (
	dashPeriod   string
	dashRealTime bool
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard (default)",
		Long: `Open the interactive dashboard. When stdout is not a terminal a
summary for the default period is printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd)
		},
	}
	addDashboardFlags(cmd)
	return cmd
}

func addDashboardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dashPeriod, "period", "p", "", "period to open with (1h, 4h, 12h, 24h, 7d, 30d, all)")
	cmd.Flags().BoolVar(&dashRealTime, "realtime", false, "start with auto-refresh enabled")
}

func runDashboard(cmd *cobra.Command) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return runSummary(cmd, dashPeriod)
	}

	var period metrics.Period
	if dashPeriod != "" {
		p, err := metrics.ParsePeriod(dashPeriod)
		if err != nil {
			return err
		}
		period = p
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx, logCapture)
	if err != nil {
		return err
	}
	defer rt.Close()

	bridge := app.NewStateBridge()
	orch, err := rt.newOrchestrator(
		analytics.WithPreferences(rt.preferenceStore()),
		analytics.WithListener(bridge.Publish),
	)
	if err != nil {
		return err
	}
	defer orch.Close()

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = config.Dir()
	}

	model := app.New(ctx, app.Options{
		Orchestrator:   orch,
		Bridge:         bridge,
		Roster:         rt.roster,
		RosterInterval: rt.cfg.Network.SampleInterval * 4,
		ExportDir:      exportDir,
		DateFormat:     rt.cfg.UI.DateFormat,
		PageSize:       rt.cfg.UI.PageSize,
		Debug:          debug || rt.cfg.Debug,
		Period:         period,
		RealTime:       dashRealTime,
	})

	logger.Info("Dashboard starting", "version", version, "provider", rt.cfg.Provider.Kind)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	logger.Info("Dashboard exited")
	return nil
}
