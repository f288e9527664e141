package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// StatusBar represents the status bar component
type StatusBar struct {
	width int

	state      analytics.State
	now        time.Time
	dateFormat string
	showCounts bool

	progress progress.Model
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = 12
	return &StatusBar{
		dateFormat: "2006-01-02 15:04:05",
		progress:   p,
	}
}

// SetSize sets the width of the status bar
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetState sets the orchestrator state shown in the bar.
func (s *StatusBar) SetState(state analytics.State) {
	s.state = state
}

// SetTimestamp sets the current time used for relative timestamps.
func (s *StatusBar) SetTimestamp(now time.Time) {
	s.now = now
}

// SetDateFormat sets the date format string
func (s *StatusBar) SetDateFormat(format string) {
	s.dateFormat = format
}

// SetShowCounts toggles the warning/error counters.
func (s *StatusBar) SetShowCounts(show bool) {
	s.showCounts = show
}

// View renders the status bar
func (s *StatusBar) View() string {
	st := s.state

	var network string
	if snap := st.Snapshot; snap != nil && snap.Network.Connected {
		network = lipgloss.NewStyle().Foreground(styles.ColorSuccess).Render("● " + transform.NetworkBadge(snap.Network.NetworkStatus))
	} else {
		network = lipgloss.NewStyle().Foreground(styles.ColorError).Render("● Disconnected")
	}

	refresh := lipgloss.NewStyle().Foreground(styles.RefreshColor(st.Refresh.Status)).Render(st.Refresh.Status.String())
	if st.Fetching {
		refresh = styles.InfoStyle.Render("loading…")
	}

	live := styles.MutedStyle.Render("auto off")
	if st.RealTime.Enabled {
		live = styles.SuccessStyle.Render("auto " + st.RealTime.Interval.String())
	}

	parts := []string{
		styles.StatusTitleStyle.Render(metrics.FormatPeriod(st.Range)),
		network,
		refresh,
		live,
		styles.StatusTimeStyle.Render("updated " + transform.FormatAgo(st.Refresh.LastUpdated, s.now)),
	}

	if st.Export.InProgress || st.Export.Percent > 0 {
		parts = append(parts, "export "+s.progress.ViewAs(float64(st.Export.Percent)/100)+fmt.Sprintf(" %d%%", st.Export.Percent))
	}

	if s.showCounts {
		warnCount, errCount := logger.GetCounts()
		if warnCount > 0 {
			parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("⚠ %d", warnCount)))
		}
		if errCount > 0 {
			parts = append(parts, styles.ErrorStyle.Render(fmt.Sprintf("✕ %d", errCount)))
		}
	}

	left := strings.Join(parts, " │ ")
	right := styles.StatusTimeStyle.Render(s.now.Format(s.dateFormat))

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.StatusBarStyle.Width(s.width).Render(left)
	}
	return styles.StatusBarStyle.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}
