// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/kushdevteam/bunproj-sub004/internal/transform"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// TimeSeriesChart renders a time-series line graph using asciigraph.
type TimeSeriesChart struct {
	title  string
	period string
	width  int
	height int
	color  asciigraph.AnsiColor
	data   []float64

	// Data requirements
	minPoints int
}

// TimeSeriesConfig configures a TimeSeriesChart.
type TimeSeriesConfig struct {
	Title     string
	Period    string
	Width     int
	Height    int
	Color     asciigraph.AnsiColor
	MinPoints int
}

// DefaultTimeSeriesConfig returns sensible defaults.
func DefaultTimeSeriesConfig() TimeSeriesConfig {
	return TimeSeriesConfig{
		Width:     80,
		Height:    8,
		Color:     asciigraph.Green,
		MinPoints: 2,
	}
}

// NewTimeSeriesChart creates a new time-series chart component.
func NewTimeSeriesChart(config TimeSeriesConfig) *TimeSeriesChart {
	if config.MinPoints < 1 {
		config.MinPoints = 2
	}
	if config.Height < 3 {
		config.Height = 3
	}
	if config.Width < 20 {
		config.Width = 20
	}

	return &TimeSeriesChart{
		title:     config.Title,
		period:    config.Period,
		width:     config.Width,
		height:    config.Height,
		color:     config.Color,
		minPoints: config.MinPoints,
	}
}

// SetData updates the chart data.
func (c *TimeSeriesChart) SetData(data []float64) {
	c.data = data
}

// SetPeriod updates the period label shown in the caption.
func (c *TimeSeriesChart) SetPeriod(period string) {
	c.period = period
}

// SetSize updates the chart dimensions.
func (c *TimeSeriesChart) SetSize(width, height int) {
	if width >= 20 {
		c.width = width
	}
	if height >= 3 {
		c.height = height
	}
}

// HasSufficientData returns true if there's enough data to render a meaningful chart.
func (c *TimeSeriesChart) HasSufficientData() bool {
	return len(c.data) >= c.minPoints
}

// View renders the time-series chart.
func (c *TimeSeriesChart) View() string {
	caption := c.caption()

	if !c.HasSufficientData() {
		return c.renderNoData(caption)
	}

	return c.renderGraph(caption)
}

func (c *TimeSeriesChart) caption() string {
	switch {
	case c.title == "":
		return c.period
	case c.period == "":
		return c.title
	default:
		return fmt.Sprintf("%s (%s)", c.title, c.period)
	}
}

func (c *TimeSeriesChart) renderNoData(caption string) string {
	msg := "No data for this period"
	if len(c.data) > 0 {
		msg = fmt.Sprintf("Not enough data (%d/%d points)", len(c.data), c.minPoints)
	}

	content := lipgloss.NewStyle().
		Width(c.width - 4).
		Height(c.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(styles.ColorMuted).
		Render(msg)

	header := styles.TitleStyle.Render(caption)
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func (c *TimeSeriesChart) renderGraph(caption string) string {
	// Leave room for Y-axis labels
	graphWidth := max(c.width-10, 20)
	graphHeight := max(c.height-2, 2)

	data := transform.Downsample(c.data, graphWidth)

	graph := asciigraph.Plot(data,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(c.color),
	)

	return strings.TrimRight(graph, "\n")
}
