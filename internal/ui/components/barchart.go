package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/transform"
	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// BarChartItem represents a single bar in the chart.
type BarChartItem struct {
	Label string  // Display label (will be truncated if needed)
	Value float64 // Numeric value for the bar
	Color lipgloss.Color
}

// BarChartConfig configures a BarChart.
type BarChartConfig struct {
	Title          string
	Width          int
	Height         int // number of bars
	MaxLabelWidth  int
	ShowValues     bool
	ValueFormatter func(float64) string
}

// DefaultBarChartConfig returns sensible defaults.
func DefaultBarChartConfig() BarChartConfig {
	return BarChartConfig{
		Width:         80,
		Height:        10,
		MaxLabelWidth: 20,
		ShowValues:    true,
		ValueFormatter: func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
	}
}

// BarChart renders horizontal bar charts with per-item colors.
type BarChart struct {
	config BarChartConfig
	items  []BarChartItem
}

// NewBarChart creates a new bar chart component.
func NewBarChart(config BarChartConfig) *BarChart {
	if config.Width < 40 {
		config.Width = 40
	}
	if config.Height < 1 {
		config.Height = 10
	}
	if config.MaxLabelWidth < 8 {
		config.MaxLabelWidth = 8
	}
	if config.ValueFormatter == nil {
		config.ValueFormatter = DefaultBarChartConfig().ValueFormatter
	}

	return &BarChart{config: config}
}

// SetItems updates the bar chart data.
func (c *BarChart) SetItems(items []BarChartItem) {
	c.items = items
}

// SetSize updates the chart dimensions.
func (c *BarChart) SetSize(width, height int) {
	if width >= 40 {
		c.config.Width = width
	}
	if height >= 1 {
		c.config.Height = height
	}
}

// View renders the bar chart.
func (c *BarChart) View() string {
	if len(c.items) == 0 {
		return c.renderEmpty()
	}
	return c.withTitle(c.renderBars())
}

func (c *BarChart) withTitle(body string) string {
	if c.config.Title == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, styles.TitleStyle.Render(c.config.Title), "", body)
}

func (c *BarChart) renderEmpty() string {
	content := lipgloss.NewStyle().
		Width(c.config.Width-4).
		Height(min(c.config.Height, 3)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(styles.ColorMuted).
		Render("No data available")
	return c.withTitle(content)
}

// renderBars draws the bars with pterm, then colors each bar line.
func (c *BarChart) renderBars() string {
	pterm.DisableColor()
	defer pterm.EnableColor()

	n := min(c.config.Height, len(c.items))
	bars := make(pterm.Bars, 0, n)
	for _, item := range c.items[:n] {
		bars = append(bars, pterm.Bar{
			Label: styles.Pad(item.Label, c.config.MaxLabelWidth),
			// pterm only draws integer bars; scale to keep fractions visible
			Value: int(item.Value * 100),
		})
	}

	chart, err := pterm.DefaultBarChart.
		WithBars(bars).
		WithHorizontal(true).
		WithShowValue(false).
		WithWidth(c.barWidth()).
		Srender()
	if err != nil {
		return RenderSimpleBarChart(c.items, c.config)
	}

	lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")
	out := make([]string, 0, len(lines))
	row := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if row < n {
			item := c.items[row]
			line = colorBars(line, barStyle(item.Color, row))
			if c.config.ShowValues {
				line += " " + c.config.ValueFormatter(item.Value)
			}
		}
		out = append(out, line)
		row++
	}
	return strings.Join(out, "\n")
}

func (c *BarChart) barWidth() int {
	return max(c.config.Width-c.config.MaxLabelWidth-15, 10)
}

func barStyle(color lipgloss.Color, row int) lipgloss.Style {
	if color == "" {
		color = styles.SliceColors[row%len(styles.SliceColors)]
	}
	return lipgloss.NewStyle().Foreground(color)
}

// colorBars applies style to runs of bar characters in a line.
func colorBars(line string, style lipgloss.Style) string {
	var result, run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			result.WriteString(style.Render(run.String()))
			run.Reset()
		}
	}
	for _, ch := range line {
		switch ch {
		case '█', '▓', '▒', '░', '▄', '▀', '■':
			run.WriteRune(ch)
		default:
			flush()
			result.WriteRune(ch)
		}
	}
	flush()
	return result.String()
}

// RenderSimpleBarChart renders a horizontal bar chart without pterm.
func RenderSimpleBarChart(items []BarChartItem, config BarChartConfig) string {
	if len(items) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, item := range items {
		maxVal = max(maxVal, item.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	barWidth := max(config.Width-config.MaxLabelWidth-15, 10)

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(styles.TitleStyle.Render(config.Title))
		sb.WriteString("\n\n")
	}

	n := min(config.Height, len(items))
	for i, item := range items[:n] {
		barLen := int(float64(barWidth) * (item.Value / maxVal))
		if barLen < 1 && item.Value > 0 {
			barLen = 1
		}
		sb.WriteString(styles.Pad(item.Label, config.MaxLabelWidth))
		sb.WriteString(" ")
		sb.WriteString(barStyle(item.Color, i).Render(strings.Repeat("█", barLen)))
		if config.ShowValues && config.ValueFormatter != nil {
			sb.WriteString(" " + config.ValueFormatter(item.Value))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// ShareItems converts a distribution into chart items, one color per slice.
func ShareItems(shares []metrics.Share) []BarChartItem {
	items := make([]BarChartItem, len(shares))
	for i, s := range shares {
		items[i] = BarChartItem{
			Label: s.Label,
			Value: s.Percentage,
			Color: styles.SliceColors[i%len(styles.SliceColors)],
		}
	}
	return items
}

// RenderGasComparison draws estimated and actual gas side by side for the
// most recent samples that fit in height rows, each sample taking two rows.
func RenderGasComparison(samples []metrics.GasSample, width, height int, timeFormat string) string {
	if len(samples) == 0 {
		return styles.MutedStyle.Render("No gas samples in this period")
	}

	pairs := max(height/2, 1)
	if len(samples) > pairs {
		samples = samples[len(samples)-pairs:]
	}

	// Full-height layout: the tallest bar spans the whole bar area.
	groups := transform.GroupedBars(samples, transform.BarLayout{TotalWidth: transform.ChartScale, HeightFraction: transform.ChartScale})
	barArea := max(width-30, 10)
	labelWidth := len(timeFormat)

	estStyle := lipgloss.NewStyle().Foreground(styles.ColorEstimated)
	actStyle := lipgloss.NewStyle().Foreground(styles.ColorAccent)

	var sb strings.Builder
	for i, g := range groups {
		s := samples[i]
		est := int(g.Left.Height / transform.ChartScale * float64(barArea))
		act := int(g.Right.Height / transform.ChartScale * float64(barArea))

		sb.WriteString(styles.Pad(s.Timestamp.Format(timeFormat), labelWidth))
		sb.WriteString(" est ")
		sb.WriteString(estStyle.Render(strings.Repeat("▒", est)))
		sb.WriteString(" " + transform.FormatGwei(s.Estimated) + "\n")

		sb.WriteString(strings.Repeat(" ", labelWidth))
		sb.WriteString(" act ")
		sb.WriteString(actStyle.Render(strings.Repeat("█", act)))
		sb.WriteString(" " + transform.FormatGwei(s.Actual) + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
