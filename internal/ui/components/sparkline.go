package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kushdevteam/bunproj-sub004/internal/transform"
)

// SparklineConfig holds configuration for sparkline rendering.
type SparklineConfig struct {
	// Width is the number of characters for the sparkline
	Width int
	// Color is the lipgloss color for the sparkline
	Color lipgloss.Color
}

// DefaultSparklineConfig returns sensible defaults for inline sparklines.
func DefaultSparklineConfig() SparklineConfig {
	return SparklineConfig{
		Width: 12,
		Color: lipgloss.Color("117"), // Light blue
	}
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders a compact single-line sparkline using Unicode block
// characters.
func RenderSparkline(data []float64, config SparklineConfig) string {
	if len(data) == 0 {
		return strings.Repeat("─", config.Width)
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range transform.Downsample(data, config.Width) {
		idx := int((v - lo) / span * 7)
		sb.WriteRune(sparkBlocks[max(0, min(idx, 7))])
	}

	if config.Color != "" {
		return lipgloss.NewStyle().Foreground(config.Color).Render(sb.String())
	}
	return sb.String()
}

// RenderTrend renders a sparkline followed by the trend arrow of data.
func RenderTrend(data []float64, config SparklineConfig) string {
	return RenderSparkline(data, config) + " " + transform.ClassifyTrend(data).Arrow()
}
