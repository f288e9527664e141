package transform

import "github.com/kushdevteam/bunproj-sub004/internal/metrics"

// BarLayout controls grouped bar geometry.
type BarLayout struct {
	TotalWidth     float64 // width shared by all groups
	HeightFraction float64 // share of the chart height the tallest bar may use
	Spacing        float64 // gap between a group's sub-bars and its edges
}

// DefaultBarLayout leaves 20% headroom for labels.
func DefaultBarLayout() BarLayout {
	return BarLayout{TotalWidth: ChartScale, HeightFraction: 80, Spacing: 1}
}

// Bar is one rectangle; Height is in the same units as HeightFraction.
type Bar struct {
	X      float64
	Width  float64
	Height float64
	Value  float64
}

// BarGroup holds the estimated (left) and actual (right) bars of one sample.
type BarGroup struct {
	X     float64
	Width float64
	Left  Bar
	Right Bar
}

// GroupedBars scales estimated/actual gas samples against the largest value
// across both series.
func GroupedBars(samples []metrics.GasSample, layout BarLayout) []BarGroup {
	if len(samples) == 0 {
		return nil
	}

	maxValue := 0.0
	for _, s := range samples {
		if s.Estimated > maxValue {
			maxValue = s.Estimated
		}
		if s.Actual > maxValue {
			maxValue = s.Actual
		}
	}

	width := layout.TotalWidth / float64(len(samples))
	sub := (width - 3*layout.Spacing) / 2
	if sub < 0 {
		sub = 0
	}

	height := func(v float64) float64 {
		if maxValue <= 0 {
			return 0
		}
		return v / maxValue * layout.HeightFraction
	}

	groups := make([]BarGroup, len(samples))
	for i, s := range samples {
		x := float64(i) * width
		groups[i] = BarGroup{
			X:     x,
			Width: width,
			Left: Bar{
				X:      x + layout.Spacing,
				Width:  sub,
				Height: height(s.Estimated),
				Value:  s.Estimated,
			},
			Right: Bar{
				X:      x + 2*layout.Spacing + sub,
				Width:  sub,
				Height: height(s.Actual),
				Value:  s.Actual,
			},
		}
	}
	return groups
}
