// Package transform derives presentation-ready structures from metrics
// snapshots: normalized series, SVG paths, pie segments, bar layouts, trends and
// filtered/sorted/paginated table views. Every function is pure.
package transform

import (
	"math"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// ChartScale is the coordinate space every normalized series maps into.
const ChartScale = 100.0

// DefaultFillFraction leaves headroom above range-normalized series.
const DefaultFillFraction = 80.0

// Point is a position in the 0..100 chart coordinate space. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// xPosition maps a sample index to a percentage position along the x axis.
func xPosition(i, n int) float64 {
	denom := n - 1
	if denom < 1 {
		denom = 1
	}
	return float64(i) / float64(denom) * ChartScale
}

// NormalizeInverted maps samples already expressed on a 0..100 scale (success
// rates, percentages) by inverting them: y = 100 - value.
func NormalizeInverted(samples []metrics.DataPoint) []Point {
	if len(samples) == 0 {
		return nil
	}
	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = Point{X: xPosition(i, len(samples)), Y: ChartScale - s.Value}
	}
	return points
}

// NormalizeRange maps samples against their own min/max range:
// y = 100 - (value-min)/range*fill. A zero range is treated as 1.
func NormalizeRange(samples []metrics.DataPoint, fill float64) []Point {
	if len(samples) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		lo = math.Min(lo, s.Value)
		hi = math.Max(hi, s.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = Point{
			X: xPosition(i, len(samples)),
			Y: ChartScale - (s.Value-lo)/span*fill,
		}
	}
	return points
}

// Downsample averages values into at most width buckets for terminal charts.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}

	out := make([]float64, width)
	bucket := float64(len(values)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(values) {
			end = len(values)
		}
		if start >= end {
			start = end - 1
		}
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
