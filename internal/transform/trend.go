package transform

// Trend is the direction a series is moving in.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

const (
	trendWindow    = 3
	trendThreshold = 2.0
)

// ClassifyTrend compares the mean of the latest three samples with the mean of
// the earliest three. A delta beyond ±2 points is a trend.
func ClassifyTrend(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	w := trendWindow
	if w > len(values) {
		w = len(values)
	}
	delta := mean(values[len(values)-w:]) - mean(values[:w])
	switch {
	case delta > trendThreshold:
		return TrendUp
	case delta < -trendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// Arrow returns a compact glyph for the trend.
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "→"
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
