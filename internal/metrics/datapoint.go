package metrics

import (
	"math"
	"time"
)

// DataPoint represents a single metric measurement at a point in time.
type DataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// IsValid returns true if the data point has valid values.
// A data point is invalid if the value is Inf, NaN, or the timestamp is zero.
func (dp DataPoint) IsValid() bool {
	if dp.Timestamp.IsZero() {
		return false
	}
	if math.IsInf(dp.Value, 0) || math.IsNaN(dp.Value) {
		return false
	}
	return true
}

// Time satisfies Timestamped so data points can live in a CircularBuffer.
func (dp DataPoint) Time() time.Time {
	return dp.Timestamp
}

// NewDataPointAt creates a new DataPoint with the specified timestamp.
func NewDataPointAt(timestamp time.Time, value float64) DataPoint {
	return DataPoint{
		Timestamp: timestamp,
		Value:     value,
	}
}

// Values extracts the values of a series in order.
func Values(points []DataPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
