package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func points(values ...float64) []metrics.DataPoint {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]metrics.DataPoint, len(values))
	for i, v := range values {
		out[i] = metrics.NewDataPointAt(base.Add(time.Duration(i)*time.Minute), v)
	}
	return out
}

func TestNormalizeInverted(t *testing.T) {
	got := NormalizeInverted(points(60, 80, 90))
	require.Len(t, got, 3)
	assert.Equal(t, Point{X: 0, Y: 40}, got[0])
	assert.Equal(t, Point{X: 50, Y: 20}, got[1])
	assert.Equal(t, Point{X: 100, Y: 10}, got[2])
}

func TestNormalizeXBounds(t *testing.T) {
	for n := 1; n <= 12; n++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(i * 7 % 5)
		}
		for _, got := range [][]Point{
			NormalizeInverted(points(values...)),
			NormalizeRange(points(values...), DefaultFillFraction),
		} {
			require.Len(t, got, n)
			for _, p := range got {
				assert.GreaterOrEqual(t, p.X, 0.0)
				assert.LessOrEqual(t, p.X, 100.0)
			}
			assert.Equal(t, 0.0, got[0].X)
			if n == 1 {
				assert.Equal(t, 0.0, got[n-1].X)
			} else {
				assert.Equal(t, 100.0, got[n-1].X)
			}
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	got := NormalizeRange(points(10, 20, 30), 80)
	require.Len(t, got, 3)
	assert.InDelta(t, 100, got[0].Y, 1e-9)
	assert.InDelta(t, 60, got[1].Y, 1e-9)
	assert.InDelta(t, 20, got[2].Y, 1e-9)

	// A flat series has no range; every point sits on the baseline.
	flat := NormalizeRange(points(5, 5, 5), 80)
	for _, p := range flat {
		assert.Equal(t, 100.0, p.Y)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Nil(t, NormalizeInverted(nil))
	assert.Nil(t, NormalizeRange(nil, 80))
}

func TestDownsample(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, Downsample([]float64{1, 2}, 10))
	assert.Equal(t, []float64{1.5, 3.5}, Downsample([]float64{1, 2, 3, 4}, 2))
	assert.Len(t, Downsample(make([]float64, 100), 7), 7)
}

func TestLinePath(t *testing.T) {
	path := LinePath([]Point{{0, 40}, {50, 20}, {100, 10}})
	assert.Equal(t, "M 0 40 L 50 20 L 100 10", path.String())
	assert.False(t, path.IsPoint())

	single := LinePath([]Point{{0, 30}})
	assert.True(t, single.IsPoint())
	assert.Equal(t, "M 0 30", single.String())

	assert.Nil(t, LinePath(nil))
}

func TestAreaPath(t *testing.T) {
	path := AreaPath([]Point{{0, 40}, {100, 10}})
	assert.Equal(t, "M 0 40 L 100 10 L 100 100 L 0 100 Z", path.String())
	assert.Nil(t, AreaPath(nil))
}

func TestPathRoundsCoordinates(t *testing.T) {
	path := LinePath(NormalizeInverted(points(1, 2, 3, 4)))
	assert.Equal(t, "M 0 99 L 33.33 98 L 66.67 97 L 100 96", path.String())
}
