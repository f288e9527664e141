package transform

import (
	"fmt"
	"math"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// PieGeometry fixes the center and radius used for polar projection.
type PieGeometry struct {
	CenterX float64
	CenterY float64
	Radius  float64
}

// DefaultPieGeometry fits a pie inside the 0..100 chart box.
func DefaultPieGeometry() PieGeometry {
	return PieGeometry{CenterX: 50, CenterY: 50, Radius: 40}
}

// Segment is one contiguous angular span of a pie chart.
type Segment struct {
	Label      string
	Percentage float64
	StartAngle float64 // degrees, 0 = up
	EndAngle   float64
	LargeArc   int // 1 when the span exceeds 180 degrees
	Start      Point
	End        Point
}

// Extent returns the angular size of the segment in degrees.
func (s Segment) Extent() float64 {
	return s.EndAngle - s.StartAngle
}

// Polar projects an angle (degrees, 0 pointing up, clockwise) onto the plane.
func Polar(g PieGeometry, angle float64) Point {
	rad := (angle - 90) * math.Pi / 180
	return Point{
		X: g.CenterX + g.Radius*math.Cos(rad),
		Y: g.CenterY + g.Radius*math.Sin(rad),
	}
}

// Segments assigns each share a span starting where the previous one ended,
// beginning at 0 degrees. Input order is preserved.
func Segments(shares []metrics.Share, g PieGeometry) []Segment {
	if len(shares) == 0 {
		return nil
	}
	segments := make([]Segment, len(shares))
	angle := 0.0
	for i, s := range shares {
		extent := s.Percentage / 100 * 360
		seg := Segment{
			Label:      s.Label,
			Percentage: s.Percentage,
			StartAngle: angle,
			EndAngle:   angle + extent,
			Start:      Polar(g, angle),
			End:        Polar(g, angle+extent),
		}
		if extent > 180 {
			seg.LargeArc = 1
		}
		segments[i] = seg
		angle += extent
	}
	return segments
}

// Path renders the segment as an SVG wedge: center, line to the arc start,
// clockwise arc to the arc end, close.
func (s Segment) Path(g PieGeometry) string {
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		formatCoord(g.CenterX), formatCoord(g.CenterY),
		formatCoord(s.Start.X), formatCoord(s.Start.Y),
		formatCoord(g.Radius), formatCoord(g.Radius),
		s.LargeArc,
		formatCoord(s.End.X), formatCoord(s.End.Y),
	)
}
