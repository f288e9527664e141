package transform

import (
	"math"
	"strconv"
	"strings"
)

// PathOp is a single path drawing instruction.
type PathOp byte

const (
	OpMove  PathOp = 'M'
	OpLine  PathOp = 'L'
	OpClose PathOp = 'Z'
)

// PathCommand is one instruction with its target point. Close ignores the point.
type PathCommand struct {
	Op PathOp
	Point
}

// Path is an ordered list of drawing commands.
type Path []PathCommand

// LinePath moves to the first point and draws a line to each following point in
// order. A single point yields a lone move.
func LinePath(points []Point) Path {
	if len(points) == 0 {
		return nil
	}
	path := make(Path, 0, len(points))
	path = append(path, PathCommand{Op: OpMove, Point: points[0]})
	for _, p := range points[1:] {
		path = append(path, PathCommand{Op: OpLine, Point: p})
	}
	return path
}

// AreaPath extends LinePath down to the baseline (y=100) and back to the first
// point's x, closing the region for fills.
func AreaPath(points []Point) Path {
	path := LinePath(points)
	if len(path) == 0 {
		return nil
	}
	last := points[len(points)-1]
	path = append(path,
		PathCommand{Op: OpLine, Point: Point{X: last.X, Y: ChartScale}},
		PathCommand{Op: OpLine, Point: Point{X: points[0].X, Y: ChartScale}},
		PathCommand{Op: OpClose},
	)
	return path
}

// IsPoint reports whether the path renders as a single point.
func (p Path) IsPoint() bool {
	return len(p) == 1 && p[0].Op == OpMove
}

// String renders SVG path data, e.g. "M 0 40 L 50 20 L 100 10".
func (p Path) String() string {
	var b strings.Builder
	for i, cmd := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(cmd.Op))
		if cmd.Op == OpClose {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(formatCoord(cmd.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(cmd.Y))
	}
	return b.String()
}

// formatCoord rounds to two decimals; SVG output does not need more.
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
