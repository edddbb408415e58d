package planner

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// pointEpsilon is the distance under which two floorplan points are the same corner
const pointEpsilon = 1e-6

func toOrb(p Point) orb.Point   { return orb.Point{p.X, p.Y} }
func fromOrb(p orb.Point) Point { return Point{X: p[0], Y: p[1]} }

// Distance returns the Euclidean distance between two floorplan points
func Distance(a, b Point) float64 {
	return planar.Distance(toOrb(a), toOrb(b))
}

// ProjectOntoSegment returns the projection parameter t (clamped to [0,1]) of p
// onto segment a-b, and the closest point on the segment.
// A degenerate segment projects everything onto a.
func ProjectOntoSegment(p, a, b Point) (float64, Point) {
	d := b.Sub(a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return 0, a
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return t, a.Add(d.Scale(t))
}

// PointToSegmentDistance returns the distance from p to the segment a-b
func PointToSegmentDistance(p, a, b Point) float64 {
	_, closest := ProjectOntoSegment(p, a, b)
	return Distance(p, closest)
}

// angleOf returns the direction of v in radians, in [0, 2π)
func angleOf(v Point) float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// leftNormal returns the unit normal pointing left of the direction a->b
func leftNormal(a, b Point) Point {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return Point{}
	}
	return Point{X: -d.Y / l, Y: d.X / l}
}

// snapToAxis aligns p horizontally or vertically with anchor when it is within
// tolerance of either axis through anchor.
func snapToAxis(p, anchor Point, tolerance float64) Point {
	if tolerance <= 0 {
		return p
	}
	if math.Abs(p.X-anchor.X) < tolerance {
		p.X = anchor.X
	}
	if math.Abs(p.Y-anchor.Y) < tolerance {
		p.Y = anchor.Y
	}
	return p
}
