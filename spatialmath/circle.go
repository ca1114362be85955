package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// LightSpot returns the frame of the lookahead disc belonging to a robot at pose: a point radius
// directly ahead of the robot, sharing its heading.
func LightSpot(pose Pose, radius float64) Pose {
	return Compose(pose, Pose{Point: r2.Point{X: radius}})
}

// InsideDisc reports whether v lies strictly inside the origin-centred disc with the given
// squared radius.
func InsideDisc(v r2.Point, radiusSquared float64) bool {
	return v.Dot(v) < radiusSquared
}

// InsideAheadDisc reports whether v lies strictly inside the disc of the given radius centred at
// (radius, 0), the disc that just touches the origin and sits ahead of it.
func InsideAheadDisc(v r2.Point, radius float64) bool {
	return InsideDisc(v.Sub(r2.Point{X: radius}), radius*radius)
}

// RayCircleIntersection intersects the line through p.Point along p's heading with the circle of
// squared radius radiusSquared centred at the origin. The exit root (larger parameter) is returned
// when exit is true, the entry root otherwise. A line that misses the circle is treated as
// tangent, returning the closest point of the line to the origin.
func RayCircleIntersection(p Pose, radiusSquared float64, exit bool) r2.Point {
	d := p.Heading()
	// |p + t·d|² = r² with |d| = 1 gives t² + b·t + c = 0.
	b := 2 * p.Point.Dot(d)
	c := p.Point.Dot(p.Point) - radiusSquared
	disc := math.Max(b*b-4*c, 0)
	root := math.Sqrt(disc)
	if !exit {
		root = -root
	}
	return p.Point.Add(d.Mul((-b + root) / 2))
}

// Bearing returns the angle of v measured from the x axis, in (-π, π].
func Bearing(v r2.Point) float64 {
	return math.Atan2(v.Y, v.X)
}
