package route

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/pathfollower/spatialmath"
)

func TestComputeStats(t *testing.T) {
	test.That(t, ComputeStats(&Path{}), test.ShouldResemble, Stats{})

	sparse := Segment{
		spatialmath.NewPose(0, 5, 0),
		spatialmath.NewPose(1, 5, 0),
		spatialmath.NewPose(2, 5, 0),
	}
	p := NewPath(Segment(straightLine(11, 0.1)), sparse)
	s := ComputeStats(p)

	test.That(t, s.Points, test.ShouldEqual, 14)
	test.That(t, s.Segments, test.ShouldHaveLength, 2)
	test.That(t, s.Segments[0].Points, test.ShouldEqual, 11)
	test.That(t, s.Segments[0].Length, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, s.Segments[1].Length, test.ShouldAlmostEqual, 2, 1e-9)
	test.That(t, s.Length, test.ShouldAlmostEqual, 3, 1e-9)
	test.That(t, s.LongestSegment, test.ShouldEqual, 1)
	test.That(t, s.MeanSpacing, test.ShouldAlmostEqual, 0.25, 1e-9)
	test.That(t, s.MedianSpacing, test.ShouldAlmostEqual, 0.1, 1e-9)
	test.That(t, s.SpacingStdDev, test.ShouldBeGreaterThan, 0)
}
