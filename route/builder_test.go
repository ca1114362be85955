package route

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"go.viam.com/pathfollower/spatialmath"
)

const testLightRadius = 0.4

func straightLine(n int, spacing float64) []spatialmath.Pose {
	poses := make([]spatialmath.Pose, n)
	for i := range poses {
		poses[i] = spatialmath.NewPose(float64(i)*spacing, 0, 0)
	}
	return poses
}

// randomWalk produces a mostly smooth trajectory with occasional jumps, reversals and kinks.
func randomWalk(r *rand.Rand, n int) []spatialmath.Pose {
	poses := make([]spatialmath.Pose, 0, n)
	current := spatialmath.NewZeroPose()
	for i := 0; i < n; i++ {
		var step spatialmath.Pose
		switch r.Intn(20) {
		case 0:
			step = spatialmath.NewPose(r.Float64()*4-2, r.Float64()*4-2, r.Float64()*2*math.Pi)
		case 1:
			step = spatialmath.NewPose(0, 0, math.Pi)
		case 2:
			step = spatialmath.NewPose(0.1, r.Float64()*0.6-0.3, 0)
		default:
			step = spatialmath.NewPose(0.05+r.Float64()*0.2, r.Float64()*0.04-0.02, r.Float64()*0.3-0.15)
		}
		current = spatialmath.Compose(current, step)
		poses = append(poses, current)
	}
	return poses
}

func checkContinuity(t *testing.T, p *Path) {
	t.Helper()
	for _, s := range p.Segments() {
		test.That(t, len(s), test.ShouldBeGreaterThan, 0)
		for i := 1; i < len(s); i++ {
			test.That(t, Continuous(s[i-1], s[i], testLightRadius), test.ShouldBeTrue)
		}
	}
}

func TestContinuous(t *testing.T) {
	ref := spatialmath.NewPose(1, 1, math.Pi/2)
	for _, tc := range []struct {
		name  string
		local spatialmath.Pose
		ok    bool
	}{
		{"straight ahead", spatialmath.NewPose(0.2, 0, 0), true},
		{"slight curve", spatialmath.NewPose(0.3, 0.1, 0.3), true},
		{"behind", spatialmath.NewPose(-0.1, 0, 0), false},
		{"too far", spatialmath.NewPose(0.85, 0, 0), false},
		{"sideways", spatialmath.NewPose(0.05, 0.3, 0), false},
		{"sharp turn", spatialmath.NewPose(0.2, 0, math.Pi/2), false},
		{"just under the heading limit", spatialmath.NewPose(0.2, 0, math.Pi/3-0.01), true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			next := spatialmath.Compose(ref, tc.local)
			test.That(t, Continuous(ref, next, testLightRadius), test.ShouldEqual, tc.ok)
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		p := Build(nil, testLightRadius, 10)
		test.That(t, p.Empty(), test.ShouldBeTrue)
		test.That(t, p.NumSegments(), test.ShouldEqual, 0)
		test.That(t, p.NumPoints(), test.ShouldEqual, 0)
	})

	t.Run("single point", func(t *testing.T) {
		p := Build([]spatialmath.Pose{spatialmath.NewPose(1, 2, 3)}, testLightRadius, 10)
		test.That(t, p.NumSegments(), test.ShouldEqual, 1)
		test.That(t, p.Segment(0), test.ShouldHaveLength, 1)
	})

	t.Run("straight line is one segment", func(t *testing.T) {
		p := Build(straightLine(20, 0.1), testLightRadius, 0)
		test.That(t, p.NumSegments(), test.ShouldEqual, 1)
		test.That(t, p.NumPoints(), test.ShouldEqual, 20)
	})

	t.Run("sparse line breaks everywhere", func(t *testing.T) {
		p := Build(straightLine(5, 1), testLightRadius, 3)
		test.That(t, p.NumSegments(), test.ShouldEqual, 5)
	})

	t.Run("reversal splits", func(t *testing.T) {
		poses := []spatialmath.Pose{
			spatialmath.NewPose(0, 0, 0),
			spatialmath.NewPose(0.1, 0, 0),
			spatialmath.NewPose(0.2, 0, 0),
			spatialmath.NewPose(0.1, 0, math.Pi),
			spatialmath.NewPose(0, 0, math.Pi),
		}
		p := Build(poses, testLightRadius, 5)
		test.That(t, p.NumSegments(), test.ShouldEqual, 2)
		test.That(t, p.Segment(0), test.ShouldHaveLength, 3)
		test.That(t, p.Segment(1), test.ShouldHaveLength, 2)
	})

	kinked := []spatialmath.Pose{
		spatialmath.NewPose(0, 0, 0),
		spatialmath.NewPose(0.1, 0, 0),
		spatialmath.NewPose(0.2, 0, 0),
		spatialmath.NewPose(0.3, 0.15, 0),
		spatialmath.NewPose(0.35, -0.05, 0),
		spatialmath.NewPose(0.45, -0.05, 0),
	}

	t.Run("tip is bridged", func(t *testing.T) {
		p := Build(kinked, testLightRadius, 2)
		test.That(t, p.NumSegments(), test.ShouldEqual, 1)
		s := p.Segment(0)
		test.That(t, s, test.ShouldHaveLength, 5)
		test.That(t, s[3], test.ShouldResemble, kinked[4])
		checkContinuity(t, p)
	})

	t.Run("tip is kept without lookback", func(t *testing.T) {
		p := Build(kinked, testLightRadius, 0)
		test.That(t, p.NumSegments(), test.ShouldEqual, 2)
		test.That(t, p.Segment(0), test.ShouldHaveLength, 4)
		checkContinuity(t, p)
	})

	t.Run("random streams stay continuous within segments", func(t *testing.T) {
		r := rand.New(rand.NewSource(42))
		for trial := 0; trial < 50; trial++ {
			poses := randomWalk(r, 200)
			for _, tip := range []int{0, 1, 5, 10} {
				p := Build(poses, testLightRadius, tip)
				checkContinuity(t, p)
				test.That(t, p.NumPoints(), test.ShouldBeLessThanOrEqualTo, len(poses))
			}
		}
	})

	t.Run("rebuilding flattened output is idempotent", func(t *testing.T) {
		r := rand.New(rand.NewSource(7))
		for trial := 0; trial < 50; trial++ {
			first := Build(randomWalk(r, 150), testLightRadius, 4)
			second := Build(first.Flatten(), testLightRadius, 0)
			test.That(t, cmp.Diff(first.Segments(), second.Segments()), test.ShouldBeEmpty)
		}
	})
}

func TestCursorHelpers(t *testing.T) {
	p := NewPath(Segment(straightLine(3, 0.1)), nil, Segment(straightLine(4, 0.1)))
	test.That(t, p.NumSegments(), test.ShouldEqual, 2)
	test.That(t, p.NumPoints(), test.ShouldEqual, 7)

	c := Cursor{Segment: 1, Index: 2}
	test.That(t, p.Valid(c), test.ShouldBeTrue)
	test.That(t, p.Valid(Cursor{Segment: 1, Index: 4}), test.ShouldBeFalse)
	test.That(t, p.Valid(Cursor{Segment: 2}), test.ShouldBeFalse)
	test.That(t, p.Ordinal(c), test.ShouldEqual, 5)
	test.That(t, p.CursorAt(5), test.ShouldResemble, c)
	test.That(t, p.CursorAt(100), test.ShouldResemble, Cursor{Segment: 1, Index: 3})
	test.That(t, p.Slice(c), test.ShouldHaveLength, 2)
	test.That(t, p.Flatten(), test.ShouldHaveLength, 7)

	next, ok := p.NextSegment(Cursor{Segment: 0, Index: 2}, false)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, Cursor{Segment: 1})

	_, ok = p.NextSegment(c, false)
	test.That(t, ok, test.ShouldBeFalse)

	next, ok = p.NextSegment(c, true)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, Cursor{})
}
