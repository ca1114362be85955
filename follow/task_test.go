package follow

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/pathfollower/base/sim"
	"go.viam.com/pathfollower/control"
	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
)

func line(n int, spacing, x0, y float64) []spatialmath.Pose {
	poses := make([]spatialmath.Pose, n)
	for i := range poses {
		poses[i] = spatialmath.NewPose(x0+float64(i)*spacing, y, 0)
	}
	return poses
}

func TestParameters(t *testing.T) {
	p := DefaultParameters()
	test.That(t, p.Validate("follow"), test.ShouldBeNil)
	test.That(t, p.SearchRadius, test.ShouldEqual, 5)
	test.That(t, p.LightRadius, test.ShouldEqual, 0.4)
	test.That(t, p.Loop, test.ShouldBeFalse)
	test.That(t, p.AutoReinitialize, test.ShouldBeTrue)
	test.That(t, p.TipIgnore, test.ShouldEqual, 10)

	bad := p
	bad.LightRadius = 0
	test.That(t, bad.Validate("follow"), test.ShouldNotBeNil)

	bad = p
	bad.SearchRadius = 0.2
	err := bad.Validate("follow")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "search_radius")

	bad = p
	bad.TipIgnore = -1
	test.That(t, bad.Validate("follow"), test.ShouldNotBeNil)
}

func TestStateString(t *testing.T) {
	test.That(t, Relocating.String(), test.ShouldEqual, "relocating")
	test.That(t, Initializing.String(), test.ShouldEqual, "initializing")
	test.That(t, Tracking.String(), test.ShouldEqual, "tracking")
	test.That(t, State(7).String(), test.ShouldEqual, "unknown")
}

func TestTrackFallsThroughToTracking(t *testing.T) {
	logger := logging.NewTestLogger(t)
	task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logger)
	test.That(t, task.Path().NumSegments(), test.ShouldEqual, 1)
	test.That(t, task.State(), test.ShouldEqual, Relocating)

	cmd, err := task.Track(spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.State(), test.ShouldEqual, Tracking)
	test.That(t, cmd.Speed, test.ShouldEqual, 1)
	test.That(t, cmd.Turn, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{Segment: 0, Index: 1})
}

func TestTrackRelocationFailure(t *testing.T) {
	task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))

	_, err := task.Track(spatialmath.NewPose(100, 100, 0))
	test.That(t, err, test.ShouldBeError, ErrRelocationFailed)
	test.That(t, task.State(), test.ShouldEqual, Relocating)

	_, err = task.Track(spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.State(), test.ShouldEqual, Tracking)

	empty := NewTask(&route.Path{}, DefaultParameters(), logging.NewTestLogger(t))
	_, err = empty.Track(spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeError, ErrRelocationFailed)
	test.That(t, empty.Progress(), test.ShouldEqual, "100%(0/0)")
}

func TestTrackApproach(t *testing.T) {
	task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))

	// far enough back that waypoint 0 is not in the light spot yet
	cmd, err := task.Track(spatialmath.NewPose(-2, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.State(), test.ShouldEqual, Initializing)
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{})
	test.That(t, cmd.Speed, test.ShouldAlmostEqual, 0.8)
	test.That(t, cmd.Turn, test.ShouldAlmostEqual, 0)
}

func TestTrackOutOfPath(t *testing.T) {
	params := DefaultParameters()
	params.AutoReinitialize = false
	task := FromPoses(line(10, 0.5, 0, 0), params, logging.NewTestLogger(t))
	_, err := task.Track(spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)

	lost := spatialmath.NewPose(2.25, 1, 0)
	_, err = task.Track(lost)
	test.That(t, err, test.ShouldBeError, ErrOutOfPath)
	test.That(t, task.State(), test.ShouldEqual, Tracking)
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{Segment: 0, Index: 1})

	params.AutoReinitialize = true
	task = FromPoses(line(10, 0.5, 0, 0), params, logging.NewTestLogger(t))
	_, err = task.Track(spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)

	cmd, err := task.Track(lost)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.State(), test.ShouldEqual, Initializing)
	test.That(t, cmd, test.ShouldNotResemble, control.Stop)
}

func TestTrackComplete(t *testing.T) {
	logger, observed := logging.NewObservedTestLogger(t)
	task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logger)

	_, err := task.Track(spatialmath.NewPose(4.2, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{Segment: 0, Index: 9})

	_, err = task.Track(spatialmath.NewPose(4.6, 0, 0))
	test.That(t, err, test.ShouldBeError, ErrComplete)
	test.That(t, observed.FilterMessage("path complete").Len(), test.ShouldEqual, 1)

	// complete is terminal until reset
	_, err = task.Track(spatialmath.NewPose(4.2, 0, 0))
	test.That(t, err, test.ShouldBeError, ErrComplete)

	task.Reset()
	test.That(t, task.State(), test.ShouldEqual, Relocating)
	_, err = task.Track(spatialmath.NewPose(4.2, 0, 0))
	test.That(t, err, test.ShouldBeNil)
}

func TestTrackLoopWraps(t *testing.T) {
	params := DefaultParameters()
	params.Loop = true
	task := FromPoses(line(10, 0.5, 0, 0), params, logging.NewTestLogger(t))

	_, err := task.Track(spatialmath.NewPose(4.2, 0, 0))
	test.That(t, err, test.ShouldBeNil)

	cmd, err := task.Track(spatialmath.NewPose(4.6, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.State(), test.ShouldEqual, Initializing)
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{})
	// the origin is straight behind, so the base turns around on the spot
	test.That(t, cmd.Speed, test.ShouldAlmostEqual, 1)
	test.That(t, math.Abs(cmd.Turn), test.ShouldAlmostEqual, math.Pi/2)
}

func TestSeek(t *testing.T) {
	task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
	_, err := task.Track(spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)

	task.Seek(route.ProgressIndex(5))
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{Segment: 0, Index: 5})
	test.That(t, task.State(), test.ShouldEqual, Relocating)
	test.That(t, task.Progress(), test.ShouldEqual, "55%(5/9)")

	// relocalization scans forward from the sought cursor
	_, err = task.Track(spatialmath.NewPose(2.5, 0, math.Pi))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, task.Cursor(), test.ShouldResemble, route.Cursor{Segment: 0, Index: 5})
}

// drive closes the loop between a task and a simulated base until the task reports an error
// or the step budget runs out.
func drive(t *testing.T, task *Task, b *sim.Base, steps int) (spatialmath.Pose, error) {
	t.Helper()
	ctx := context.Background()
	for range steps {
		pose := b.Pose()
		cmd, err := task.Track(pose)
		if err != nil {
			return pose, err
		}
		test.That(t, b.Drive(ctx, cmd), test.ShouldBeNil)
		b.Step(50 * time.Millisecond)
	}
	return b.Pose(), nil
}

func TestClosedLoop(t *testing.T) {
	for _, tc := range []struct {
		name  string
		start spatialmath.Pose
	}{
		{"offset at the start", spatialmath.NewPose(-0.3, 0.15, 0)},
		{"behind the start", spatialmath.NewPose(-1.5, 0, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			task := FromPoses(line(60, 0.1, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
			b, err := sim.NewBase(sim.DefaultConfig(), tc.start)
			test.That(t, err, test.ShouldBeNil)

			end, err := drive(t, task, b, 2000)
			test.That(t, err, test.ShouldBeError, ErrComplete)
			test.That(t, end.X(), test.ShouldBeGreaterThan, 5)
			test.That(t, math.Abs(end.Y()), test.ShouldBeLessThan, 0.1)
		})
	}
}

func TestClosedLoopAdvancesSegments(t *testing.T) {
	path := route.NewPath(route.Segment(line(30, 0.1, 0, 0)), route.Segment(line(28, 0.1, 3.3, 0)))
	task := NewTask(path, DefaultParameters(), logging.NewTestLogger(t))
	b, err := sim.NewBase(sim.DefaultConfig(), spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)

	end, err := drive(t, task, b, 2000)
	test.That(t, err, test.ShouldBeError, ErrComplete)
	test.That(t, task.Cursor().Segment, test.ShouldEqual, 1)
	test.That(t, end.X(), test.ShouldBeGreaterThan, 5.5)
	test.That(t, errors.Is(err, ErrComplete), test.ShouldBeTrue)
}
