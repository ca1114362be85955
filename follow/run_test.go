package follow

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/pathfollower/base/fake"
	"go.viam.com/pathfollower/base/sim"
	"go.viam.com/pathfollower/control"
	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/testutils/inject"
)

// replay serves poses in order and fails once they run out.
func replay(poses ...spatialmath.Pose) PoseFunc {
	return func(ctx context.Context) (spatialmath.Pose, error) {
		if len(poses) == 0 {
			return spatialmath.Pose{}, errors.New("no more poses")
		}
		p := poses[0]
		poses = poses[1:]
		return p, nil
	}
}

func TestRunOnSimulator(t *testing.T) {
	task := FromPoses(line(60, 0.1, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
	b, err := sim.NewBase(sim.DefaultConfig(), spatialmath.NewPose(-0.3, 0.1, 0))
	test.That(t, err, test.ShouldBeNil)

	steps := 0
	next := func(ctx context.Context) (spatialmath.Pose, error) {
		if steps++; steps > 2000 {
			return spatialmath.Pose{}, errors.New("step budget exhausted")
		}
		return b.Step(50 * time.Millisecond), nil
	}
	test.That(t, Run(context.Background(), task, next, b), test.ShouldBeNil)
	test.That(t, b.Pose().X(), test.ShouldBeGreaterThan, 5)
}

func TestRunStopsWhileRelocating(t *testing.T) {
	task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
	act := fake.NewActuator()

	err := Run(context.Background(), task, replay(
		spatialmath.NewPose(100, 0, 0),
		spatialmath.NewPose(100, 0, 0),
		spatialmath.NewZeroPose(),
	), act)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no more poses")

	// one stop while out of range, one drive, one stop when the poses ran out
	cmds := act.Commands()
	test.That(t, cmds, test.ShouldHaveLength, 3)
	test.That(t, cmds[0], test.ShouldResemble, control.Stop)
	test.That(t, cmds[1].Speed, test.ShouldEqual, 1)
	test.That(t, cmds[2], test.ShouldResemble, control.Stop)
	test.That(t, act.StopCount, test.ShouldEqual, 2)
}

func TestRunOutcomes(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
		act := fake.NewActuator()
		err := Run(context.Background(), task, replay(
			spatialmath.NewPose(4.2, 0, 0),
			spatialmath.NewPose(4.6, 0, 0),
		), act)
		test.That(t, err, test.ShouldBeNil)
		last, ok := act.Last()
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, last, test.ShouldResemble, control.Stop)
	})

	t.Run("out of path", func(t *testing.T) {
		params := DefaultParameters()
		params.AutoReinitialize = false
		task := FromPoses(line(10, 0.5, 0, 0), params, logging.NewTestLogger(t))
		act := fake.NewActuator()
		err := Run(context.Background(), task, replay(
			spatialmath.NewZeroPose(),
			spatialmath.NewPose(2.25, 1, 0),
		), act)
		test.That(t, err, test.ShouldBeError, ErrOutOfPath)
		test.That(t, act.StopCount, test.ShouldEqual, 1)
	})

	t.Run("closed actuator", func(t *testing.T) {
		task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
		act := fake.NewActuator()
		test.That(t, act.Close(context.Background()), test.ShouldBeNil)
		err := Run(context.Background(), task, replay(spatialmath.NewZeroPose()), act)
		test.That(t, errors.Is(err, fake.ErrClosed), test.ShouldBeTrue)
	})

	t.Run("failing stop", func(t *testing.T) {
		task := FromPoses(line(10, 0.5, 0, 0), DefaultParameters(), logging.NewTestLogger(t))
		act := &inject.Actuator{
			Actuator: fake.NewActuator(),
			StopFunc: func(ctx context.Context) error { return errors.New("motor fault") },
		}
		err := Run(context.Background(), task, replay(spatialmath.NewPose(100, 0, 0)), act)
		test.That(t, err.Error(), test.ShouldContainSubstring, "motor fault")
	})
}
