package follow

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pathfollower/base"
	"go.viam.com/pathfollower/spatialmath"
)

// PoseFunc blocks for the next live pose.
type PoseFunc func(ctx context.Context) (spatialmath.Pose, error)

// Run drives t to completion: every pose from next is tracked and the resulting command sent to
// act. The base is stopped whenever no command can be produced. Run returns nil once the path is
// complete, ErrOutOfPath if it is lost, or the first error from next or act.
func Run(ctx context.Context, t *Task, next PoseFunc, act base.Actuator) error {
	stopped := false
	stop := func(cause error) error {
		if stopped && cause == nil {
			return nil
		}
		stopped = true
		return multierr.Combine(cause, act.Stop(ctx))
	}
	for {
		pose, err := next(ctx)
		if err != nil {
			return stop(err)
		}
		cmd, err := t.Track(pose)
		switch {
		case err == nil:
			if err := act.Drive(ctx, cmd); err != nil {
				return errors.Wrap(err, "driving base")
			}
			stopped = false
		case errors.Is(err, ErrComplete):
			return stop(nil)
		case errors.Is(err, ErrRelocationFailed):
			t.logger.Debugw("no waypoint in range, waiting", "pose", pose)
			if err := stop(nil); err != nil {
				return err
			}
		default:
			return stop(err)
		}
	}
}
