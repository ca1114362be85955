package cli

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/pathfollower/base/sim"
	"go.viam.com/pathfollower/follow"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/route/routeplot"
	"go.viam.com/pathfollower/spatialmath"
)

const (
	defaultSimStep    = 50 * time.Millisecond
	defaultSimTimeout = 10 * time.Minute
)

var errSimTimeout = errors.New("simulation timed out")

// SimulateAction follows a path in closed loop on a simulated base.
func SimulateAction(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		name, err := s.nameArg()
		if err != nil {
			return err
		}
		_, p, err := s.load(name)
		if err != nil {
			return err
		}
		if p.Empty() {
			return errors.Errorf("path %q has no waypoints", name)
		}
		pr, err := route.ParseProgress(c.String(fromFlag))
		if err != nil {
			return err
		}
		step := c.Duration(stepFlag)
		if step <= 0 {
			return errors.New("step must be positive")
		}
		start := p.Pose(pr.Cursor(p))
		if raw := c.String(startFlag); raw != "" {
			var ok bool
			if start, ok = route.ParsePose(raw); !ok {
				return errors.Errorf("invalid start pose %q", raw)
			}
		}

		params := s.cfg.Follow
		if c.Bool(loopFlag) {
			params.Loop = true
		}
		b, err := sim.NewBase(s.cfg.Sim, start)
		if err != nil {
			return err
		}
		task := follow.NewTask(p, params, s.logger.Sublogger("follow"))
		task.Seek(pr)

		limit := int(c.Duration(timeoutFlag) / step)
		steps := 0
		trace := []spatialmath.Pose{start}
		next := func(ctx context.Context) (spatialmath.Pose, error) {
			if err := ctx.Err(); err != nil {
				return spatialmath.Pose{}, err
			}
			if steps >= limit {
				return spatialmath.Pose{}, errSimTimeout
			}
			steps++
			pose := b.Step(step)
			trace = append(trace, pose)
			return pose, nil
		}
		runErr := follow.Run(c.Context, task, next, b)
		elapsed := time.Duration(steps) * step

		if out := c.String(outFlag); out != "" {
			if err := routeplot.Save(out, name, p, trace); err != nil {
				return err
			}
			infof(c.App.ErrWriter, "wrote %s", out)
		}
		if runErr != nil {
			warningf(c.App.Writer, "stopped after %v at %s: %v", elapsed, task.Progress(), runErr)
			return runErr
		}
		infof(c.App.Writer, "completed %s in %v (%d steps), final pose %s", name, elapsed, steps, formatPose(b.Pose()))
		return nil
	})
}
