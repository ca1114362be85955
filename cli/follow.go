package cli

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/pathfollower/config"
	"go.viam.com/pathfollower/locator"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/tracker"
)

// FollowAction follows a path with the poses read from stdin and prints one "speed,turn" line
// per pose, or "stop" when no command could be produced.
func FollowAction(c *cli.Context) error {
	return withSession(c, func(s *session) (err error) {
		name, err := s.nameArg()
		if err != nil {
			return err
		}
		pr, err := route.ParseProgress(c.String(fromFlag))
		if err != nil {
			return err
		}
		tr := tracker.New(s.repo, s.trackerOptions(), s.logger)
		if err := tr.Follow(name, pr); err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, tr.Stop())
		}()

		poseOf := func(_ context.Context, line string) (spatialmath.Pose, bool, error) {
			pose, ok := route.ParsePose(line)
			return pose, ok, nil
		}
		if c.Bool(fuseFlag) {
			f, err := newFuser(s)
			if err != nil {
				return err
			}
			defer f.Close()
			poseOf = f.pose
		}

		scanner := bufio.NewScanner(c.App.Reader)
		for scanner.Scan() {
			pose, ok, err := poseOf(c.Context, scanner.Text())
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if cmd, ok := tr.PutPose(pose); ok {
				printf(c.App.Writer, "%s,%s",
					strconv.FormatFloat(cmd.Speed, 'f', 4, 64), strconv.FormatFloat(cmd.Turn, 'f', 4, 64))
			} else {
				printf(c.App.Writer, "stop")
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "reading poses")
		}
		if progress, ok := tr.Progress(); ok {
			infof(c.App.ErrWriter, "stopped at %s", progress)
		}
		return nil
	})
}

// fuser turns tagged input lines into fused poses:
//
//	fix,<lat>,<lng>,<heading deg>,<position quality>,<heading quality>
//	odom,<x>,<y>,<theta>
//
// With an odometry source configured, odom lines are fed to it as increments so that its
// timeout and restarts apply. Otherwise they are pushed straight to the filter.
type fuser struct {
	loc *locator.Locator
	fix *locator.FixSource

	odom     chan locator.Odometry
	lastOdom *spatialmath.Pose
}

func newFuser(s *session) (*fuser, error) {
	f := &fuser{}
	if sc, ok := s.cfg.Locator.Source(config.SourceTypeFix); ok {
		attrs, err := config.TransformAttributeMap[*config.FixAttributes](sc.Attributes)
		if err != nil {
			return nil, err
		}
		f.fix = &locator.FixSource{SourceName: sc.Name, Origin: attrs.Origin(), MinQuality: attrs.Quality()}
	}
	var sources []locator.PoseSource
	if sc, ok := s.cfg.Locator.Source(config.SourceTypeOdometry); ok {
		attrs, err := config.TransformAttributeMap[*config.OdometryAttributes](sc.Attributes)
		if err != nil {
			return nil, err
		}
		f.odom = make(chan locator.Odometry)
		sources = append(sources, attrs.Source(sc.Name, func(context.Context) (<-chan locator.Odometry, error) {
			return f.odom, nil
		}))
	}
	f.loc = locator.New(locator.NewPredictionFilter(), sources, s.cfg.Locator.Options(), s.logger.Sublogger("locator"))
	return f, nil
}

func (f *fuser) pose(ctx context.Context, line string) (spatialmath.Pose, bool, error) {
	tag, rest, _ := strings.Cut(strings.TrimSpace(line), ",")
	var e locator.Event
	switch tag {
	case "fix":
		if f.fix == nil {
			return spatialmath.Pose{}, false, errors.New("fix input needs a fix source in the locator configuration")
		}
		fix, ok := parseFix(rest)
		if !ok || !f.fix.Usable(fix) {
			return spatialmath.Pose{}, false, nil
		}
		e = f.fix.Event(fix)
	case "odom":
		pose, ok := route.ParsePose(rest)
		if !ok {
			return spatialmath.Pose{}, false, nil
		}
		if f.odom != nil {
			return f.increment(ctx, pose)
		}
		e = locator.Event{Kind: locator.Relative, Time: time.Now(), Pose: pose}
	default:
		return spatialmath.Pose{}, false, nil
	}
	if err := f.loc.Push(ctx, e); err != nil {
		return spatialmath.Pose{}, false, err
	}
	return f.next(ctx)
}

// increment hands the motion since the previous odom line to the odometry source.
func (f *fuser) increment(ctx context.Context, pose spatialmath.Pose) (spatialmath.Pose, bool, error) {
	delta := spatialmath.NewZeroPose()
	if f.lastOdom != nil {
		delta = spatialmath.PoseBetween(*f.lastOdom, pose)
	}
	f.lastOdom = &pose
	select {
	case f.odom <- locator.Odometry{Time: time.Now(), Delta: delta}:
	case <-ctx.Done():
		return spatialmath.Pose{}, false, ctx.Err()
	}
	return f.next(ctx)
}

func (f *fuser) next(ctx context.Context) (spatialmath.Pose, bool, error) {
	pose, _, err := f.loc.Next(ctx)
	if err != nil {
		return spatialmath.Pose{}, false, err
	}
	return pose, true, nil
}

func (f *fuser) Close() {
	f.loc.Close()
}

// parseFix reads "lat,lng,heading,pq,hq". Qualities are integers.
func parseFix(s string) (locator.Fix, bool) {
	fields := strings.Split(s, ",")
	if len(fields) != 5 {
		return locator.Fix{}, false
	}
	fields = lo.Map(fields, func(f string, _ int) string { return strings.TrimSpace(f) })
	var (
		coords [3]float64
		err    error
	)
	for i := range coords {
		if coords[i], err = cast.ToFloat64E(fields[i]); err != nil {
			return locator.Fix{}, false
		}
	}
	pq, err := cast.ToIntE(fields[3])
	if err != nil {
		return locator.Fix{}, false
	}
	hq, err := cast.ToIntE(fields[4])
	if err != nil {
		return locator.Fix{}, false
	}
	return locator.Fix{
		Time:            time.Now(),
		Point:           geo.NewPoint(coords[0], coords[1]),
		HeadingDeg:      coords[2],
		PositionQuality: pq,
		HeadingQuality:  hq,
	}, true
}
