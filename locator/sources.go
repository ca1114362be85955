package locator

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"

	"go.viam.com/pathfollower/spatialmath"
)

// DefaultMinQuality is the solution quality a fix needs, for both position and heading, before
// it is trusted.
const DefaultMinQuality = 40

// Fix is one solution of a global positioning receiver.
type Fix struct {
	Time  time.Time
	Point *geo.Point
	// HeadingDeg is a compass heading: degrees clockwise from north.
	HeadingDeg      float64
	PositionQuality int
	HeadingQuality  int
}

// FixSource turns receiver fixes into absolute poses in a local east/north frame around Origin.
type FixSource struct {
	SourceName string
	Origin     *geo.Point
	MinQuality int
	// Open connects to the receiver. The returned channel is closed when the connection drops.
	Open func(ctx context.Context) (<-chan Fix, error)
}

// Name implements PoseSource.
func (s *FixSource) Name() string {
	return s.SourceName
}

// Usable reports whether f passes the quality gate.
func (s *FixSource) Usable(f Fix) bool {
	return f.Point != nil && f.PositionQuality >= s.MinQuality && f.HeadingQuality >= s.MinQuality
}

// Event converts f to an absolute pose event in the local frame.
func (s *FixSource) Event(f Fix) Event {
	return Event{Kind: Absolute, Time: f.Time, Pose: spatialmath.GeoPoseToPose(f.Point, f.HeadingDeg, s.Origin)}
}

// Run implements PoseSource.
func (s *FixSource) Run(ctx context.Context, emit func(Event)) error {
	fixes, err := s.Open(ctx)
	if err != nil {
		return errors.Wrapf(err, "opening %s", s.SourceName)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-fixes:
			if !ok {
				return errors.Errorf("%s: fix stream closed", s.SourceName)
			}
			if !s.Usable(f) {
				continue
			}
			emit(s.Event(f))
		}
	}
}

// Odometry is one incremental motion reading, expressed in the robot frame at the previous
// reading.
type Odometry struct {
	Time  time.Time
	Delta spatialmath.Pose
}

// OdometrySource integrates odometry increments into relative poses.
type OdometrySource struct {
	SourceName string
	// Timeout fails the run when no reading arrives for that long. Zero waits forever.
	Timeout time.Duration
	// Clock times the silence. Nil uses the wall clock.
	Clock clock.Clock
	// Open connects to the odometry stream. The returned channel is closed when it drops.
	Open func(ctx context.Context) (<-chan Odometry, error)
}

// Name implements PoseSource.
func (s *OdometrySource) Name() string {
	return s.SourceName
}

// Run implements PoseSource. Each run integrates from a fresh origin and flags its first pose
// with Restart so the filter re-anchors there.
func (s *OdometrySource) Run(ctx context.Context, emit func(Event)) error {
	readings, err := s.Open(ctx)
	if err != nil {
		return errors.Wrapf(err, "opening %s", s.SourceName)
	}
	clk := s.Clock
	if clk == nil {
		clk = clock.New()
	}
	pose := spatialmath.NewZeroPose()
	first := true
	var silence <-chan time.Time
	for {
		if s.Timeout > 0 {
			silence = clk.After(s.Timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-silence:
			return errors.Errorf("%s: no odometry for %v", s.SourceName, s.Timeout)
		case r, ok := <-readings:
			if !ok {
				return errors.Errorf("%s: odometry stream closed", s.SourceName)
			}
			pose = spatialmath.Compose(pose, r.Delta)
			emit(Event{Kind: Relative, Time: r.Time, Pose: pose, Restart: first})
			first = false
		}
	}
}
