package locator

import (
	"time"

	"go.viam.com/pathfollower/spatialmath"
)

// PoseFilter fuses absolute and relative pose events into one pose estimate. Implementations
// need not be safe for concurrent use; the Locator serializes calls.
type PoseFilter interface {
	Update(e Event) spatialmath.Pose
}

// PredictionFilter anchors relative motion on the most recent absolute fix: between fixes the
// estimate is the last fix composed with the odometry travelled since it.
type PredictionFilter struct {
	anchor     spatialmath.Pose
	anchorOdom spatialmath.Pose
	odom       spatialmath.Pose
	haveOdom   bool
	lastFix    time.Time
}

// NewPredictionFilter returns a filter that starts out at the origin.
func NewPredictionFilter() *PredictionFilter {
	return &PredictionFilter{}
}

// Update implements PoseFilter.
func (f *PredictionFilter) Update(e Event) spatialmath.Pose {
	switch e.Kind {
	case Absolute:
		f.anchor = e.Pose
		f.anchorOdom = f.odom
		f.lastFix = e.Time
		return e.Pose
	case Relative:
		switch {
		case e.Restart:
			// the new run is measured from where the robot was when it began
			f.anchor = f.Estimate()
			f.anchorOdom = spatialmath.NewZeroPose()
			f.haveOdom = true
		case !f.haveOdom:
			// the odometry frame is arbitrary, so its first reading maps onto the anchor
			f.anchorOdom = e.Pose
			f.haveOdom = true
		}
		f.odom = e.Pose
	}
	return f.Estimate()
}

// Estimate returns the current fused pose.
func (f *PredictionFilter) Estimate() spatialmath.Pose {
	return spatialmath.Compose(f.anchor, spatialmath.PoseBetween(f.anchorOdom, f.odom))
}

// LastFix returns the time of the most recent absolute fix, zero if there was none.
func (f *PredictionFilter) LastFix() time.Time {
	return f.lastFix
}
