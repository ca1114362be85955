package route

import (
	"github.com/pkg/errors"

	"go.viam.com/pathfollower/spatialmath"
)

// ErrNotFound is returned by Relocate when no waypoint qualifies.
var ErrNotFound = errors.New("no waypoint within search radius")

// RelocateOptions configures a relocalization scan.
type RelocateOptions struct {
	// Pose is the live robot pose.
	Pose spatialmath.Pose
	// Start is where the scan begins. An invalid start is treated as the path origin.
	Start Cursor
	// LightRadius is the lookahead disc radius.
	LightRadius float64
	// SearchRadius bounds the distance from the robot to an acceptable waypoint.
	SearchRadius float64
	// Loop continues the scan from the path origin back round to Start.
	Loop bool
}

// Relocate recovers a cursor for an arbitrary pose. Waypoints are visited from Start to the end
// of the path, then, if Loop is set, from the path origin back up to Start.
//
// Only waypoints within SearchRadius of the robot qualify. Of those, one that already lies inside
// the robot's lookahead disc and faces the same way as the robot is returned as soon as it is
// seen; otherwise the first qualifying waypoint in scan order is returned. This walks the whole
// path in the worst case and must not be run every control tick.
func (p *Path) Relocate(opts RelocateOptions) (Cursor, error) {
	if p.Empty() {
		return Cursor{}, ErrNotFound
	}
	start := opts.Start
	if !p.Valid(start) {
		start = Cursor{}
	}

	toLight := spatialmath.PoseInverse(spatialmath.LightSpot(opts.Pose, opts.LightRadius))
	lightSquared := opts.LightRadius * opts.LightRadius
	searchSquared := opts.SearchRadius * opts.SearchRadius

	var (
		fallback Cursor
		found    bool
	)
	visit := func(c Cursor) bool {
		waypoint := p.Pose(c)
		if spatialmath.DistanceSquared(waypoint, opts.Pose) >= searchSquared {
			return false
		}
		local := spatialmath.Compose(toLight, waypoint)
		if spatialmath.InsideDisc(local.Point, lightSquared) && local.Heading().X > 0 {
			fallback, found = c, true
			return true
		}
		if !found {
			fallback, found = c, true
		}
		return false
	}

	if p.scan(start, opts.Loop, visit) || found {
		return fallback, nil
	}
	return Cursor{}, ErrNotFound
}

// scan visits waypoints in relocalization order until visit returns true.
func (p *Path) scan(start Cursor, loop bool, visit func(Cursor) bool) bool {
	for j := start.Index; j < len(p.segments[start.Segment]); j++ {
		if visit(Cursor{start.Segment, j}) {
			return true
		}
	}
	for i := start.Segment + 1; i < len(p.segments); i++ {
		for j := range p.segments[i] {
			if visit(Cursor{i, j}) {
				return true
			}
		}
	}
	if !loop {
		return false
	}
	for i := 0; i < start.Segment; i++ {
		for j := range p.segments[i] {
			if visit(Cursor{i, j}) {
				return true
			}
		}
	}
	for j := 0; j < start.Index; j++ {
		if visit(Cursor{start.Segment, j}) {
			return true
		}
	}
	return false
}
