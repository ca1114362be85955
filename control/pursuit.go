package control

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/utils"
)

var (
	// ErrTermination means fewer than two waypoints remain ahead of the cursor.
	ErrTermination = errors.New("segment exhausted")
	// ErrOutOfPath means no waypoint ahead of the cursor lies inside the light spot.
	ErrOutOfPath = errors.New("path is out of the light spot")
)

// Pursue computes the turn proportion for a robot at pose following segment from index.
//
// The first waypoint at or after index inside the light spot becomes the new cursor, returned as
// the first value. The visible chord runs from it to the last consecutive waypoint still in the
// disc. Both ends are projected along their headings onto the disc boundary and the turn is
// derived from the angle the chord subtends: zero when the chord passes through the centre and
// approaching ±π/2 as it slides towards the edge.
func Pursue(pose spatialmath.Pose, segment []spatialmath.Pose, index int, lightRadius float64) (int, float64, error) {
	light := spatialmath.LightSpot(pose, lightRadius)
	radiusSquared := lightRadius * lightRadius

	begin := -1
	for i := max(index, 0); i < len(segment); i++ {
		if spatialmath.DistanceSquared(segment[i], light) < radiusSquared {
			begin = i
			break
		}
	}
	if begin < 0 {
		if len(segment)-index < 2 {
			return index, 0, ErrTermination
		}
		return index, 0, ErrOutOfPath
	}
	end := begin
	for end+1 < len(segment) && spatialmath.DistanceSquared(segment[end+1], light) < radiusSquared {
		end++
	}

	toLight := spatialmath.PoseInverse(light)
	entry := spatialmath.RayCircleIntersection(spatialmath.Compose(toLight, segment[begin]), radiusSquared, false)
	exit := spatialmath.RayCircleIntersection(spatialmath.Compose(toLight, segment[end]), radiusSquared, true)
	diff := spatialmath.Bearing(exit) - spatialmath.Bearing(entry)
	return begin, (utils.Sign(diff)*math.Pi - diff) / 2, nil
}
