package route

import (
	"math"

	"go.viam.com/pathfollower/spatialmath"
)

// MaxContinuousHeading is the largest heading change between two consecutive waypoints of a
// segment.
const MaxContinuousHeading = math.Pi / 3

// Continuous reports whether next can directly follow ref in a segment: expressed in ref's frame,
// next must sit inside the disc of radius lightRadius centred lightRadius ahead of ref, and turn
// by less than MaxContinuousHeading.
func Continuous(ref, next spatialmath.Pose, lightRadius float64) bool {
	local := spatialmath.PoseBetween(ref, next)
	return spatialmath.InsideAheadDisc(local.Point, lightRadius) &&
		math.Abs(local.Theta) < MaxContinuousHeading
}

// Build splits a pose stream into maximal continuous segments.
//
// A point that breaks continuity with the end of the current segment is a tip candidate. Up to
// tipIgnore+1 of the most recent points are searched backwards for one that is continuous with
// the candidate; if one is found at backward offset k the k points after it are discarded and
// the candidate is appended, bridging a short kink. Otherwise the candidate opens a new segment.
//
// An empty stream gives an empty Path.
func Build(poses []spatialmath.Pose, lightRadius float64, tipIgnore int) *Path {
	if len(poses) == 0 {
		return &Path{}
	}
	if tipIgnore < 0 {
		tipIgnore = 0
	}

	segments := []Segment{{poses[0]}}
	for _, p := range poses[1:] {
		current := segments[len(segments)-1]
		if Continuous(current[len(current)-1], p, lightRadius) {
			segments[len(segments)-1] = append(current, p)
			continue
		}

		bridged := false
		window := min(tipIgnore+1, len(current))
		// k = 0 is the point that just failed.
		for k := 1; k < window; k++ {
			if Continuous(current[len(current)-1-k], p, lightRadius) {
				segments[len(segments)-1] = append(current[:len(current)-k], p)
				bridged = true
				break
			}
		}
		if !bridged {
			segments = append(segments, Segment{p})
		}
	}
	return &Path{segments: segments}
}
