package control

import (
	"math"

	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/utils"
)

const (
	// ApproachMargin is the heading error tolerated when handing over to pursuit.
	ApproachMargin = math.Pi / 16
	// approachGain converts remaining distance into speed.
	approachGain = 0.5
	// reverseBearing is the bearing past which a target behind the robot is reached by backing up.
	reverseBearing = 3 * math.Pi / 4
	// reverseReach limits backing up to targets less than this far behind the light spot.
	reverseReach = -1.0
)

// AcceptanceSquared returns the squared acceptance radius around the light spot for the given
// light radius. A target inside it is guaranteed to lie within the pursuit disc once the heading
// error is under ApproachMargin.
func AcceptanceSquared(lightRadius float64) float64 {
	rho := math.Sqrt2 * lightRadius
	angle := 3*math.Pi/4 + ApproachMargin
	x := lightRadius + rho*math.Cos(angle)
	y := rho * math.Sin(angle)
	return (x*x + y*y) * 0.95
}

// Approach steers a robot at pose towards target, the waypoint where pursuit should start. It
// reports complete once the target sits close to the light spot with a small heading error; the
// returned command is then meaningless.
func Approach(pose, target spatialmath.Pose, lightRadius float64) (Command, bool) {
	local := spatialmath.PoseBetween(spatialmath.LightSpot(pose, lightRadius), target)
	p, d := local.Point, local.Theta

	if p.Dot(p) < AcceptanceSquared(lightRadius) {
		if math.Abs(d) < ApproachMargin {
			return Stop, true
		}
		return Command{Speed: 1, Turn: utils.Sign(d) * -math.Pi / 2}, false
	}

	speed := math.Min(1, approachGain*p.Norm())
	dir := -spatialmath.Bearing(p)
	if p.X > reverseReach && math.Abs(dir) > reverseBearing {
		return Command{Speed: utils.Sign(p.X) * speed, Turn: utils.Sign(dir)*math.Pi - dir}, false
	}
	return Command{Speed: speed, Turn: utils.Clamp(dir, -math.Pi/2, math.Pi/2)}, false
}
