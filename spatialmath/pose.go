// Package spatialmath defines planar rigid transforms and the small amount of circle geometry
// the path follower is built on.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// defaultEpsilon is the tolerance used when comparing poses.
const defaultEpsilon = 1e-8

// Pose is a rigid transform in the plane: a rotation by Theta radians followed by a translation
// to Point. Poses are values; every operation returns a new Pose.
type Pose struct {
	Point r2.Point
	Theta float64
}

// NewPose returns the pose at (x, y) with the given heading in radians.
func NewPose(x, y, theta float64) Pose {
	return Pose{Point: r2.Point{X: x, Y: y}, Theta: NormalizeAngle(theta)}
}

// NewZeroPose returns the identity transform.
func NewZeroPose() Pose {
	return Pose{}
}

// X returns the x coordinate of the pose translation.
func (p Pose) X() float64 {
	return p.Point.X
}

// Y returns the y coordinate of the pose translation.
func (p Pose) Y() float64 {
	return p.Point.Y
}

// Heading returns the unit vector the pose faces.
func (p Pose) Heading() r2.Point {
	sin, cos := math.Sincos(p.Theta)
	return r2.Point{X: cos, Y: sin}
}

// Rotate rotates v by the pose heading, ignoring the translation.
func (p Pose) Rotate(v r2.Point) r2.Point {
	sin, cos := math.Sincos(p.Theta)
	return r2.Point{X: cos*v.X - sin*v.Y, Y: sin*v.X + cos*v.Y}
}

// Transform maps a point expressed in the pose frame into the parent frame.
func (p Pose) Transform(v r2.Point) r2.Point {
	return p.Rotate(v).Add(p.Point)
}

// String implements fmt.Stringer.
func (p Pose) String() string {
	return fmt.Sprintf("{X:%.4f Y:%.4f Theta:%.4f}", p.Point.X, p.Point.Y, p.Theta)
}

// Compose returns a*b, the transform b expressed in the frame that a is expressed in.
func Compose(a, b Pose) Pose {
	return Pose{
		Point: a.Transform(b.Point),
		Theta: NormalizeAngle(a.Theta + b.Theta),
	}
}

// PoseInverse returns the inverse of p, such that Compose(p, PoseInverse(p)) is the identity.
func PoseInverse(p Pose) Pose {
	inv := Pose{Theta: NormalizeAngle(-p.Theta)}
	inv.Point = inv.Rotate(p.Point).Mul(-1)
	return inv
}

// PoseBetween returns the pose of b expressed in the frame of a, i.e. inverse(a) * b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseDelta returns the translational distance and absolute heading change between two poses.
func PoseDelta(a, b Pose) (float64, float64) {
	delta := PoseBetween(a, b)
	return delta.Point.Norm(), math.Abs(delta.Theta)
}

// Distance returns the euclidean distance between the translations of two poses.
func Distance(a, b Pose) float64 {
	return a.Point.Sub(b.Point).Norm()
}

// DistanceSquared returns the squared euclidean distance between the translations of two poses.
func DistanceSquared(a, b Pose) float64 {
	d := a.Point.Sub(b.Point)
	return d.Dot(d)
}

// PoseAlmostEqual returns whether two poses differ by less than epsilon in every component.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, defaultEpsilon)
}

// PoseAlmostEqualEps is PoseAlmostEqual with a caller supplied tolerance.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return math.Abs(a.Point.X-b.Point.X) < epsilon &&
		math.Abs(a.Point.Y-b.Point.Y) < epsilon &&
		math.Abs(NormalizeAngle(a.Theta-b.Theta)) < epsilon
}

// NormalizeAngle wraps theta into (-π, π].
func NormalizeAngle(theta float64) float64 {
	if theta > -math.Pi && theta <= math.Pi {
		return theta
	}
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}
