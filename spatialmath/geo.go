package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
	geo "github.com/kellydunn/golang-geo"
)

// GetCartesianDistance calculates the north/south and east/west displacement between p and q in
// meters. This projects a sphere onto a plane, so it is only accurate for nearby points.
func GetCartesianDistance(p, q *geo.Point) (float64, float64) {
	mod := geo.NewPoint(p.Lat(), q.Lng())
	// GreatCircleDistance is in kilometers.
	distAlongLat := 1e3 * q.GreatCircleDistance(mod)
	distAlongLng := 1e3 * p.GreatCircleDistance(mod)
	return distAlongLat, distAlongLng
}

// GeoPointToPoint returns the east/north position in meters of point relative to origin. The
// projection is linearised about origin.
func GeoPointToPoint(point, origin *geo.Point) r2.Point {
	north, east := GetCartesianDistance(origin, point)
	if point.Lat() < origin.Lat() {
		north = -north
	}
	if point.Lng() < origin.Lng() {
		east = -east
	}
	return r2.Point{X: east, Y: north}
}

// GeoPoseToPose converts a geographic fix and a compass heading (degrees clockwise from north)
// into a planar pose in the east-north frame anchored at origin.
func GeoPoseToPose(point *geo.Point, headingDeg float64, origin *geo.Point) Pose {
	return Pose{
		Point: GeoPointToPoint(point, origin),
		Theta: NormalizeAngle(math.Pi/2 - headingDeg*math.Pi/180),
	}
}
