package geom

import "math"

// Point is a position in the shared 2D scene coordinate space. Scene units
// are whatever the host uses; the engine never converts them.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// parallelEpsilon is the determinant tolerance below which two segments are
// treated as parallel and a quadratic coefficient as degenerate.
const parallelEpsilon = 1e-10

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Hypot(dx, dy)
}

// Translate moves p by distance along the heading given in radians.
func Translate(p Point, headingRad, distance float64) Point {
	return Point{
		X: p.X + distance*math.Cos(headingRad),
		Y: p.Y + distance*math.Sin(headingRad),
	}
}

// Bearing returns the angle in radians of the vector from -> to.
func Bearing(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// NormalizeAngle wraps an angle in radians into [-pi, pi].
func NormalizeAngle(rad float64) float64 {
	for rad > math.Pi {
		rad -= 2 * math.Pi
	}
	for rad < -math.Pi {
		rad += 2 * math.Pi
	}
	return rad
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// IntersectSegments returns the intersection point of segments a0-a1 and
// b0-b1. The second return value is false when the segments are parallel
// (determinant within parallelEpsilon) or the intersection falls outside
// either segment.
func IntersectSegments(a0, a1, b0, b1 Point) (Point, bool) {
	rx := a1.X - a0.X
	ry := a1.Y - a0.Y
	sx := b1.X - b0.X
	sy := b1.Y - b0.Y

	denom := rx*sy - ry*sx
	if math.Abs(denom) < parallelEpsilon {
		return Point{}, false
	}

	qx := b0.X - a0.X
	qy := b0.Y - a0.Y
	t := (qx*sy - qy*sx) / denom
	u := (qx*ry - qy*rx) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return Point{X: a0.X + t*rx, Y: a0.Y + t*ry}, true
}

// IntersectRayCircle returns the earliest point where the segment p0-p1
// enters the circle. Zero-length segments and misses report false; the
// degenerate quadratic never divides by zero.
func IntersectRayCircle(p0, p1, center Point, radius float64) (Point, bool) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	fx := p0.X - center.X
	fy := p0.Y - center.Y

	a := dx*dx + dy*dy
	if a < parallelEpsilon {
		return Point{}, false
	}
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return Point{}, false
	}
	sq := math.Sqrt(disc)

	t := (-b - sq) / (2 * a)
	if t < 0 || t > 1 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 || t > 1 {
		return Point{}, false
	}
	return Point{X: p0.X + t*dx, Y: p0.Y + t*dy}, true
}

// PointInCone reports whether p lies inside the cone anchored at origin.
// The distance from origin must fall in [cut, rangeMax] and the bearing to p
// must be within halfAngleRad of directionRad. A point coincident with the
// origin counts only when the cone has no inner exclusion radius.
func PointInCone(p, origin Point, rangeMax, cut, directionRad, halfAngleRad float64) bool {
	d := Dist(origin, p)
	if d < cut || d > rangeMax {
		return false
	}
	if d < parallelEpsilon {
		return cut <= 0
	}
	delta := NormalizeAngle(Bearing(origin, p) - directionRad)
	return math.Abs(delta) <= halfAngleRad
}

// DistancePointToLine returns the perpendicular distance from p to the
// infinite line through p0 and p1. When p0 and p1 coincide the result is the
// plain point distance.
func DistancePointToLine(p0, p1, p Point) float64 {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	length := math.Hypot(dx, dy)
	if length < parallelEpsilon {
		return Dist(p0, p)
	}
	return math.Abs(dx*(p0.Y-p.Y)-dy*(p0.X-p.X)) / length
}
