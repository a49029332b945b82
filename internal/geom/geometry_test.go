package geom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func pointsEqual(a, b Point) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestIntersectSegmentsCrossing(t *testing.T) {
	pt, ok := IntersectSegments(Point{0, 0}, Point{10, 0}, Point{5, -5}, Point{5, 5})
	if !ok {
		t.Fatalf("expected intersection")
	}
	if !pointsEqual(pt, Point{5, 0}) {
		t.Fatalf("unexpected intersection point %+v", pt)
	}
}

func TestIntersectSegmentsSymmetry(t *testing.T) {
	cases := [][4]Point{
		{{0, 0}, {10, 0}, {5, -5}, {5, 5}},
		{{1, 1}, {9, 7}, {1, 7}, {9, 1}},
		{{0, 0}, {4, 4}, {0, 4}, {4, 0}},
	}
	for i, c := range cases {
		a, okA := IntersectSegments(c[0], c[1], c[2], c[3])
		b, okB := IntersectSegments(c[2], c[3], c[0], c[1])
		if okA != okB {
			t.Fatalf("case %d: asymmetric hit reporting", i)
		}
		if okA && !pointsEqual(a, b) {
			t.Fatalf("case %d: asymmetric points %+v vs %+v", i, a, b)
		}
	}
}

func TestIntersectSegmentsParallel(t *testing.T) {
	if _, ok := IntersectSegments(Point{0, 0}, Point{10, 0}, Point{0, 1}, Point{10, 1}); ok {
		t.Fatalf("parallel segments must not intersect")
	}
	// collinear overlap counts as parallel too
	if _, ok := IntersectSegments(Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{15, 0}); ok {
		t.Fatalf("collinear segments must not intersect")
	}
}

func TestIntersectSegmentsOutOfRange(t *testing.T) {
	if _, ok := IntersectSegments(Point{0, 0}, Point{10, 0}, Point{20, -5}, Point{20, 5}); ok {
		t.Fatalf("intersection beyond segment end must be rejected")
	}
}

func TestIntersectSegmentsDegenerate(t *testing.T) {
	if _, ok := IntersectSegments(Point{3, 3}, Point{3, 3}, Point{0, 0}, Point{10, 10}); ok {
		t.Fatalf("zero-length segment must not intersect")
	}
}

func TestIntersectRayCircleEntersFront(t *testing.T) {
	pt, ok := IntersectRayCircle(Point{0, 0}, Point{10, 0}, Point{5, 0}, 2)
	if !ok {
		t.Fatalf("expected intersection")
	}
	if !pointsEqual(pt, Point{3, 0}) {
		t.Fatalf("expected entry at x=3, got %+v", pt)
	}
}

func TestIntersectRayCircleMiss(t *testing.T) {
	if _, ok := IntersectRayCircle(Point{0, 0}, Point{10, 0}, Point{5, 10}, 2); ok {
		t.Fatalf("ray outside circle must miss")
	}
	if _, ok := IntersectRayCircle(Point{0, 0}, Point{1, 0}, Point{50, 0}, 2); ok {
		t.Fatalf("circle beyond ray length must miss")
	}
}

func TestIntersectRayCircleFromCenter(t *testing.T) {
	pt, ok := IntersectRayCircle(Point{5, 5}, Point{15, 5}, Point{5, 5}, 3)
	if !ok {
		t.Fatalf("ray from circle center must exit the circle")
	}
	if !almostEqual(Dist(Point{5, 5}, pt), 3) {
		t.Fatalf("exit point must sit at radius distance, got %+v", pt)
	}
}

func TestIntersectRayCircleZeroLength(t *testing.T) {
	if _, ok := IntersectRayCircle(Point{5, 5}, Point{5, 5}, Point{5, 5}, 3); ok {
		t.Fatalf("zero-length ray must not intersect")
	}
}

func TestPointInCone(t *testing.T) {
	origin := Point{0, 0}
	half := DegToRad(45)

	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"straight ahead", Point{5, 0}, true},
		{"edge of range", Point{10, 0}, true},
		{"beyond range", Point{11, 0}, false},
		{"inside angle", Point{5, 4}, true},
		{"outside angle", Point{1, 5}, false},
		{"behind", Point{-5, 0}, false},
	}
	for _, c := range cases {
		if got := PointInCone(c.p, origin, 10, 0, 0, half); got != c.want {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestPointInConeCut(t *testing.T) {
	half := DegToRad(45)
	if PointInCone(Point{1, 0}, Point{0, 0}, 10, 2, 0, half) {
		t.Fatalf("point inside the cut radius must be excluded")
	}
	if !PointInCone(Point{3, 0}, Point{0, 0}, 10, 2, 0, half) {
		t.Fatalf("point past the cut radius must be included")
	}
}

func TestPointInConeWrapsAngle(t *testing.T) {
	// cone pointing along -x: bearings near ±pi must normalize correctly
	half := DegToRad(30)
	if !PointInCone(Point{-5, 1}, Point{0, 0}, 10, 0, math.Pi, half) {
		t.Fatalf("point near the ±pi seam must be inside")
	}
	if PointInCone(Point{-5, 4}, Point{0, 0}, 10, 0, math.Pi, half) {
		t.Fatalf("point outside the half angle must be excluded")
	}
}

func TestPointInConeAtOrigin(t *testing.T) {
	half := DegToRad(45)
	if !PointInCone(Point{0, 0}, Point{0, 0}, 10, 0, 0, half) {
		t.Fatalf("apex point belongs to an uncut cone")
	}
	if PointInCone(Point{0, 0}, Point{0, 0}, 10, 1, 0, half) {
		t.Fatalf("apex point is outside a cut cone")
	}
}

func TestDistancePointToLine(t *testing.T) {
	if d := DistancePointToLine(Point{0, 0}, Point{10, 0}, Point{5, 4}); !almostEqual(d, 4) {
		t.Fatalf("expected 4, got %f", d)
	}
	// the line is infinite: points beyond the segment still project onto it
	if d := DistancePointToLine(Point{0, 0}, Point{10, 0}, Point{20, 3}); !almostEqual(d, 3) {
		t.Fatalf("expected 3, got %f", d)
	}
}

func TestDistancePointToLineDegenerate(t *testing.T) {
	if d := DistancePointToLine(Point{2, 2}, Point{2, 2}, Point{5, 6}); !almostEqual(d, 5) {
		t.Fatalf("expected point distance 5, got %f", d)
	}
}

func TestNormalizeAngle(t *testing.T) {
	if got := NormalizeAngle(3 * math.Pi); !almostEqual(got, math.Pi) {
		t.Fatalf("expected pi, got %f", got)
	}
	if got := NormalizeAngle(-3 * math.Pi); !almostEqual(got, -math.Pi) && !almostEqual(got, math.Pi) {
		t.Fatalf("expected ±pi, got %f", got)
	}
}

func TestTranslate(t *testing.T) {
	got := Translate(Point{1, 1}, DegToRad(90), 5)
	if !pointsEqual(got, Point{1, 6}) {
		t.Fatalf("expected (1,6), got %+v", got)
	}
}
