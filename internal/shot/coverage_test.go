package shot

import (
	"math"
	"testing"

	"shotline/server/internal/field"
	"shotline/server/internal/geom"
)

func circleProbe(center geom.Point, radius float64) shapeProbe {
	return shapeProbe{
		origin:   center,
		maxReach: radius,
		contains: func(p geom.Point) bool {
			return geom.Dist(center, p) <= radius
		},
	}
}

func TestSampleCoverageFullyInside(t *testing.T) {
	target := occupant("target", 0, 0, 20)
	snap := &field.Snapshot{Occupants: []field.Occupant{target}}
	probe := circleProbe(geom.Point{}, 30)

	coverage, points := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Tokens: true}, nil)
	if coverage != 1 {
		t.Fatalf("expected full coverage, got %f", coverage)
	}
	if len(points) == 0 {
		t.Fatalf("full coverage must report hit points")
	}
	for _, p := range points {
		if geom.Dist(target.Center, p) > target.Radius {
			t.Fatalf("sample %+v escaped the footprint", p)
		}
	}
}

func TestSampleCoverageFastRejectOutsideReach(t *testing.T) {
	target := occupant("target", 100, 0, 5)
	snap := &field.Snapshot{Occupants: []field.Occupant{target}}
	probe := circleProbe(geom.Point{}, 30)

	coverage, points := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Tokens: true}, nil)
	if coverage != 0 || points != nil {
		t.Fatalf("target beyond reach must reject immediately, got %f %v", coverage, points)
	}
}

func TestSampleCoverageFastRejectInsideCut(t *testing.T) {
	target := occupant("target", 1, 0, 2)
	snap := &field.Snapshot{Occupants: []field.Occupant{target}}
	probe := circleProbe(geom.Point{}, 30)
	probe.cut = 10

	coverage, _ := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Tokens: true}, nil)
	if coverage != 0 {
		t.Fatalf("target fully inside the cut must reject, got %f", coverage)
	}
}

func TestSampleCoveragePartial(t *testing.T) {
	// footprint straddles the shape boundary: some samples in, some out
	target := occupant("target", 28, 0, 10)
	snap := &field.Snapshot{Occupants: []field.Occupant{target}}
	probe := circleProbe(geom.Point{}, 30)

	coverage, _ := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Tokens: true}, nil)
	if coverage <= 0 || coverage >= 1 {
		t.Fatalf("straddling target must land strictly between 0 and 1, got %f", coverage)
	}
}

func TestSampleCoverageBlockedByWall(t *testing.T) {
	target := occupant("target", 20, 0, 3)
	snap := &field.Snapshot{
		Walls: []field.Wall{{
			ID:     "wall-1",
			C0:     geom.Point{X: 10, Y: -100},
			C1:     geom.Point{X: 10, Y: 100},
			Blocks: true,
		}},
		Occupants: []field.Occupant{target},
	}
	probe := circleProbe(geom.Point{}, 30)

	coverage, _ := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Walls: true, Tokens: true}, nil)
	if coverage != 0 {
		t.Fatalf("a wall across every sight line must zero coverage, got %f", coverage)
	}
}

func TestSampleCoverageDeterministic(t *testing.T) {
	target := occupant("target", 25, 5, 8)
	snap := &field.Snapshot{
		Walls: []field.Wall{{
			ID:     "wall-1",
			C0:     geom.Point{X: 20, Y: 0},
			C1:     geom.Point{X: 20, Y: 40},
			Blocks: true,
		}},
		Occupants: []field.Occupant{target},
	}
	probe := circleProbe(geom.Point{}, 40)

	first, firstPoints := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Walls: true, Tokens: true}, nil)
	second, secondPoints := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Walls: true, Tokens: true}, nil)
	if first != second {
		t.Fatalf("coverage must be deterministic: %f vs %f", first, second)
	}
	if len(firstPoints) != len(secondPoints) {
		t.Fatalf("hit points must be deterministic: %d vs %d", len(firstPoints), len(secondPoints))
	}
}

func TestSampleCoverageBounds(t *testing.T) {
	probe := circleProbe(geom.Point{}, 30)
	snapTargets := []field.Occupant{
		occupant("a", 0, 0, 5),
		occupant("b", 28, 0, 6),
		occupant("c", 35, 0, 6),
		occupant("d", 200, 0, 6),
	}
	for _, target := range snapTargets {
		snap := &field.Snapshot{Occupants: []field.Occupant{target}}
		coverage, _ := sampleCoverage(snap, DefaultSamplerConfig(), probe, target, LOSConfig{Tokens: true}, nil)
		if coverage < 0 || coverage > 1 {
			t.Fatalf("%s: coverage %f out of bounds", target.ID, coverage)
		}
	}
}

func TestSamplerConfigNormalized(t *testing.T) {
	cfg := SamplerConfig{}.normalized()
	if cfg != DefaultSamplerConfig() {
		t.Fatalf("zero config must normalize to defaults, got %+v", cfg)
	}
}

func TestSampleCoverageSampleCount(t *testing.T) {
	// every sample of an unobstructed centered target counts, so the hit
	// point count exposes the exact ring layout
	target := occupant("target", 0, 0, 10)
	snap := &field.Snapshot{Occupants: []field.Occupant{target}}
	probe := circleProbe(geom.Point{}, 50)

	cfg := DefaultSamplerConfig()
	_, points := sampleCoverage(snap, cfg, probe, target, LOSConfig{Tokens: true}, nil)

	want := 1
	for ring := 1; ring <= cfg.Rings; ring++ {
		n := int(math.Floor(float64(cfg.BasePoints) * float64(ring) / float64(cfg.Rings)))
		if n < cfg.MinRingPoints {
			n = cfg.MinRingPoints
		}
		want += n
	}
	if len(points) != want {
		t.Fatalf("expected %d samples, got %d", want, len(points))
	}
}
