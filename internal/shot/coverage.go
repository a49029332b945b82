package shot

import (
	"math"

	"shotline/server/internal/field"
	"shotline/server/internal/geom"
)

// SamplerConfig holds the coverage sampling constants. Tests may substitute
// a higher-resolution sampler without touching control flow.
type SamplerConfig struct {
	// Rings is the number of concentric sample rings inside the footprint.
	Rings int
	// BasePoints scales the per-ring sample count: ring r carries
	// max(MinRingPoints, floor(BasePoints*r/Rings)) points.
	BasePoints int
	// MinRingPoints is the per-ring sample floor.
	MinRingPoints int
	// Shrink keeps ring samples strictly inside the footprint.
	Shrink float64
}

// DefaultSamplerConfig returns the sampling constants used in production.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{Rings: 3, BasePoints: 32, MinRingPoints: 8, Shrink: 0.95}
}

func (c SamplerConfig) normalized() SamplerConfig {
	if c.Rings <= 0 {
		c.Rings = 3
	}
	if c.BasePoints <= 0 {
		c.BasePoints = 32
	}
	if c.MinRingPoints <= 0 {
		c.MinRingPoints = 8
	}
	if c.Shrink <= 0 || c.Shrink > 1 {
		c.Shrink = 0.95
	}
	return c
}

// shapeProbe describes one resolved area shape for coverage sampling.
// contains tests shape membership; maxReach and cut bound the fast reject.
type shapeProbe struct {
	origin   geom.Point
	maxReach float64
	cut      float64
	contains func(geom.Point) bool
}

// sampleCoverage estimates the fraction of the target's footprint that lies
// inside the probe shape and is visible from the probe origin. The sampling
// pattern is fixed, so identical inputs always produce identical coverage.
// Targets that cannot possibly intersect the shape are rejected before any
// sampling happens.
func sampleCoverage(snap *field.Snapshot, cfg SamplerConfig, probe shapeProbe, target field.Occupant, los LOSConfig, isIgnored IgnoreFunc) (float64, []geom.Point) {
	cfg = cfg.normalized()

	radius := target.EffectiveRadius()
	centerDist := geom.Dist(probe.origin, target.Center)
	if centerDist > probe.maxReach+radius {
		return 0, nil
	}
	if probe.cut > 0 && centerDist < probe.cut-radius {
		return 0, nil
	}

	total := 0
	counted := 0
	var hitPoints []geom.Point
	sample := func(p geom.Point) {
		total++
		if probe.contains != nil && !probe.contains(p) {
			return
		}
		if blocked, _ := CheckLineOfSight(snap, probe.origin, p, los, isIgnored, &target); blocked {
			return
		}
		counted++
		hitPoints = append(hitPoints, p)
	}

	sample(target.Center)
	for ring := 1; ring <= cfg.Rings; ring++ {
		points := int(float64(cfg.BasePoints) * float64(ring) / float64(cfg.Rings))
		if points < cfg.MinRingPoints {
			points = cfg.MinRingPoints
		}
		ringRadius := radius * float64(ring) / float64(cfg.Rings) * cfg.Shrink
		for i := 0; i < points; i++ {
			angle := 2 * math.Pi * float64(i) / float64(points)
			sample(geom.Point{
				X: target.Center.X + ringRadius*math.Cos(angle),
				Y: target.Center.Y + ringRadius*math.Sin(angle),
			})
		}
	}

	if counted == 0 {
		return 0, nil
	}
	return float64(counted) / float64(total), hitPoints
}
