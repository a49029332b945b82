package shot

import (
	"math"
	"sort"

	"shotline/server/internal/geom"
)

// lateralOffset is the signed offset of p from the segment origin across the
// heading axis. Negative values fall on the left of the heading, positive on
// the right (screen coordinates, y down).
func lateralOffset(origin, p geom.Point, headingRad float64) float64 {
	vx := p.X - origin.X
	vy := p.Y - origin.Y
	return math.Cos(headingRad)*vy - math.Sin(headingRad)*vx
}

// applyHitOrderAndAmount re-sorts the coverage-filtered hit list and
// truncates it to amount entries when amount is positive. It operates on the
// filtered list only; raw unfiltered candidates are never truncated.
func applyHitOrderAndAmount(hits []Hit, order HitOrder, amount int, origin geom.Point, headingRad float64) []Hit {
	switch order {
	case OrderFar:
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].Distance > hits[j].Distance
		})
	case OrderLeft:
		sort.SliceStable(hits, func(i, j int) bool {
			return lateralOffset(origin, hits[i].Point, headingRad) < lateralOffset(origin, hits[j].Point, headingRad)
		})
	case OrderRight:
		sort.SliceStable(hits, func(i, j int) bool {
			return lateralOffset(origin, hits[i].Point, headingRad) > lateralOffset(origin, hits[j].Point, headingRad)
		})
	default:
		// near is the default ordering
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].Distance < hits[j].Distance
		})
	}
	if amount > 0 && len(hits) > amount {
		hits = hits[:amount]
	}
	return hits
}
