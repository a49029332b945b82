package shot

import (
	"shotline/server/internal/field"
	"shotline/server/internal/geom"
)

// LOSConfig selects which obstacle classes participate in a sight test.
type LOSConfig struct {
	Walls  bool
	Tokens bool
}

// Blocker describes one obstacle crossing a sight line. The slice order is
// unspecified; callers needing nearest-first must sort by Distance.
type Blocker struct {
	Type     HitType
	ID       string
	Point    geom.Point
	Distance float64
}

// IgnoreFunc reports whether an occupant is exempt from blocking sight.
type IgnoreFunc func(field.Occupant) bool

// CheckLineOfSight tests the start-end sight line against the snapshot.
// Walls block only when their Blocks flag is set. Occupants block only when
// visible and not exempted by isIgnored. When a reference occupant is given,
// any occupant overlapping it with a strictly lower draw order is skipped:
// it renders below the reference and cannot occlude sight to it. The
// reference itself never blocks.
func CheckLineOfSight(snap *field.Snapshot, start, end geom.Point, cfg LOSConfig, isIgnored IgnoreFunc, reference *field.Occupant) (bool, []Blocker) {
	if snap == nil {
		return false, nil
	}

	var blockers []Blocker
	if cfg.Walls {
		for _, wall := range snap.Walls {
			if !wall.Blocks {
				continue
			}
			if pt, ok := geom.IntersectSegments(start, end, wall.C0, wall.C1); ok {
				blockers = append(blockers, Blocker{
					Type:     HitWall,
					ID:       wall.ID,
					Point:    pt,
					Distance: geom.Dist(start, pt),
				})
			}
		}
	}

	if cfg.Tokens {
		for _, occ := range snap.Occupants {
			if !occ.Visible {
				continue
			}
			if isIgnored != nil && isIgnored(occ) {
				continue
			}
			if reference != nil {
				if occ.ID == reference.ID {
					continue
				}
				if occ.Overlaps(*reference) && occ.DrawOrder < reference.DrawOrder {
					continue
				}
			}
			if pt, ok := geom.IntersectRayCircle(start, end, occ.Center, occ.EffectiveRadius()); ok {
				blockers = append(blockers, Blocker{
					Type:     HitToken,
					ID:       occ.ID,
					Point:    pt,
					Distance: geom.Dist(start, pt),
				})
			}
		}
	}

	return len(blockers) > 0, blockers
}
