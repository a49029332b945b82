package shot

import (
	"errors"
	"fmt"
	"sort"

	"shotline/server/internal/field"
	"shotline/server/internal/geom"
)

// ErrUnknownSegment reports a segment kind the resolver cannot dispatch.
// Unknown kinds are fatal to the shot, never silently skipped.
var ErrUnknownSegment = errors.New("shot: unknown segment kind")

// Cursor is the running position and heading (degrees) threaded through
// segment resolution.
type Cursor struct {
	Position geom.Point
	Heading  float64
}

// Resolver resolves one payload's segments against a fixed obstacle
// snapshot. It is built per shot and never outlives the resolution pass.
type Resolver struct {
	snap    *field.Snapshot
	acting  *field.Occupant
	defSize float64
	sampler SamplerConfig
}

// NewResolver builds a resolver over the given snapshot. defSize at or
// below zero falls back to 1.
func NewResolver(snap *field.Snapshot, acting *field.Occupant, defSize float64, sampler SamplerConfig) *Resolver {
	if snap == nil {
		snap = &field.Snapshot{}
	}
	if defSize <= 0 {
		defSize = 1
	}
	return &Resolver{snap: snap, acting: acting, defSize: defSize, sampler: sampler.normalized()}
}

// Resolve advances one segment: it appends the segment's resolved path and
// hits to rec and returns the next cursor plus whether resolution continues.
func (r *Resolver) Resolve(rec *Record, seg Segment, cur Cursor) (Cursor, bool, error) {
	switch s := seg.(type) {
	case LineSegment:
		next, cont := r.resolveLine(rec, s, cur)
		return next, cont, nil
	case CircleSegment:
		next, cont := r.resolveCircle(rec, s, cur)
		return next, cont, nil
	case ConeSegment:
		next, cont := r.resolveCone(rec, s, cur)
		return next, cont, nil
	case SwingSegment:
		next, cont := r.resolveSwing(rec, s, cur)
		return next, cont, nil
	default:
		return cur, false, fmt.Errorf("%w: %q", ErrUnknownSegment, seg.Kind())
	}
}

// ignorePredicate folds the acting occupant and the disposition filter into
// one exemption check shared by collision candidates and sight tests, so a
// disposition-excluded occupant never blocks sight to a valid target.
// Scoped filters decide self-collision through their Owner flag; unscoped
// filters always exempt the acting occupant.
func (r *Resolver) ignorePredicate(filter TokenFilter) IgnoreFunc {
	return func(occ field.Occupant) bool {
		if !filter.Scoped {
			return r.acting != nil && occ.ID == r.acting.ID
		}
		return ShouldIgnore(occ, filter, r.acting)
	}
}

func (r *Resolver) resolveLine(rec *Record, s LineSegment, cur Cursor) (Cursor, bool) {
	headingDeg := cur.Heading + s.Direction
	headingRad := geom.DegToRad(headingDeg)
	length := s.Length * r.defSize
	start := cur.Position
	end := geom.Translate(start, headingRad, length)

	if length <= 0 {
		// malformed geometry: drawable no-op, no collisions
		endCopy := end
		rec.appendPath(PathSegment{Kind: KindLine, Start: start, End: &endCopy})
		return Cursor{Position: end, Heading: headingDeg}, true
	}

	ignore := r.ignorePredicate(s.Collision.Tokens)

	var collisions []Hit
	if s.Collision.Walls {
		for _, wall := range r.snap.Walls {
			if !wall.Blocks {
				continue
			}
			if pt, ok := geom.IntersectSegments(start, end, wall.C0, wall.C1); ok {
				collisions = append(collisions, Hit{
					Type:     HitWall,
					ID:       wall.ID,
					Point:    pt,
					Distance: geom.Dist(start, pt),
				})
			}
		}
	}
	if s.Collision.Tokens.Enabled {
		for _, occ := range r.snap.Occupants {
			if !occ.Visible || ignore(occ) {
				continue
			}
			pt, ok := geom.IntersectRayCircle(start, end, occ.Center, occ.EffectiveRadius())
			if !ok {
				continue
			}
			collisions = append(collisions, Hit{
				Type:      HitToken,
				ID:        occ.ID,
				Point:     pt,
				Distance:  geom.Dist(start, pt),
				Closeness: geom.DistancePointToLine(start, end, occ.Center),
				AngleDeg:  geom.RadToDeg(geom.NormalizeAngle(geom.Bearing(pt, occ.Center) - headingRad)),
			})
		}
	}
	sort.SliceStable(collisions, func(i, j int) bool {
		return collisions[i].Distance < collisions[j].Distance
	})

	onHit := s.OnHit
	if onHit == "" {
		if s.Props.Penetration {
			onHit = HitNext
		} else {
			onHit = HitStop
		}
	}

	cont := true
	endPoint := end
	if len(collisions) > 0 {
		// the drawn path always truncates at the first collision
		endPoint = collisions[0].Point
		switch onHit {
		case HitStop:
			rec.appendHits(collisions[:1])
			cont = false
		default:
			rec.appendHits(collisions)
		}
	} else if onHit == HitNeed {
		cont = false
	}

	endCopy := endPoint
	rec.appendPath(PathSegment{Kind: KindLine, Start: start, End: &endCopy})
	return Cursor{Position: endPoint, Heading: headingDeg}, cont
}

func (r *Resolver) resolveCircle(rec *Record, s CircleSegment, cur Cursor) (Cursor, bool) {
	radius := s.Range * r.defSize
	center := cur.Position
	rec.appendPath(PathSegment{Kind: KindCircle, Start: center, Range: radius})

	if radius <= 0 {
		return cur, true
	}

	probe := shapeProbe{
		origin:   center,
		maxReach: radius,
		contains: func(p geom.Point) bool {
			return geom.Dist(center, p) <= radius
		},
	}
	headingRad := geom.DegToRad(cur.Heading + s.Direction)
	hits := r.resolveArea(s.SegmentBase, probe, headingRad)
	rec.appendHits(hits)

	// circles never move or rotate the cursor
	return cur, areaContinues(s.OnHit, len(hits))
}

func (r *Resolver) resolveCone(rec *Record, s ConeSegment, cur Cursor) (Cursor, bool) {
	next, hitCount := r.resolveConeStep(rec, s.SegmentBase, s.Range, s.Angle, s.Cut, cur)
	return next, areaContinues(s.OnHit, hitCount)
}

// resolveConeStep resolves one cone (standalone or inside a swing): path
// append, coverage pipeline, ordering and truncation. The cursor rotates to
// the cone's absolute direction; its position is unchanged.
func (r *Resolver) resolveConeStep(rec *Record, base SegmentBase, rangeUnits, angleDeg, cutUnits float64, cur Cursor) (Cursor, int) {
	dirDeg := cur.Heading + base.Direction
	dirRad := geom.DegToRad(dirDeg)
	origin := cur.Position
	reach := rangeUnits * r.defSize
	cut := cutUnits * r.defSize
	if angleDeg <= 0 {
		angleDeg = defaultConeAngle
	}
	halfAngle := geom.DegToRad(angleDeg) / 2

	rec.appendPath(PathSegment{
		Kind:      KindCone,
		Start:     origin,
		Range:     reach,
		Angle:     angleDeg,
		Direction: dirDeg,
		Cut:       cut,
	})
	next := Cursor{Position: origin, Heading: dirDeg}

	if reach <= 0 {
		return next, 0
	}

	probe := shapeProbe{
		origin:   origin,
		maxReach: reach,
		cut:      cut,
		contains: func(p geom.Point) bool {
			return geom.PointInCone(p, origin, reach, cut, dirRad, halfAngle)
		},
	}
	hits := r.resolveArea(base, probe, dirRad)
	rec.appendHits(hits)
	return next, len(hits)
}

func (r *Resolver) resolveSwing(rec *Record, s SwingSegment, cur Cursor) (Cursor, bool) {
	outer := s.OnHit
	if outer == "" {
		outer = HitNext
	}
	count := s.Count
	if count <= 0 {
		count = 1
	}

	cursor := cur
	for i := 0; i < count; i++ {
		base := s.SegmentBase
		if i > 0 {
			// heading accumulates: later cones step relative to the
			// previous cone's absolute direction
			base.Direction = s.DirectionStep
		}
		rangeUnits := s.Range + float64(i)*s.RangeStep

		var hitCount int
		// hits inside the sweep never halt the individual cone
		cursor, hitCount = r.resolveConeStep(rec, base, rangeUnits, s.Angle, s.Cut, cursor)

		if hitCount > 0 {
			switch outer {
			case HitStop:
				return cursor, false
			case HitSkip:
				return cursor, true
			}
		} else if outer == HitNeed {
			return cursor, false
		}
	}
	return cursor, true
}

// resolveArea runs the shared candidate/coverage/filter pipeline for circle
// and cone shapes and applies the segment's hit order and amount policy.
func (r *Resolver) resolveArea(base SegmentBase, probe shapeProbe, headingRad float64) []Hit {
	if !base.Collision.Tokens.Enabled {
		return nil
	}
	ignore := r.ignorePredicate(base.Collision.Tokens)
	los := LOSConfig{Walls: base.Collision.Walls, Tokens: base.Collision.Tokens.Enabled}

	var hits []Hit
	for _, occ := range r.snap.Occupants {
		if !occ.Visible || ignore(occ) {
			continue
		}
		coverage, points := sampleCoverage(r.snap, r.sampler, probe, occ, los, ignore)
		if coverage <= 0 {
			// zero coverage excludes the occupant entirely
			continue
		}
		hits = append(hits, Hit{
			Type:      HitToken,
			ID:        occ.ID,
			Point:     occ.Center,
			Distance:  geom.Dist(probe.origin, occ.Center),
			Coverage:  coverage,
			HitPoints: points,
		})
	}
	return applyHitOrderAndAmount(hits, base.HitOrder, base.HitAmount, probe.origin, headingRad)
}

// areaContinues applies the shared continuation rule for area shapes: stop
// halts on any hit, need halts on none, everything else proceeds.
func areaContinues(onHit HitBehavior, hitCount int) bool {
	switch onHit {
	case HitStop:
		return hitCount == 0
	case HitNeed:
		return hitCount > 0
	default:
		return true
	}
}
