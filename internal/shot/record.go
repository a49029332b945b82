package shot

import "shotline/server/internal/geom"

// HitType distinguishes the obstacle class behind a hit or blocker.
type HitType string

const (
	HitWall  HitType = "wall"
	HitToken HitType = "token"
)

// Hit is one collision record. Coverage and HitPoints are populated for area
// shapes; Closeness and AngleDeg for line hits against circular occupants.
type Hit struct {
	Type      HitType      `json:"type"`
	ID        string       `json:"object"`
	Point     geom.Point   `json:"point"`
	Distance  float64      `json:"distance"`
	Coverage  float64      `json:"coverage,omitempty"`
	HitPoints []geom.Point `json:"hitPoints,omitempty"`
	Closeness float64      `json:"closeness,omitempty"`
	AngleDeg  float64      `json:"angleDeg,omitempty"`
}

// PathSegment is the resolved absolute geometry of one drawn segment. Lines
// carry Start/End; circles Start/Range; cones additionally Angle, Direction
// (absolute degrees) and Cut. All distances are in world units.
type PathSegment struct {
	Kind      SegmentKind `json:"kind"`
	Start     geom.Point  `json:"start"`
	End       *geom.Point `json:"end,omitempty"`
	Range     float64     `json:"range,omitempty"`
	Angle     float64     `json:"angle,omitempty"`
	Direction float64     `json:"direction,omitempty"`
	Cut       float64     `json:"cut,omitempty"`
}

// Result is the drawable outcome of one resolution pass.
type Result struct {
	Paths []PathSegment `json:"shotPaths"`
	Hits  []Hit         `json:"shotHits"`
}

// Record is the per-shot state mutated during a single synchronous
// resolution pass and immutable afterwards. ActualHits collects the token
// collisions the damage-application step consumes; wall hits stay in
// Result.Hits only.
type Record struct {
	UID        string `json:"uid"`
	Result     Result `json:"shotResult"`
	ActualHits []Hit  `json:"actualHits"`
}

func (r *Record) appendPath(path PathSegment) {
	r.Result.Paths = append(r.Result.Paths, path)
}

func (r *Record) appendHits(hits []Hit) {
	for _, hit := range hits {
		r.Result.Hits = append(r.Result.Hits, hit)
		if hit.Type == HitToken {
			r.ActualHits = append(r.ActualHits, hit)
		}
	}
}
