package field

import "shotline/server/internal/geom"

// Disposition tags an occupant's relationship class. Values follow the host
// convention of hostile below neutral below friendly.
type Disposition int

const (
	DispositionHostile  Disposition = -1
	DispositionNeutral  Disposition = 0
	DispositionFriendly Disposition = 1
)

// Wall is a blocking line segment owned by the host's scene editor. The
// engine only reads snapshots of it.
type Wall struct {
	ID     string     `json:"id"`
	C0     geom.Point `json:"c0"`
	C1     geom.Point `json:"c1"`
	Blocks bool       `json:"blocks"`
}

// Occupant is a circular obstacle placed on the field. DrawOrder resolves
// stacking: an occupant rendered below another cannot block sight to it.
// SizeMultiplier is externally derived (stat/10 in the host); values at or
// below zero fall back to 1.0.
type Occupant struct {
	ID             string      `json:"id"`
	Center         geom.Point  `json:"center"`
	Radius         float64     `json:"radius"`
	Visible        bool        `json:"visible"`
	Disposition    Disposition `json:"disposition"`
	DrawOrder      int         `json:"drawOrder"`
	SizeMultiplier float64     `json:"sizeMultiplier,omitempty"`
}

// EffectiveRadius returns the collision radius after the size multiplier.
func (o Occupant) EffectiveRadius() float64 {
	mult := o.SizeMultiplier
	if mult <= 0 {
		mult = 1
	}
	return o.Radius * mult
}

// Overlaps reports whether two occupant footprints overlap spatially.
func (o Occupant) Overlaps(other Occupant) bool {
	return geom.Dist(o.Center, other.Center) < o.EffectiveRadius()+other.EffectiveRadius()
}

// Snapshot is the obstacle set a single resolution pass reads. It must stay
// internally consistent for the duration of the pass; the engine never
// mutates it.
type Snapshot struct {
	Walls     []Wall
	Occupants []Occupant
}

// GridScale carries the per-shot unit conversion and starting position for
// an acting occupant's scene.
type GridScale struct {
	DefSize float64
	DefPos  geom.Point
}

// Provider is the host collaborator surface: obstacle snapshots plus grid
// scale. Implementations return fresh copies so a resolution pass can never
// observe host-side mutation.
type Provider interface {
	Walls() []Wall
	Occupants() []Occupant
	GridScale(acting *Occupant) GridScale
}
