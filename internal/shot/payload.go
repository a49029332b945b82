package shot

import (
	"encoding/json"
	"fmt"
)

// SegmentKind tags the segment variants a trajectory payload may carry.
type SegmentKind string

const (
	KindLine   SegmentKind = "line"
	KindCircle SegmentKind = "circle"
	KindCone   SegmentKind = "cone"
	KindSwing  SegmentKind = "swing"
)

// Kinds lists every segment kind the resolver dispatches on.
func Kinds() []SegmentKind {
	return []SegmentKind{KindLine, KindCircle, KindCone, KindSwing}
}

// HitBehavior controls whether resolution continues after a segment lands a
// hit. Skip is only meaningful on swing segments, where it abandons the rest
// of the sweep without halting the payload.
type HitBehavior string

const (
	HitStop HitBehavior = "stop"
	HitNext HitBehavior = "next"
	HitNeed HitBehavior = "need"
	HitSkip HitBehavior = "skip"
)

// HitOrder re-sorts an area segment's filtered hit list before truncation.
type HitOrder string

const (
	OrderNear  HitOrder = "near"
	OrderFar   HitOrder = "far"
	OrderLeft  HitOrder = "left"
	OrderRight HitOrder = "right"
)

// TokenFilter controls which occupants a segment collides with. The wire
// format accepts either a plain boolean (legacy mode, no disposition
// filtering) or an {owner, ally, other} object listing the relationship
// classes to include.
type TokenFilter struct {
	Enabled bool
	Scoped  bool
	Owner   bool
	Ally    bool
	Other   bool
}

type scopedTokenFilter struct {
	Owner bool `json:"owner"`
	Ally  bool `json:"ally"`
	Other bool `json:"other"`
}

func (f *TokenFilter) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		*f = TokenFilter{Enabled: enabled}
		return nil
	}
	var scoped scopedTokenFilter
	if err := json.Unmarshal(data, &scoped); err != nil {
		return fmt.Errorf("shot: invalid tokens filter: %w", err)
	}
	*f = TokenFilter{Enabled: true, Scoped: true, Owner: scoped.Owner, Ally: scoped.Ally, Other: scoped.Other}
	return nil
}

func (f TokenFilter) MarshalJSON() ([]byte, error) {
	if !f.Scoped {
		return json.Marshal(f.Enabled)
	}
	return json.Marshal(scopedTokenFilter{Owner: f.Owner, Ally: f.Ally, Other: f.Other})
}

// CollisionConfig selects the obstacle classes a segment tests against.
type CollisionConfig struct {
	Walls  bool        `json:"walls"`
	Tokens TokenFilter `json:"tokens"`
}

// SegmentProps carries free-form segment properties. Penetration flips a
// line segment's default hit behavior from stop to next.
type SegmentProps struct {
	Penetration bool `json:"penetration,omitempty"`
}

// SegmentBase holds the fields shared by all segment kinds. Direction is in
// degrees, relative to the running cursor heading. HitAmount zero means
// unlimited.
type SegmentBase struct {
	Direction float64         `json:"direction"`
	Collision CollisionConfig `json:"collision"`
	Props     SegmentProps    `json:"props"`
	OnHit     HitBehavior     `json:"onHit,omitempty"`
	HitOrder  HitOrder        `json:"hitOrder,omitempty"`
	HitAmount int             `json:"hitAmount,omitempty"`
}

// Segment is the tagged union of trajectory segment variants. All lengths
// are in grid units; the resolver scales them by the per-shot DefSize.
type Segment interface {
	Kind() SegmentKind
	Base() SegmentBase
}

// LineSegment advances the cursor along its heading and collides along the
// way.
type LineSegment struct {
	SegmentBase
	Length float64 `json:"length"`
}

func (s LineSegment) Kind() SegmentKind { return KindLine }
func (s LineSegment) Base() SegmentBase { return s.SegmentBase }

// CircleSegment is an area burst centered on the cursor. It never moves the
// cursor.
type CircleSegment struct {
	SegmentBase
	Range float64 `json:"range"`
}

func (s CircleSegment) Kind() SegmentKind { return KindCircle }
func (s CircleSegment) Base() SegmentBase { return s.SegmentBase }

// ConeSegment is an area wedge anchored at the cursor. Angle defaults to 90
// degrees, Cut is the inner exclusion radius in grid units. Resolving a cone
// rotates the cursor to the cone's absolute direction.
type ConeSegment struct {
	SegmentBase
	Range float64 `json:"range"`
	Angle float64 `json:"angle,omitempty"`
	Cut   float64 `json:"cut,omitempty"`
}

func (s ConeSegment) Kind() SegmentKind { return KindCone }
func (s ConeSegment) Base() SegmentBase { return s.SegmentBase }

// SwingSegment sweeps Count cones, stepping direction and range each
// iteration. Heading accumulates across the sweep.
type SwingSegment struct {
	SegmentBase
	Range         float64 `json:"range"`
	Angle         float64 `json:"angle,omitempty"`
	Cut           float64 `json:"cut,omitempty"`
	DirectionStep float64 `json:"directionStep,omitempty"`
	RangeStep     float64 `json:"rangeStep,omitempty"`
	Count         int     `json:"count"`
}

func (s SwingSegment) Kind() SegmentKind { return KindSwing }
func (s SwingSegment) Base() SegmentBase { return s.SegmentBase }

// Trajectory is the ordered segment list of a payload.
type Trajectory struct {
	Segments []Segment
}

// Payload is the engine input produced by the trajectory template system.
type Payload struct {
	Trajectory Trajectory `json:"trajectory"`
}

const defaultConeAngle = 90.0

type segmentTag struct {
	Type SegmentKind `json:"type"`
}

func (t *Trajectory) UnmarshalJSON(data []byte) error {
	var wire struct {
		Segments []json.RawMessage `json:"segments"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	segments := make([]Segment, 0, len(wire.Segments))
	for i, raw := range wire.Segments {
		seg, err := unmarshalSegment(raw)
		if err != nil {
			return fmt.Errorf("shot: segment %d: %w", i, err)
		}
		segments = append(segments, seg)
	}
	t.Segments = segments
	return nil
}

func (t Trajectory) MarshalJSON() ([]byte, error) {
	segments := make([]json.RawMessage, 0, len(t.Segments))
	for i, seg := range t.Segments {
		data, err := marshalSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("shot: segment %d: %w", i, err)
		}
		segments = append(segments, data)
	}
	return json.Marshal(struct {
		Segments []json.RawMessage `json:"segments"`
	}{Segments: segments})
}

func unmarshalSegment(raw json.RawMessage) (Segment, error) {
	var tag segmentTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case KindLine:
		var seg LineSegment
		if err := json.Unmarshal(raw, &seg); err != nil {
			return nil, err
		}
		return seg, nil
	case KindCircle:
		var seg CircleSegment
		if err := json.Unmarshal(raw, &seg); err != nil {
			return nil, err
		}
		return seg, nil
	case KindCone:
		var seg ConeSegment
		if err := json.Unmarshal(raw, &seg); err != nil {
			return nil, err
		}
		if seg.Angle == 0 {
			seg.Angle = defaultConeAngle
		}
		return seg, nil
	case KindSwing:
		var seg SwingSegment
		if err := json.Unmarshal(raw, &seg); err != nil {
			return nil, err
		}
		if seg.Angle == 0 {
			seg.Angle = defaultConeAngle
		}
		return seg, nil
	default:
		return nil, fmt.Errorf("unknown segment type %q", tag.Type)
	}
}

func marshalSegment(seg Segment) (json.RawMessage, error) {
	switch s := seg.(type) {
	case LineSegment:
		return json.Marshal(struct {
			Type SegmentKind `json:"type"`
			LineSegment
		}{KindLine, s})
	case CircleSegment:
		return json.Marshal(struct {
			Type SegmentKind `json:"type"`
			CircleSegment
		}{KindCircle, s})
	case ConeSegment:
		return json.Marshal(struct {
			Type SegmentKind `json:"type"`
			ConeSegment
		}{KindCone, s})
	case SwingSegment:
		return json.Marshal(struct {
			Type SegmentKind `json:"type"`
			SwingSegment
		}{KindSwing, s})
	default:
		return nil, fmt.Errorf("unknown segment kind %q", seg.Kind())
	}
}
