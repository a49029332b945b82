// Package catalog loads designer-authored trajectory documents and turns
// them into engine payloads.
package catalog

import (
	"shotline/server/internal/shot"
)

// Modifiers are the numeric multipliers a template may apply before
// resolution. Zero values mean "unmodified". Damage is carried through for
// the damage-application step; the engine itself never reads it.
type Modifiers struct {
	Range  float64 `json:"range,omitempty"`
	Damage float64 `json:"damage,omitempty"`
}

func (m Modifiers) rangeFactor() float64 {
	if m.Range <= 0 {
		return 1
	}
	return m.Range
}

// Document is one authored trajectory template.
type Document struct {
	ID          string          `json:"id" jsonschema:"required"`
	Name        string          `json:"name" jsonschema:"required"`
	Description string          `json:"description,omitempty"`
	Trajectory  shot.Trajectory `json:"trajectory" jsonschema:"required"`
	Modifiers   Modifiers       `json:"modifiers,omitempty"`
}

// Payload builds the engine payload for this document with the range
// modifier folded into every distance field. The document itself is never
// mutated.
func (d Document) Payload() shot.Payload {
	factor := d.Modifiers.rangeFactor()
	segments := make([]shot.Segment, 0, len(d.Trajectory.Segments))
	for _, seg := range d.Trajectory.Segments {
		segments = append(segments, scaleSegment(seg, factor))
	}
	return shot.Payload{Trajectory: shot.Trajectory{Segments: segments}}
}

func scaleSegment(seg shot.Segment, factor float64) shot.Segment {
	if factor == 1 {
		return seg
	}
	switch s := seg.(type) {
	case shot.LineSegment:
		s.Length *= factor
		return s
	case shot.CircleSegment:
		s.Range *= factor
		return s
	case shot.ConeSegment:
		s.Range *= factor
		s.Cut *= factor
		return s
	case shot.SwingSegment:
		s.Range *= factor
		s.Cut *= factor
		s.RangeStep *= factor
		return s
	default:
		return seg
	}
}
