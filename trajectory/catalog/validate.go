package catalog

import (
	"errors"
	"fmt"

	"shotline/server/internal/shot"
)

var validBehaviors = map[shot.HitBehavior]bool{
	"":           true,
	shot.HitStop: true,
	shot.HitNext: true,
	shot.HitNeed: true,
	shot.HitSkip: true,
}

var validOrders = map[shot.HitOrder]bool{
	"":              true,
	shot.OrderNear:  true,
	shot.OrderFar:   true,
	shot.OrderLeft:  true,
	shot.OrderRight: true,
}

// Validate checks a document for authoring mistakes the engine would
// otherwise degrade into silent no-ops.
func Validate(doc Document) error {
	var errs []error
	if doc.ID == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if doc.Name == "" {
		errs = append(errs, errors.New("missing name"))
	}
	if len(doc.Trajectory.Segments) == 0 {
		errs = append(errs, errors.New("trajectory has no segments"))
	}
	if doc.Modifiers.Range < 0 {
		errs = append(errs, errors.New("range modifier must not be negative"))
	}
	for i, seg := range doc.Trajectory.Segments {
		if err := validateSegment(seg); err != nil {
			errs = append(errs, fmt.Errorf("segment %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func validateSegment(seg shot.Segment) error {
	base := seg.Base()
	var errs []error
	if !validBehaviors[base.OnHit] {
		errs = append(errs, fmt.Errorf("unknown onHit %q", base.OnHit))
	}
	if !validOrders[base.HitOrder] {
		errs = append(errs, fmt.Errorf("unknown hitOrder %q", base.HitOrder))
	}
	if base.HitAmount < 0 {
		errs = append(errs, errors.New("hitAmount must not be negative"))
	}

	switch s := seg.(type) {
	case shot.LineSegment:
		if s.Length <= 0 {
			errs = append(errs, errors.New("line length must be positive"))
		}
	case shot.CircleSegment:
		if s.Range <= 0 {
			errs = append(errs, errors.New("circle range must be positive"))
		}
	case shot.ConeSegment:
		if s.Range <= 0 {
			errs = append(errs, errors.New("cone range must be positive"))
		}
		if s.Cut < 0 || s.Cut >= s.Range {
			errs = append(errs, errors.New("cone cut must stay inside the range"))
		}
	case shot.SwingSegment:
		if s.Range <= 0 {
			errs = append(errs, errors.New("swing range must be positive"))
		}
		if s.Count <= 0 {
			errs = append(errs, errors.New("swing count must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown segment kind %q", seg.Kind()))
	}
	return errors.Join(errs...)
}
