package shot

import (
	"testing"

	"shotline/server/internal/field"
	"shotline/server/internal/geom"
)

func occupant(id string, x, y, radius float64) field.Occupant {
	return field.Occupant{
		ID:      id,
		Center:  geom.Point{X: x, Y: y},
		Radius:  radius,
		Visible: true,
	}
}

func TestCheckLineOfSightBlockingWall(t *testing.T) {
	snap := &field.Snapshot{
		Walls: []field.Wall{{
			ID:     "wall-1",
			C0:     geom.Point{X: 5, Y: -5},
			C1:     geom.Point{X: 5, Y: 5},
			Blocks: true,
		}},
	}
	blocked, blockers := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, LOSConfig{Walls: true}, nil, nil)
	if !blocked {
		t.Fatalf("expected wall to block")
	}
	if len(blockers) != 1 || blockers[0].Type != HitWall || blockers[0].ID != "wall-1" {
		t.Fatalf("unexpected blockers %+v", blockers)
	}
	if blockers[0].Distance != 5 {
		t.Fatalf("expected blocker at distance 5, got %f", blockers[0].Distance)
	}
}

func TestCheckLineOfSightNonBlockingWall(t *testing.T) {
	snap := &field.Snapshot{
		Walls: []field.Wall{{
			ID: "decor",
			C0: geom.Point{X: 5, Y: -5},
			C1: geom.Point{X: 5, Y: 5},
		}},
	}
	blocked, _ := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, LOSConfig{Walls: true}, nil, nil)
	if blocked {
		t.Fatalf("walls without the blocks flag must never occlude")
	}
}

func TestCheckLineOfSightOccupantBlocker(t *testing.T) {
	snap := &field.Snapshot{Occupants: []field.Occupant{occupant("occ-1", 5, 0, 1)}}
	blocked, blockers := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, LOSConfig{Tokens: true}, nil, nil)
	if !blocked {
		t.Fatalf("expected occupant to block")
	}
	if len(blockers) != 1 || blockers[0].ID != "occ-1" || blockers[0].Type != HitToken {
		t.Fatalf("unexpected blockers %+v", blockers)
	}
}

func TestCheckLineOfSightIgnoresInvisible(t *testing.T) {
	occ := occupant("hidden", 5, 0, 1)
	occ.Visible = false
	snap := &field.Snapshot{Occupants: []field.Occupant{occ}}
	blocked, _ := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, LOSConfig{Tokens: true}, nil, nil)
	if blocked {
		t.Fatalf("invisible occupants must not block")
	}
}

func TestCheckLineOfSightIgnorePredicate(t *testing.T) {
	snap := &field.Snapshot{Occupants: []field.Occupant{occupant("occ-1", 5, 0, 1)}}
	ignore := func(o field.Occupant) bool { return o.ID == "occ-1" }
	blocked, _ := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, LOSConfig{Tokens: true}, ignore, nil)
	if blocked {
		t.Fatalf("ignored occupants must not block")
	}
}

func TestCheckLineOfSightMutualOcclusion(t *testing.T) {
	reference := occupant("top", 6, 0, 2)
	reference.DrawOrder = 5

	under := occupant("under", 5, 0, 2)
	under.DrawOrder = 1

	above := occupant("above", 5, 0, 2)
	above.DrawOrder = 9

	snap := &field.Snapshot{Occupants: []field.Occupant{under, reference}}
	blocked, _ := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 6, Y: 0}, LOSConfig{Tokens: true}, nil, &reference)
	if blocked {
		t.Fatalf("occupant rendered below the reference must be skipped")
	}

	snap = &field.Snapshot{Occupants: []field.Occupant{above, reference}}
	blocked, blockers := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 6, Y: 0}, LOSConfig{Tokens: true}, nil, &reference)
	if !blocked || len(blockers) != 1 || blockers[0].ID != "above" {
		t.Fatalf("occupant rendered above the reference must block, got %+v", blockers)
	}
}

func TestCheckLineOfSightReferenceNeverBlocksItself(t *testing.T) {
	reference := occupant("target", 5, 0, 3)
	snap := &field.Snapshot{Occupants: []field.Occupant{reference}}
	blocked, _ := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 5, Y: 0}, LOSConfig{Tokens: true}, nil, &reference)
	if blocked {
		t.Fatalf("the reference occupant must not occlude sight to itself")
	}
}

func TestCheckLineOfSightDisabledClasses(t *testing.T) {
	snap := &field.Snapshot{
		Walls: []field.Wall{{
			ID:     "wall-1",
			C0:     geom.Point{X: 5, Y: -5},
			C1:     geom.Point{X: 5, Y: 5},
			Blocks: true,
		}},
		Occupants: []field.Occupant{occupant("occ-1", 5, 0, 1)},
	}
	blocked, _ := CheckLineOfSight(snap, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, LOSConfig{}, nil, nil)
	if blocked {
		t.Fatalf("disabled obstacle classes must not block")
	}
}
