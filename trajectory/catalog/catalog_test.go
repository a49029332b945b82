package catalog

import (
	"math"
	"strings"
	"testing"
	"testing/fstest"

	"shotline/server/internal/shot"
)

func validDoc(id string) Document {
	return Document{
		ID:   id,
		Name: "Test " + id,
		Trajectory: shot.Trajectory{Segments: []shot.Segment{
			shot.LineSegment{Length: 10},
		}},
	}
}

func TestNewIndexesByID(t *testing.T) {
	cat, err := New([]Document{validDoc("arrow"), validDoc("bolt")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", cat.Len())
	}
	if _, ok := cat.Get("arrow"); !ok {
		t.Fatalf("expected arrow to be registered")
	}
	if ids := cat.IDs(); len(ids) != 2 || ids[0] != "arrow" || ids[1] != "bolt" {
		t.Fatalf("unexpected id order %v", ids)
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Document{validDoc("arrow"), validDoc("arrow")})
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestNewRejectsInvalidDocuments(t *testing.T) {
	doc := validDoc("broken")
	doc.Trajectory.Segments = nil
	if _, err := New([]Document{doc}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadReadsJSONDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/arrow.json": &fstest.MapFile{Data: []byte(`{
			"id": "arrow",
			"name": "Arrow",
			"trajectory": {"segments": [{"type": "line", "length": 12}]}
		}`)},
		"templates/burst.json": &fstest.MapFile{Data: []byte(`{
			"id": "burst",
			"name": "Burst",
			"trajectory": {"segments": [{"type": "circle", "range": 3}]},
			"modifiers": {"range": 2}
		}`)},
		"templates/readme.txt": &fstest.MapFile{Data: []byte("not a document")},
	}

	cat, err := Load(fsys, "templates")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", cat.Len())
	}
	burst, ok := cat.Get("burst")
	if !ok {
		t.Fatalf("expected burst to load")
	}
	if burst.Modifiers.Range != 2 {
		t.Fatalf("expected range modifier 2, got %v", burst.Modifiers.Range)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json": &fstest.MapFile{Data: []byte(`{`)},
	}
	if _, err := Load(fsys, "."); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestPayloadAppliesRangeModifier(t *testing.T) {
	doc := Document{
		ID:   "sweep",
		Name: "Sweep",
		Trajectory: shot.Trajectory{Segments: []shot.Segment{
			shot.LineSegment{Length: 10},
			shot.CircleSegment{Range: 4},
			shot.ConeSegment{Range: 8, Cut: 2, Angle: 90},
			shot.SwingSegment{Range: 6, Cut: 1, RangeStep: 0.5, Count: 3, Angle: 90},
		}},
		Modifiers: Modifiers{Range: 1.5},
	}

	payload := doc.Payload()
	segs := payload.Trajectory.Segments
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	line := segs[0].(shot.LineSegment)
	if math.Abs(line.Length-15) > 1e-9 {
		t.Fatalf("expected scaled line length 15, got %v", line.Length)
	}
	circle := segs[1].(shot.CircleSegment)
	if math.Abs(circle.Range-6) > 1e-9 {
		t.Fatalf("expected scaled circle range 6, got %v", circle.Range)
	}
	cone := segs[2].(shot.ConeSegment)
	if math.Abs(cone.Range-12) > 1e-9 || math.Abs(cone.Cut-3) > 1e-9 {
		t.Fatalf("expected scaled cone 12/3, got %v/%v", cone.Range, cone.Cut)
	}
	swing := segs[3].(shot.SwingSegment)
	if math.Abs(swing.Range-9) > 1e-9 || math.Abs(swing.RangeStep-0.75) > 1e-9 {
		t.Fatalf("expected scaled swing 9/0.75, got %v/%v", swing.Range, swing.RangeStep)
	}

	// The source document must stay untouched.
	if got := doc.Trajectory.Segments[0].(shot.LineSegment).Length; got != 10 {
		t.Fatalf("document mutated, length %v", got)
	}
}

func TestPayloadZeroModifierLeavesSegments(t *testing.T) {
	doc := validDoc("plain")
	payload := doc.Payload()
	if got := payload.Trajectory.Segments[0].(shot.LineSegment).Length; got != 10 {
		t.Fatalf("expected unmodified length 10, got %v", got)
	}
}

func TestValidateFlagsAuthoringMistakes(t *testing.T) {
	cases := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "missing id",
			doc: Document{Name: "x", Trajectory: shot.Trajectory{Segments: []shot.Segment{
				shot.LineSegment{Length: 1},
			}}},
			want: "missing id",
		},
		{
			name: "no segments",
			doc:  Document{ID: "x", Name: "x"},
			want: "no segments",
		},
		{
			name: "negative range modifier",
			doc: Document{ID: "x", Name: "x", Modifiers: Modifiers{Range: -1},
				Trajectory: shot.Trajectory{Segments: []shot.Segment{shot.LineSegment{Length: 1}}}},
			want: "range modifier",
		},
		{
			name: "zero line length",
			doc: Document{ID: "x", Name: "x",
				Trajectory: shot.Trajectory{Segments: []shot.Segment{shot.LineSegment{}}}},
			want: "line length",
		},
		{
			name: "cone cut outside range",
			doc: Document{ID: "x", Name: "x",
				Trajectory: shot.Trajectory{Segments: []shot.Segment{shot.ConeSegment{Range: 4, Cut: 5}}}},
			want: "cut",
		},
		{
			name: "swing without count",
			doc: Document{ID: "x", Name: "x",
				Trajectory: shot.Trajectory{Segments: []shot.Segment{shot.SwingSegment{Range: 4}}}},
			want: "count",
		},
		{
			name: "unknown onHit",
			doc: Document{ID: "x", Name: "x",
				Trajectory: shot.Trajectory{Segments: []shot.Segment{
					shot.LineSegment{SegmentBase: shot.SegmentBase{OnHit: "explode"}, Length: 1},
				}}},
			want: "onHit",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.doc)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	doc := Document{
		ID:   "full",
		Name: "Full",
		Trajectory: shot.Trajectory{Segments: []shot.Segment{
			shot.LineSegment{SegmentBase: shot.SegmentBase{OnHit: shot.HitStop, HitOrder: shot.OrderNear}, Length: 5},
			shot.SwingSegment{Range: 4, Count: 2},
		}},
		Modifiers: Modifiers{Range: 1.2, Damage: 2},
	}
	if err := Validate(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
