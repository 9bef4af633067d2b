package whiteboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestStoreCreate(t *testing.T) {
	s := NewStore(nil)
	seen := map[string]bool{}
	drafts := []Draft{
		TextDraft(r2.Vec{X: 1, Y: 2}),
		StickyDraft(r2.Vec{X: 3, Y: 4}),
		CardDraft(r2.Vec{}),
		PathDraft([]r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 5}}),
		ArrowDraft(r2.Vec{X: 5, Y: 5}, r2.Vec{X: 1, Y: 9}),
	}

	for i, d := range drafts {
		before := s.Len()
		e := s.Create(d)
		if s.Len() != before+1 {
			t.Fatalf("Len() after create %d = %d, want %d", i, s.Len(), before+1)
		}
		if e.ID == "" || seen[e.ID] {
			t.Fatalf("create %d returned id %q, want fresh id", i, e.ID)
		}
		seen[e.ID] = true
	}

	got := s.Elements()
	for i, e := range got {
		if e.Kind() != drafts[i].Content.Kind() {
			t.Errorf("element %d kind = %s, want %s (append order)", i, e.Kind(), drafts[i].Content.Kind())
		}
	}
}

func TestStoreCreateCopiesDraft(t *testing.T) {
	s := NewStore(SequenceSource("e"))
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}
	d := Draft{Content: &PathContent{Points: pts, StrokeWidth: 2, Color: "#000000"}}
	e := s.Create(d)
	pts[0] = r2.Vec{X: 99, Y: 99}

	stored, _ := s.Select(e.ID)
	if stored.Content.(*PathContent).Points[0] != (r2.Vec{}) {
		t.Error("store aliases draft points")
	}

	e.Content.(*PathContent).Points[1] = r2.Vec{X: -1, Y: -1}
	stored, _ = s.Select(e.ID)
	if stored.Content.(*PathContent).Points[1] != (r2.Vec{X: 1, Y: 1}) {
		t.Error("store aliases returned element")
	}
}

func TestStoreCreateSkipsDuplicateIDs(t *testing.T) {
	ids := []string{"a", "a", "", "b"}
	i := 0
	s := NewStore(func() string {
		id := ids[i]
		i++
		return id
	})
	first := s.Create(TextDraft(r2.Vec{}))
	second := s.Create(TextDraft(r2.Vec{}))
	if first.ID != "a" || second.ID != "b" {
		t.Errorf("ids = %q, %q, want a, b", first.ID, second.ID)
	}
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore(SequenceSource("e"))
	card := s.Create(CardDraft(r2.Vec{X: 10, Y: 10}))

	got, err := s.Update(card.ID, Patch{
		X:     Float(40),
		Title: String("Research"),
		Tags:  Strings("a", "b"),
		Text:  String("ignored for cards"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := Element{
		ID: card.ID, X: 40, Y: 10, Width: DefaultCardWidth, Height: DefaultCardHeight,
		Content: &CardContent{Title: "Research", Tags: []string{"a", "b"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Update() mismatch (-want +got):\n%s", diff)
	}

	stored, _ := s.Select(card.ID)
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored element differs from returned (-returned +stored):\n%s", diff)
	}
}

func TestStoreUpdateNotFound(t *testing.T) {
	s := NewStore(SequenceSource("e"))
	s.Create(StickyDraft(r2.Vec{X: 1, Y: 1}))
	before := s.Snapshot()

	_, err := s.Update("nonexistent-id", Patch{X: Float(5)})
	if !IsNotFound(err) {
		t.Fatalf("Update(nonexistent) error = %v, want not found", err)
	}
	if diff := cmp.Diff(before, s.Elements()); diff != "" {
		t.Errorf("store changed after failed update (-before +after):\n%s", diff)
	}
}

func TestStoreUpdateMovesGeometry(t *testing.T) {
	s := NewStore(SequenceSource("e"))
	path := s.Create(PathDraft([]r2.Vec{{X: 10, Y: 20}, {X: 30, Y: 25}}))
	if path.X != 10 || path.Y != 20 || path.Width != 20 || path.Height != 5 {
		t.Fatalf("path box = (%v,%v %vx%v), want (10,20 20x5)", path.X, path.Y, path.Width, path.Height)
	}

	got, err := s.Update(path.ID, Patch{X: Float(0), Y: Float(0), Width: Float(500)})
	if err != nil {
		t.Fatal(err)
	}
	wantPts := []r2.Vec{{X: 0, Y: 0}, {X: 20, Y: 5}}
	if diff := cmp.Diff(wantPts, got.Content.(*PathContent).Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if got.Width != 20 {
		t.Errorf("Width = %v, want 20 (width patch ignored for paths)", got.Width)
	}

	arrow := s.Create(ArrowDraft(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 10}))
	got, err = s.Update(arrow.ID, Patch{X2: Float(20)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 20 {
		t.Errorf("arrow Width = %v, want 20 after endpoint edit", got.Width)
	}
}

func TestStoreSelect(t *testing.T) {
	s := NewStore(SequenceSource("e"))
	e := s.Create(TextDraft(r2.Vec{}))
	if got, ok := s.Select(e.ID); !ok || got.ID != e.ID {
		t.Errorf("Select(%q) = %v, %v", e.ID, got.ID, ok)
	}
	if _, ok := s.Select("missing"); ok {
		t.Error("Select(missing) found an element")
	}
	if _, ok := s.At(1); ok {
		t.Error("At(1) on single-element store found an element")
	}
}

func TestStoreRestore(t *testing.T) {
	s := NewStore(SequenceSource("e"))
	s.Create(TextDraft(r2.Vec{}))
	snap := s.Snapshot()
	second := s.Create(StickyDraft(r2.Vec{}))

	s.Restore(snap)
	if s.Len() != 1 {
		t.Fatalf("Len() after restore = %d, want 1", s.Len())
	}
	if _, ok := s.Select(second.ID); ok {
		t.Error("restored store still indexes dropped element")
	}
}

func TestSequenceSource(t *testing.T) {
	next := SequenceSource("el-")
	for _, want := range []string{"el-1", "el-2", "el-3"} {
		if got := next(); got != want {
			t.Errorf("next() = %q, want %q", got, want)
		}
	}
}
