package whiteboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestElementBounds(t *testing.T) {
	tests := []struct {
		name string
		e    Element
		want r2.Box
	}{
		{
			name: "sticky",
			e:    Element{X: 350, Y: 400, Width: 200, Height: 120, Content: &StickyContent{}},
			want: r2.Box{Min: r2.Vec{X: 350, Y: 400}, Max: r2.Vec{X: 550, Y: 520}},
		},
		{
			name: "path",
			e:    Element{Content: &PathContent{Points: []r2.Vec{{X: 5, Y: 9}, {X: -2, Y: 3}, {X: 4, Y: 12}}}},
			want: r2.Box{Min: r2.Vec{X: -2, Y: 3}, Max: r2.Vec{X: 5, Y: 12}},
		},
		{
			name: "empty path",
			e:    Element{Content: &PathContent{}},
			want: r2.Box{},
		},
		{
			name: "arrow pointing up-left",
			e:    Element{Content: &ArrowContent{X1: 550, Y1: 280, X2: 480, Y2: 240}},
			want: r2.Box{Min: r2.Vec{X: 480, Y: 240}, Max: r2.Vec{X: 550, Y: 280}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Bounds(); got != tt.want {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementClone(t *testing.T) {
	orig := Element{ID: "c", Content: &CardContent{Title: "t", Tags: []string{"a"}}}
	cp := orig.Clone()
	cp.Content.(*CardContent).Tags[0] = "changed"
	cp.Content.(*CardContent).Title = "changed"

	want := &CardContent{Title: "t", Tags: []string{"a"}}
	if diff := cmp.Diff(want, orig.Content); diff != "" {
		t.Errorf("Clone() aliases content (-want +got):\n%s", diff)
	}
}

func TestElementKind(t *testing.T) {
	drafts := map[Kind]Draft{
		KindCard:   CardDraft(r2.Vec{}),
		KindSticky: StickyDraft(r2.Vec{}),
		KindText:   TextDraft(r2.Vec{}),
		KindPath:   PathDraft(nil),
		KindArrow:  ArrowDraft(r2.Vec{}, r2.Vec{X: 1}),
	}
	if len(drafts) != len(Kinds()) {
		t.Fatalf("draft constructors cover %d kinds, want %d", len(drafts), len(Kinds()))
	}
	for kind, d := range drafts {
		if got := d.Content.Kind(); got != kind {
			t.Errorf("draft kind = %s, want %s", got, kind)
		}
	}
	if (Element{}).Kind() != "" {
		t.Error("element without content should have empty kind")
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (Patch{Text: String("x")}).Empty() {
		t.Error("patch with text should not be empty")
	}
}
