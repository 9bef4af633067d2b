package whiteboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/errors"
)

func TestNewBoardDefaults(t *testing.T) {
	b := newTestBoard(t)
	if b.Tool() != ToolSelect {
		t.Errorf("Tool() = %s, want select", b.Tool())
	}
	if b.Viewport() != NewViewport() {
		t.Errorf("Viewport() = %+v, want identity", b.Viewport())
	}
	if b.Title() != DefaultTitle {
		t.Errorf("Title() = %q, want %q", b.Title(), DefaultTitle)
	}
	if b.Status() != StatusSaved {
		t.Errorf("Status() = %s, want saved", b.Status())
	}
	if b.CanUndo() || b.CanRedo() {
		t.Error("new board should have empty history")
	}
}

func TestSetToolRejectsUnknown(t *testing.T) {
	b := newTestBoard(t)
	err := b.SetTool("lasso")
	if !errors.Is(err, errors.ErrCodeInvalidTool) {
		t.Errorf("SetTool(lasso) error = %v, want %s", err, errors.ErrCodeInvalidTool)
	}
	if b.Tool() != ToolSelect {
		t.Errorf("Tool() = %s after rejected switch", b.Tool())
	}
}

func TestBoardUpdate(t *testing.T) {
	b := newTestBoard(t)
	e := b.Create(StickyDraft(r2.Vec{}))

	got, err := b.Update(e.ID, Patch{Text: String("Validate findings"), Color: String("#DBEAFE")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	want := &StickyContent{Text: "Validate findings", Color: "#DBEAFE"}
	if diff := cmp.Diff(want, got.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestBoardUpdateErrors(t *testing.T) {
	b := newTestBoard(t)
	e := b.Create(StickyDraft(r2.Vec{}))
	cursor := b.history.Cursor()

	tests := []struct {
		name string
		id   string
		p    Patch
		code errors.Code
	}{
		{"unknown id", "nonexistent-id", Patch{X: Float(5)}, errors.ErrCodeElementNotFound},
		{"bad color", e.ID, Patch{Color: String("yellow")}, errors.ErrCodeInvalidColor},
		{"negative width", e.ID, Patch{Width: Float(-1)}, errors.ErrCodeInvalidElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := b.Elements()
			_, err := b.Update(tt.id, tt.p)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Update() error = %v, want %s", err, tt.code)
			}
			if diff := cmp.Diff(before, b.Elements()); diff != "" {
				t.Errorf("board changed (-before +after):\n%s", diff)
			}
			if b.history.Cursor() != cursor {
				t.Error("failed update pushed history")
			}
		})
	}
}

func TestBoardUndoRedo(t *testing.T) {
	b := newTestBoard(t)
	mustTool(t, b, ToolSticky)
	b.PointerDown(At(0, 0))
	b.PointerUp(At(0, 0))
	b.PointerDown(At(300, 0))
	b.PointerUp(At(300, 0))
	first := b.Elements()[0]
	b.Update(first.ID, Patch{Text: String("edited")})

	if !b.Undo() {
		t.Fatal("Undo() = false")
	}
	got, _ := b.Element(first.ID)
	if got.Content.(*StickyContent).Text != DefaultStickyText {
		t.Errorf("text after undo = %q, want %q", got.Content.(*StickyContent).Text, DefaultStickyText)
	}

	b.Undo()
	if b.Len() != 1 {
		t.Fatalf("Len() after two undos = %d, want 1", b.Len())
	}

	if !b.Redo() || b.Len() != 2 {
		t.Fatalf("Redo() did not restore second sticky, Len() = %d", b.Len())
	}

	b.Undo()
	b.Create(TextDraft(r2.Vec{}))
	if b.CanRedo() {
		t.Error("create after undo should clear redo")
	}
	if b.Redo() {
		t.Error("Redo() = true with empty future")
	}
	if b.Status() != StatusUnsaved {
		t.Errorf("Status() = %s, want unsaved", b.Status())
	}
}

func TestUndoClearsStaleSelection(t *testing.T) {
	b := newTestBoard(t)
	e := b.Create(TextDraft(r2.Vec{}))
	b.Select(e.ID)
	b.Undo()
	if _, ok := b.Selected(); ok {
		t.Error("selection survived undo of its element")
	}
}

func TestEditsMarkUnsaved(t *testing.T) {
	tests := []struct {
		name string
		edit func(b *Board)
	}{
		{"create", func(b *Board) { b.Create(TextDraft(r2.Vec{})) }},
		{"title", func(b *Board) { b.SetTitle("Research") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t)
			tt.edit(b)
			if b.Status() != StatusUnsaved {
				t.Errorf("Status() = %s, want unsaved", b.Status())
			}
		})
	}

	b := newTestBoard(t)
	b.SetTitle(DefaultTitle)
	b.PanBy(r2.Vec{X: 1})
	b.ZoomIn()
	if b.Status() != StatusSaved {
		t.Errorf("viewport changes marked the board %s", b.Status())
	}
}

func TestSetTitleValidates(t *testing.T) {
	b := newTestBoard(t)
	if err := b.SetTitle("bad\ntitle"); err == nil {
		t.Error("SetTitle with newline should fail")
	}
	if b.Title() != DefaultTitle {
		t.Errorf("Title() = %q after rejected rename", b.Title())
	}
}

func TestWithScene(t *testing.T) {
	src := newTestBoard(t)
	src.SetTitle("Research")
	e := src.Create(CardDraft(r2.Vec{X: 5, Y: 5}))
	src.Select(e.ID)
	src.ZoomIn()

	b := newTestBoard(t, WithScene(src.Scene()))
	if diff := cmp.Diff(src.Scene(), b.Scene()); diff != "" {
		t.Errorf("scene mismatch (-src +loaded):\n%s", diff)
	}
	if b.CanUndo() {
		t.Error("loaded scene should start a fresh history")
	}
	if b.Status() != StatusSaved {
		t.Errorf("Status() = %s, want saved", b.Status())
	}

	next := b.Create(TextDraft(r2.Vec{}))
	if next.ID == e.ID {
		t.Errorf("new element reused loaded id %q", next.ID)
	}
}

func TestViewportCommands(t *testing.T) {
	b := newTestBoard(t)
	b.SetZoom(10)
	if b.Viewport().Zoom != MaxZoom {
		t.Errorf("SetZoom(10) = %v, want %v", b.Viewport().Zoom, MaxZoom)
	}
	b.ZoomOut()
	b.PanBy(r2.Vec{X: 5, Y: 5})
	b.ResetView()
	if b.Viewport() != NewViewport() {
		t.Errorf("ResetView() = %+v", b.Viewport())
	}
}

func TestHitTestDegenerateStroke(t *testing.T) {
	b := newTestBoard(t)
	b.Create(PathDraft([]r2.Vec{{X: 0, Y: 10}, {X: 100, Y: 10}}))
	if _, ok := b.HitTest(r2.Vec{X: 50, Y: 10}); !ok {
		t.Error("horizontal stroke not hittable")
	}
}
