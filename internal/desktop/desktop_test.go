package desktop

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func newTestWidget(t *testing.T) (*BoardWidget, *whiteboard.Board) {
	t.Helper()
	test.NewTempApp(t)
	b := whiteboard.New()
	t.Cleanup(b.Close)
	w := NewBoardWidget(b, display.Light, nil)
	w.Resize(fyne.NewSize(400, 300))
	return w, b
}

func TestBoardWidgetPenStroke(t *testing.T) {
	w, b := newTestWidget(t)
	changes := 0
	w.OnChanged = func() { changes++ }

	w.Do(func(b *whiteboard.Board) { _ = b.SetTool(whiteboard.ToolPen) })
	w.MouseDown(mouse(10, 10))
	w.Dragged(drag(30, 20))
	w.Dragged(drag(50, 25))
	w.MouseUp(mouse(50, 25))
	w.DragEnd()

	if b.Len() != 1 {
		t.Fatalf("board has %d elements, want 1", b.Len())
	}
	if kind := b.Elements()[0].Kind(); kind != whiteboard.KindPath {
		t.Errorf("kind = %s, want path", kind)
	}
	if b.Phase() != whiteboard.PhaseIdle {
		t.Errorf("phase = %s after release", b.Phase())
	}
	if changes == 0 {
		t.Error("OnChanged should run on input")
	}
}

func TestBoardWidgetDragEndFinishesGesture(t *testing.T) {
	w, b := newTestWidget(t)
	w.Do(func(b *whiteboard.Board) { _ = b.SetTool(whiteboard.ToolArrow) })

	w.MouseDown(mouse(10, 10))
	w.Dragged(drag(80, 40))
	w.DragEnd()

	if b.Len() != 1 || b.Elements()[0].Kind() != whiteboard.KindArrow {
		t.Fatalf("elements = %+v, want one arrow", b.Elements())
	}
}

func TestBoardWidgetSecondaryButtonIgnored(t *testing.T) {
	w, b := newTestWidget(t)
	w.Do(func(b *whiteboard.Board) { _ = b.SetTool(whiteboard.ToolSticky) })

	ev := mouse(10, 10)
	ev.Button = desktop.MouseButtonSecondary
	w.MouseDown(ev)
	if b.Len() != 0 {
		t.Errorf("secondary click created %d elements", b.Len())
	}
}

func TestBoardWidgetScrollZooms(t *testing.T) {
	w, b := newTestWidget(t)

	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 10}})
	if z := b.Viewport().Zoom; z <= 1 {
		t.Errorf("zoom after scroll up = %v, want > 1", z)
	}
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	if z := b.Viewport().Zoom; z >= 1 {
		t.Errorf("zoom after scroll down = %v, want < 1", z)
	}
}

func TestBoardWidgetMouseOutEndsGesture(t *testing.T) {
	w, b := newTestWidget(t)
	w.Do(func(b *whiteboard.Board) { _ = b.SetTool(whiteboard.ToolPen) })

	w.MouseDown(mouse(10, 10))
	w.MouseMoved(mouse(40, 40))
	w.MouseOut()
	if b.Phase() != whiteboard.PhaseIdle {
		t.Errorf("phase = %s after leaving", b.Phase())
	}
}

func TestBoardWidgetPaint(t *testing.T) {
	w, _ := newTestWidget(t)

	img := w.paint(800, 600)
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("bounds = %v, want 800x600", b)
	}
	w.Resize(fyne.NewSize(0, 0))
	if b := w.paint(10, 10).Bounds(); b.Dx() != 10 {
		t.Errorf("empty widget bounds = %v", b)
	}
}

func TestEditor(t *testing.T) {
	app := test.NewTempApp(t)
	saved := make(chan whiteboard.Scene, 1)
	e := NewEditor(app, Options{Saver: whiteboard.SaverFunc(func(_ context.Context, s whiteboard.Scene) error {
		saved <- s
		return nil
	})})
	defer e.Close()

	e.Window.Canvas().OnTypedRune()('s')
	if got := e.board.Tool(); got != whiteboard.ToolSticky {
		t.Fatalf("tool after 's' = %s, want sticky", got)
	}
	if e.tools.Selected != string(whiteboard.ToolSticky) {
		t.Errorf("toolbar shows %q", e.tools.Selected)
	}

	e.Canvas.MouseDown(mouse(50, 50))
	e.Canvas.MouseUp(mouse(50, 50))
	if e.board.Len() != 1 {
		t.Fatalf("board has %d elements, want 1", e.board.Len())
	}

	e.setTitle("Sprint plan")
	if e.board.Title() != "Sprint plan" || e.title.Text != "Sprint plan" {
		t.Errorf("title = %q, entry = %q", e.board.Title(), e.title.Text)
	}
	e.setTitle("bad\ttitle")
	if e.board.Title() != "Sprint plan" {
		t.Errorf("invalid title applied: %q", e.board.Title())
	}

	if err := e.Save().Wait(); err != nil {
		t.Fatalf("save: %v", err)
	}
	s := <-saved
	if s.Title != "Sprint plan" || len(s.Elements) != 1 {
		t.Errorf("saved %q with %d elements", s.Title, len(s.Elements))
	}
	if got := e.board.Status(); got != whiteboard.StatusSaved {
		t.Errorf("status = %s, want saved", got)
	}
}

func TestDescribeSelection(t *testing.T) {
	scene := whiteboard.Scene{
		Elements: []whiteboard.Element{
			{ID: "n1", X: 10, Y: 20, Width: 200, Height: 120, Content: &whiteboard.StickyContent{Text: "x"}},
		},
	}
	if got := describeSelection(scene); got != "1 elements" {
		t.Errorf("no selection = %q", got)
	}
	scene.Selected = "n1"
	if got, want := describeSelection(scene), "sticky n1 at 10, 20 (200×120)"; got != want {
		t.Errorf("selection = %q, want %q", got, want)
	}
}
