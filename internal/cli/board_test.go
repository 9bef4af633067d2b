package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

func newTestModel(t *testing.T) boardModel {
	t.Helper()
	b := whiteboard.New(whiteboard.WithSaver(whiteboard.SimulatedSaver{}))
	t.Cleanup(b.Close)
	m := newBoardModel(context.Background(), b, display.Light)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m boardModel, msg tea.Msg) boardModel {
	t.Helper()
	next, _ := m.Update(msg)
	bm, ok := next.(boardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardModelToolShortcuts(t *testing.T) {
	m := newTestModel(t)

	for key, want := range map[string]whiteboard.Tool{
		"p": whiteboard.ToolPen,
		"s": whiteboard.ToolSticky,
		"a": whiteboard.ToolArrow,
		"v": whiteboard.ToolSelect,
	} {
		m = update(t, m, keys(key))
		if got := m.board.Tool(); got != want {
			t.Errorf("key %q: tool = %s, want %s", key, got, want)
		}
	}
}

func TestBoardModelMouseStroke(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("p"))

	for _, msg := range []tea.MouseMsg{
		{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
		{X: 14, Y: 6, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion},
		{X: 18, Y: 6, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease},
	} {
		m = update(t, m, msg)
	}

	if m.board.Len() != 1 {
		t.Fatalf("board has %d elements, want 1", m.board.Len())
	}
	if kind := m.board.Elements()[0].Kind(); kind != whiteboard.KindPath {
		t.Errorf("kind = %s, want path", kind)
	}
}

func TestBoardModelOtherButtonReleaseKeepsStroke(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("p"))

	for _, msg := range []tea.MouseMsg{
		{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
		{X: 14, Y: 6, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion},
		{X: 14, Y: 6, Button: tea.MouseButtonRight, Action: tea.MouseActionRelease},
		{X: 14, Y: 6, Button: tea.MouseButtonMiddle, Action: tea.MouseActionRelease},
	} {
		m = update(t, m, msg)
	}
	if m.board.Phase() != whiteboard.PhaseDragging {
		t.Fatalf("phase = %s after right and middle release, want dragging", m.board.Phase())
	}

	m = update(t, m, tea.MouseMsg{X: 18, Y: 7, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 18, Y: 7, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})

	if m.board.Len() != 1 {
		t.Fatalf("board has %d elements, want 1", m.board.Len())
	}
	path, ok := m.board.Elements()[0].Content.(*whiteboard.PathContent)
	if !ok {
		t.Fatalf("content = %T, want path", m.board.Elements()[0].Content)
	}
	if len(path.Points) != 3 {
		t.Errorf("stroke has %d points, want 3", len(path.Points))
	}
}

func TestBoardModelKeyboardStroke(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("a"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	for range 5 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	if m.board.Len() != 1 {
		t.Fatalf("board has %d elements, want 1", m.board.Len())
	}
	if kind := m.board.Elements()[0].Kind(); kind != whiteboard.KindArrow {
		t.Errorf("kind = %s, want arrow", kind)
	}
	if m.cursor != [2]int{5, 1} {
		t.Errorf("cursor = %v", m.cursor)
	}
}

func TestBoardModelCursorStaysOnCanvas(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != [2]int{0, 0} {
		t.Errorf("cursor = %v, want origin", m.cursor)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 4, Height: 6})
	for range 10 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if want := [2]int{3, m.canvasRows() - 1}; m.cursor != want {
		t.Errorf("cursor = %v, want %v", m.cursor, want)
	}
}

func TestBoardModelViewportKeys(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keys("+"))
	if m.board.Viewport().Zoom <= 1 {
		t.Errorf("zoom after + = %v", m.board.Viewport().Zoom)
	}
	m = update(t, m, keys("0"))
	if m.board.Viewport() != whiteboard.NewViewport() {
		t.Errorf("viewport after reset = %+v", m.board.Viewport())
	}
	m = update(t, m, tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.board.Viewport().Zoom >= 1 {
		t.Errorf("zoom after wheel down = %v", m.board.Viewport().Zoom)
	}
}

func TestBoardModelUndoRedo(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("u"))
	if m.message != "nothing to undo" {
		t.Errorf("message = %q", m.message)
	}

	m = update(t, m, keys("s"))
	m = update(t, m, tea.MouseMsg{X: 20, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 20, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if m.board.Len() != 1 {
		t.Fatalf("board has %d elements, want 1", m.board.Len())
	}

	m = update(t, m, keys("u"))
	if m.board.Len() != 0 {
		t.Errorf("after undo: %d elements", m.board.Len())
	}
	m = update(t, m, keys("U"))
	if m.board.Len() != 1 {
		t.Errorf("after redo: %d elements", m.board.Len())
	}
}

func TestBoardModelSave(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("c"))
	m = update(t, m, tea.MouseMsg{X: 20, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s should return a save command")
	}
	msg, ok := cmd().(saveDoneMsg)
	if !ok || msg.err != nil {
		t.Fatalf("save result = %+v", msg)
	}
	m = update(t, next.(boardModel), msg)
	if got := m.board.Status(); got != whiteboard.StatusSaved {
		t.Errorf("status = %s, want saved", got)
	}
}

func TestBoardModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestBoardModelView(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("s"))
	m = update(t, m, tea.MouseMsg{X: 20, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 20, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	view := m.View()
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if want := m.rows; len(lines) != want {
		t.Errorf("view has %d lines, want %d", len(lines), want)
	}
	for _, want := range []string{whiteboard.DefaultTitle, "sticky", "1 elements", "? help"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = update(t, m, keys("?"))
	if !strings.Contains(m.View(), "ctrl+s save") {
		t.Error("help should list the save key")
	}
}
