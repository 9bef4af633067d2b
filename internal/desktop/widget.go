// Package desktop is the fyne front end of the whiteboard: a canvas widget
// that feeds pointer and wheel input to a [whiteboard.Board] and paints its
// frames, plus the editor window around it.
package desktop

import (
	"image"
	"io"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/sink"
)

// BoardWidget paints a board and translates fyne mouse input into board
// pointer events. All board access goes through the widget's lock.
type BoardWidget struct {
	widget.BaseWidget

	mu      sync.Mutex
	board   *whiteboard.Board
	theme   display.Theme
	logger  *log.Logger
	lastPos fyne.Position

	// OnChanged runs after every input that may have changed the board.
	OnChanged func()
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ fyne.Scrollable   = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
	_ desktop.Hoverable = (*BoardWidget)(nil)
)

// NewBoardWidget wraps b. A nil logger discards.
func NewBoardWidget(b *whiteboard.Board, theme display.Theme, logger *log.Logger) *BoardWidget {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &BoardWidget{board: b, theme: theme, logger: logger}
	w.ExtendBaseWidget(w)
	return w
}

// Do runs fn with exclusive access to the board, then repaints.
func (w *BoardWidget) Do(fn func(b *whiteboard.Board)) {
	w.mu.Lock()
	fn(w.board)
	w.mu.Unlock()
	w.changed()
}

// Scene returns a snapshot of the board.
func (w *BoardWidget) Scene() whiteboard.Scene {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.board.Scene()
}

func (w *BoardWidget) changed() {
	w.Refresh()
	if w.OnChanged != nil {
		w.OnChanged()
	}
}

func event(pos fyne.Position, button desktop.MouseButton) whiteboard.PointerEvent {
	ev := whiteboard.PointerEvent{Pos: r2.Vec{X: float64(pos.X), Y: float64(pos.Y)}}
	switch button {
	case desktop.MouseButtonSecondary:
		ev.Button = whiteboard.ButtonSecondary
	case desktop.MouseButtonTertiary:
		ev.Button = whiteboard.ButtonMiddle
	}
	return ev
}

// =============================================================================
// Input
// =============================================================================

// MouseDown starts a gesture.
func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	w.lastPos = e.Position
	w.Do(func(b *whiteboard.Board) { b.PointerDown(event(e.Position, e.Button)) })
}

// MouseUp ends the gesture at the release point.
func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	w.lastPos = e.Position
	w.Do(func(b *whiteboard.Board) {
		if b.Phase() != whiteboard.PhaseIdle {
			b.PointerUp(event(e.Position, e.Button))
		}
	})
}

// Dragged moves the gesture while the button is held.
func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.lastPos = e.Position
	w.Do(func(b *whiteboard.Board) { b.PointerMove(event(e.Position, desktop.MouseButtonPrimary)) })
}

// DragEnd ends a gesture that MouseUp did not.
func (w *BoardWidget) DragEnd() {
	w.Do(func(b *whiteboard.Board) {
		if b.Phase() != whiteboard.PhaseIdle {
			b.PointerUp(event(w.lastPos, desktop.MouseButtonPrimary))
		}
	})
}

// MouseIn implements desktop.Hoverable.
func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseMoved forwards hover moves; the board ignores them when idle.
func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	w.lastPos = e.Position
	w.mu.Lock()
	active := w.board.Phase() != whiteboard.PhaseIdle
	if active {
		w.board.PointerMove(event(e.Position, e.Button))
	}
	w.mu.Unlock()
	if active {
		w.changed()
	}
}

// MouseOut ends any gesture when the pointer leaves the canvas.
func (w *BoardWidget) MouseOut() {
	w.Do(func(b *whiteboard.Board) { b.PointerLeave() })
}

// Scrolled zooms: scrolling up zooms in.
func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	w.Do(func(b *whiteboard.Board) { b.Wheel(-float64(e.Scrolled.DY)) })
}

// =============================================================================
// Rendering
// =============================================================================

// CreateRenderer implements fyne.Widget.
func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{widget: w, raster: fynecanvas.NewRaster(w.paint)}
}

// paint draws the current frame at the raster's pixel size.
func (w *BoardWidget) paint(px, py int) image.Image {
	size := w.Size()
	blank := image.NewNRGBA(image.Rect(0, 0, max(px, 1), max(py, 1)))
	if size.Width <= 0 || size.Height <= 0 || px <= 0 || py <= 0 {
		return blank
	}
	frame := display.Build(w.Scene(),
		display.WithSize(float64(size.Width), float64(size.Height)),
		display.WithTheme(w.theme),
	)
	img, err := sink.RenderImage(frame, sink.WithScale(float64(px)/float64(size.Width)))
	if err != nil {
		w.logger.Error("paint board", "err", err)
		return blank
	}
	return img
}

type boardRenderer struct {
	widget *BoardWidget
	raster *fynecanvas.Raster
}

func (r *boardRenderer) Layout(size fyne.Size)        { r.raster.Resize(size) }
func (r *boardRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 240) }
func (r *boardRenderer) Refresh()                     { r.raster.Refresh() }
func (r *boardRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.raster} }
func (r *boardRenderer) Destroy()                     {}
