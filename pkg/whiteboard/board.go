package whiteboard

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/observability"
)

// DefaultTitle is the title of a new board.
const DefaultTitle = "Untitled Whiteboard"

// Board is the controller owning one whiteboard session: the element
// store, viewport, active tool, pointer gesture, undo history, selection,
// title and save status. All input flows through its methods.
//
// A Board is owned by a single goroutine (the UI loop) and is not safe for
// concurrent use. The save status is the exception: background save tasks
// update it, so it is guarded internally.
type Board struct {
	title    string
	store    *Store
	history  *History
	viewport Viewport
	tool     Tool
	gesture  gesture
	selected string

	logger *log.Logger
	saver  Saver
	save   *saveState
}

// Scene is a snapshot of everything the render pass and side panels need.
type Scene struct {
	Title    string
	Viewport Viewport
	Elements []Element
	Tool     Tool
	Selected string   // id of the selected element, if any
	Draft    []r2.Vec // in-progress stroke, logical coordinates
}

// Option configures a Board.
type Option func(*config)

type config struct {
	logger       *log.Logger
	ids          IDSource
	saver        Saver
	historyLimit int
	scene        *Scene
	onStatus     func(SaveStatus)
}

// WithLogger sets the logger for board events. Defaults to a discarding
// logger.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithIDSource sets the element id generator.
func WithIDSource(ids IDSource) Option {
	return func(c *config) { c.ids = ids }
}

// WithSaver sets the backend used by Save. Defaults to a SimulatedSaver.
func WithSaver(s Saver) Option {
	return func(c *config) { c.saver = s }
}

// WithHistoryLimit caps the undo history. Zero or less keeps everything.
func WithHistoryLimit(n int) Option {
	return func(c *config) { c.historyLimit = n }
}

// WithScene seeds the board with a previously saved scene. The gesture and
// draft of the scene are ignored.
func WithScene(s Scene) Option {
	return func(c *config) { c.scene = &s }
}

// WithStatusListener registers fn to be called after every save status
// change. fn may be called from a save task goroutine.
func WithStatusListener(fn func(SaveStatus)) Option {
	return func(c *config) { c.onStatus = fn }
}

// New creates a board with the select tool active and the identity
// viewport.
func New(opts ...Option) *Board {
	cfg := config{historyLimit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.saver == nil {
		cfg.saver = SimulatedSaver{Delay: DefaultSaveDelay}
	}

	b := &Board{
		title:    DefaultTitle,
		store:    NewStore(cfg.ids),
		viewport: NewViewport(),
		tool:     ToolSelect,
		logger:   cfg.logger,
		saver:    cfg.saver,
		save:     newSaveState(cfg.onStatus),
	}
	if s := cfg.scene; s != nil {
		if s.Title != "" {
			b.title = s.Title
		}
		if s.Viewport.Zoom != 0 {
			b.viewport = Viewport{Zoom: ClampZoom(s.Viewport.Zoom), Pan: s.Viewport.Pan}
		}
		if s.Tool.Valid() {
			b.tool = s.Tool
		}
		b.store.Restore(s.Elements)
		if _, ok := b.store.Select(s.Selected); ok {
			b.selected = s.Selected
		}
	}
	b.history = NewHistory(b.store.Snapshot(), cfg.historyLimit)
	return b
}

// =============================================================================
// Tools
// =============================================================================

// Tool returns the active tool.
func (b *Board) Tool() Tool { return b.tool }

// SetTool switches the active tool. It does not touch elements or cancel
// the gesture in flight; an unfinished pen stroke is dropped when the
// pointer is released under another tool.
func (b *Board) SetTool(t Tool) error {
	if !t.Valid() {
		return errors.New(errors.ErrCodeInvalidTool, "unknown tool %q", string(t))
	}
	if t != b.tool {
		b.logger.Debug("tool selected", "tool", t, "previous", b.tool)
		if b.gesture.phase != PhaseIdle {
			b.gesture.abandoned = true
		}
	}
	b.tool = t
	return nil
}

// =============================================================================
// Elements
// =============================================================================

// Create stores a new element and records an undo step.
func (b *Board) Create(d Draft) Element {
	e := b.store.Create(d)
	b.committed()
	b.logger.Debug("element created", "id", e.ID, "kind", e.Kind(), "x", e.X, "y", e.Y)
	observability.Board().OnElementCreated(string(e.Kind()), b.store.Len())
	return e
}

// Update applies a property edit. Invalid values fail with an INVALID_*
// code and unknown ids with ErrCodeElementNotFound; neither changes the
// board.
func (b *Board) Update(id string, p Patch) (Element, error) {
	if err := p.Validate(); err != nil {
		return Element{}, err
	}
	e, err := b.store.Update(id, p)
	observability.Board().OnElementUpdated(id, err)
	if err != nil {
		b.logger.Warn("update ignored", "id", id, "err", err)
		return Element{}, err
	}
	b.committed()
	b.logger.Debug("element updated", "id", id, "kind", e.Kind())
	return e, nil
}

// Element looks up an element by id.
func (b *Board) Element(id string) (Element, bool) {
	return b.store.Select(id)
}

// Elements returns copies of all elements in z-order.
func (b *Board) Elements() []Element {
	return b.store.Elements()
}

// Len returns the number of elements.
func (b *Board) Len() int { return b.store.Len() }

// Select marks the element with the given id as selected for the
// properties panel and returns it.
func (b *Board) Select(id string) (Element, bool) {
	e, ok := b.store.Select(id)
	if ok {
		b.selected = id
	}
	return e, ok
}

// ClearSelection deselects the selected element.
func (b *Board) ClearSelection() { b.selected = "" }

// Selected returns the selected element, if any.
func (b *Board) Selected() (Element, bool) {
	if b.selected == "" {
		return Element{}, false
	}
	return b.store.Select(b.selected)
}

// HitTest returns the topmost element whose bounds contain the screen
// point.
func (b *Board) HitTest(screen r2.Vec) (Element, bool) {
	p := b.viewport.ToLogical(screen)
	elems := b.store.Elements()
	for _, e := range slices.Backward(elems) {
		if contains(e.Bounds(), p) {
			return e, true
		}
	}
	return Element{}, false
}

func (b *Board) selectAt(screen r2.Vec) {
	if e, ok := b.HitTest(screen); ok {
		b.selected = e.ID
		b.logger.Debug("element selected", "id", e.ID)
		return
	}
	b.selected = ""
}

// contains is Box.Contains without the special case for degenerate boxes,
// so horizontal and vertical strokes stay hittable.
func contains(box r2.Box, p r2.Vec) bool {
	return box.Min.X <= p.X && p.X <= box.Max.X &&
		box.Min.Y <= p.Y && p.Y <= box.Max.Y
}

// =============================================================================
// History
// =============================================================================

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (b *Board) Undo() bool {
	snap, ok := b.history.Undo()
	if !ok {
		return false
	}
	b.restore(snap)
	return true
}

// Redo re-applies the next snapshot. It reports false when there is
// nothing to redo.
func (b *Board) Redo() bool {
	snap, ok := b.history.Redo()
	if !ok {
		return false
	}
	b.restore(snap)
	return true
}

func (b *Board) CanUndo() bool { return b.history.CanUndo() }
func (b *Board) CanRedo() bool { return b.history.CanRedo() }

func (b *Board) restore(snap []Element) {
	b.store.Restore(snap)
	if _, ok := b.store.Select(b.selected); !ok {
		b.selected = ""
	}
	b.save.markDirty()
	b.logger.Debug("history restored", "cursor", b.history.Cursor(), "elements", len(snap))
}

// committed records the store state after a mutation.
func (b *Board) committed() {
	b.history.Push(b.store.Snapshot())
	b.save.markDirty()
}

// =============================================================================
// Viewport
// =============================================================================

// Viewport returns the current viewport.
func (b *Board) Viewport() Viewport { return b.viewport }

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom].
func (b *Board) SetZoom(z float64) {
	b.viewport.SetZoom(z)
	b.viewportChanged()
}

// PanBy moves the pan offset by delta screen pixels.
func (b *Board) PanBy(delta r2.Vec) {
	b.viewport.PanBy(delta)
	b.viewportChanged()
}

// ZoomIn applies the toolbar zoom-in step.
func (b *Board) ZoomIn() {
	b.viewport.ZoomIn()
	b.viewportChanged()
}

// ZoomOut applies the toolbar zoom-out step.
func (b *Board) ZoomOut() {
	b.viewport.ZoomOut()
	b.viewportChanged()
}

// ResetView restores zoom 1 and pan (0,0).
func (b *Board) ResetView() {
	b.viewport.Reset()
	b.viewportChanged()
}

func (b *Board) viewportChanged() {
	v := b.viewport
	observability.Board().OnViewportChanged(v.Zoom, v.Pan.X, v.Pan.Y)
}

// =============================================================================
// Document
// =============================================================================

// Title returns the board title.
func (b *Board) Title() string { return b.title }

// SetTitle renames the board and marks it unsaved.
func (b *Board) SetTitle(title string) error {
	if err := errors.ValidateTitle(title); err != nil {
		return err
	}
	if title == b.title {
		return nil
	}
	b.title = title
	b.save.markDirty()
	return nil
}

// Scene returns a snapshot of the board for rendering or saving.
func (b *Board) Scene() Scene {
	return Scene{
		Title:    b.title,
		Viewport: b.viewport,
		Elements: b.store.Elements(),
		Tool:     b.tool,
		Selected: b.selected,
		Draft:    b.DraftPath(),
	}
}
