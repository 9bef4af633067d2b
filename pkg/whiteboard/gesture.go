package whiteboard

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/observability"
)

// Phase is the pointer phase of the interaction handler.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDown
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a pointer sample in screen coordinates.
type PointerEvent struct {
	Pos    r2.Vec
	Button Button
}

// At builds a primary-button event at (x, y).
func At(x, y float64) PointerEvent {
	return PointerEvent{Pos: r2.Vec{X: x, Y: y}}
}

// gesture is the state of the pointer between down and up.
type gesture struct {
	phase  Phase
	tool   Tool     // tool active at pointer-down
	anchor r2.Vec   // last screen position
	start  r2.Vec   // logical pointer-down position
	last   r2.Vec   // logical position of the latest sample
	path   []r2.Vec // logical points of a pen stroke

	// abandoned is set when the tool changes mid-gesture. It sticks even if
	// the original tool is selected again before release.
	abandoned bool
}

// Phase returns the current pointer phase.
func (b *Board) Phase() Phase { return b.gesture.phase }

// PointerDown starts a gesture according to the active tool. Only the
// primary button starts gestures, and a press during a gesture is ignored.
func (b *Board) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonPrimary || b.gesture.phase != PhaseIdle {
		return
	}
	p := b.viewport.ToLogical(ev.Pos)
	b.gesture = gesture{phase: PhaseDown, tool: b.tool, anchor: ev.Pos, start: p, last: p}

	switch b.tool {
	case ToolPen:
		b.gesture.path = []r2.Vec{p}
	case ToolText:
		b.Create(TextDraft(p))
	case ToolSticky:
		b.Create(StickyDraft(p))
	case ToolCard:
		b.Create(CardDraft(p))
	}
}

// PointerMove advances the current gesture. Moves are ignored once the tool
// has changed since pointer-down.
func (b *Board) PointerMove(ev PointerEvent) {
	g := &b.gesture
	if g.phase == PhaseIdle || g.abandoned {
		return
	}

	switch g.tool {
	case ToolSelect:
		delta := r2.Sub(ev.Pos, g.anchor)
		g.anchor = ev.Pos
		g.phase = PhaseDragging
		if delta != (r2.Vec{}) {
			b.PanBy(delta)
		}
	case ToolPen:
		p := b.viewport.ToLogical(ev.Pos)
		g.path = append(g.path, p)
		g.anchor = ev.Pos
		g.last = p
		g.phase = PhaseDragging
	case ToolArrow:
		g.anchor = ev.Pos
		g.last = b.viewport.ToLogical(ev.Pos)
		g.phase = PhaseDragging
	}
}

// PointerUp finishes the current gesture, committing a pen stroke or an
// arrow when one was drawn. A stroke of one point, or one whose tool was
// switched away mid-gesture, is dropped. Releasing another button while the
// primary is held does not end the gesture.
func (b *Board) PointerUp(ev PointerEvent) {
	g := b.gesture
	if g.phase == PhaseIdle || ev.Button != ButtonPrimary {
		return
	}
	b.gesture = gesture{}

	committed := false
	switch g.tool {
	case ToolSelect:
		if g.phase == PhaseDown && !g.abandoned {
			b.selectAt(ev.Pos)
		}
	case ToolPen:
		if !g.abandoned && len(g.path) > 1 {
			b.Create(PathDraft(g.path))
			committed = true
		}
	case ToolArrow:
		if !g.abandoned {
			end := b.viewport.ToLogical(ev.Pos)
			if end != g.start {
				b.Create(ArrowDraft(g.start, end))
				committed = true
			}
		}
	case ToolText, ToolSticky, ToolCard:
		committed = true
	}

	b.logger.Debug("gesture finished", "tool", g.tool, "phase", g.phase, "abandoned", g.abandoned, "committed", committed)
	observability.Board().OnGesture(string(g.tool), committed)
}

// PointerLeave ends the gesture as if the pointer was released where it
// was last seen.
func (b *Board) PointerLeave() {
	if b.gesture.phase == PhaseIdle {
		return
	}
	b.PointerUp(PointerEvent{Pos: b.gesture.anchor})
}

// Wheel applies one wheel tick to the zoom.
func (b *Board) Wheel(deltaY float64) {
	b.viewport.Wheel(deltaY)
	b.viewportChanged()
}

// DraftPath returns the in-progress stroke in logical coordinates: the pen
// points, or the arrow tail and current head. It is nil when no stroke is
// being drawn.
func (b *Board) DraftPath() []r2.Vec {
	g := b.gesture
	if g.phase == PhaseIdle || g.abandoned {
		return nil
	}
	switch g.tool {
	case ToolPen:
		return append([]r2.Vec(nil), g.path...)
	case ToolArrow:
		if g.phase == PhaseDragging {
			return []r2.Vec{g.start, g.last}
		}
	}
	return nil
}
