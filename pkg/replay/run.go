package replay

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// RunOption configures Run.
type RunOption func(*runner)

type runner struct {
	logger *log.Logger
	onStep func(i int, step Step)
}

// WithLogger sets the logger steps are reported to.
func WithLogger(l *log.Logger) RunOption {
	return func(r *runner) { r.logger = l }
}

// WithStepHook calls fn after every applied step with its zero-based index.
func WithStepHook(fn func(i int, step Step)) RunOption {
	return func(r *runner) { r.onStep = fn }
}

// NewBoard creates a board titled after the script.
func (s *Script) NewBoard(opts ...whiteboard.Option) (*whiteboard.Board, error) {
	b := whiteboard.New(opts...)
	if s.Title != "" {
		if err := b.SetTitle(s.Title); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Run applies every step of s to b in order. It stops at the first step
// that fails and between steps when ctx is done. Errors name the step.
func Run(ctx context.Context, b *whiteboard.Board, s *Script, opts ...RunOption) error {
	r := runner{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&r)
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(b, step); err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInvalidScript
			}
			return errors.Wrap(code, err, "step %d (%s)", i+1, step.Action())
		}
		r.logger.Debug("step applied", "step", i+1, "action", step.Action(), "elements", b.Len())
		if r.onStep != nil {
			r.onStep(i, step)
		}
	}
	return nil
}

func apply(b *whiteboard.Board, s Step) error {
	switch s.Action() {
	case "tool":
		return b.SetTool(whiteboard.Tool(s.Tool))
	case "down":
		b.PointerDown(s.Down.Event())
	case "move":
		for _, p := range s.Move {
			b.PointerMove(p.Event())
		}
	case "up":
		b.PointerUp(s.Up.Event())
	case "drag":
		b.PointerDown(s.Drag[0].Event())
		for _, p := range s.Drag[1:] {
			b.PointerMove(p.Event())
		}
		b.PointerUp(s.Drag[len(s.Drag)-1].Event())
	case "leave":
		b.PointerLeave()
	case "wheel":
		b.Wheel(*s.Wheel)
	case "zoom":
		b.SetZoom(*s.Zoom)
	case "pan":
		b.PanBy(s.Pan.Vec())
	case "edit":
		id, err := resolve(b, s.Edit.Element)
		if err != nil {
			return err
		}
		_, err = b.Update(id, s.Edit.Patch())
		return err
	case "select":
		id, err := resolve(b, *s.Select)
		if err != nil {
			return err
		}
		b.Select(id)
	case "undo":
		b.Undo()
	case "redo":
		b.Redo()
	case "title":
		return b.SetTitle(*s.SetTo)
	default:
		return errors.New(errors.ErrCodeInvalidScript, "step must carry exactly one action")
	}
	return nil
}

// resolve maps a reference to an element id.
func resolve(b *whiteboard.Board, ref Ref) (string, error) {
	if ref.ByID {
		if _, ok := b.Element(ref.ID); !ok {
			return "", errors.New(errors.ErrCodeElementNotFound, "element %q not found", ref.ID)
		}
		return ref.ID, nil
	}
	elems := b.Elements()
	i := ref.Index
	if i < 0 {
		i += len(elems)
	}
	if i < 0 || i >= len(elems) {
		return "", errors.New(errors.ErrCodeElementNotFound, "no element at index %d (board has %d)", ref.Index, len(elems))
	}
	return elems[i].ID, nil
}
