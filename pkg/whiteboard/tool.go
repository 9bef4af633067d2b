package whiteboard

import (
	"github.com/visualnotes/visualnotes/pkg/errors"
)

// Tool is the active interaction mode. It decides how pointer gestures are
// interpreted.
type Tool string

// Tools, in toolbar order.
const (
	ToolSelect    Tool = "select"
	ToolPen       Tool = "pen"
	ToolText      Tool = "text"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolArrow     Tool = "arrow"
	ToolSticky    Tool = "sticky"
	ToolCard      Tool = "card"
)

var toolOrder = []Tool{
	ToolSelect, ToolPen, ToolText, ToolRectangle,
	ToolCircle, ToolArrow, ToolSticky, ToolCard,
}

// Tools returns every tool in toolbar order.
func Tools() []Tool {
	return append([]Tool(nil), toolOrder...)
}

// ParseTool returns the tool named s.
func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeInvalidTool, "unknown tool %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	for _, known := range toolOrder {
		if t == known {
			return true
		}
	}
	return false
}

func (t Tool) String() string { return string(t) }

// Cursor returns the pointer cursor name shown while t is active.
func (t Tool) Cursor() string {
	if t == ToolSelect {
		return "grab"
	}
	return "crosshair"
}

// Shortcut returns the single-key shortcut for t, used by the terminal board.
func (t Tool) Shortcut() rune {
	switch t {
	case ToolSelect:
		return 'v'
	case ToolPen:
		return 'p'
	case ToolText:
		return 't'
	case ToolRectangle:
		return 'r'
	case ToolCircle:
		return 'o'
	case ToolArrow:
		return 'a'
	case ToolSticky:
		return 's'
	case ToolCard:
		return 'c'
	}
	return 0
}

// ToolForShortcut is the inverse of Tool.Shortcut.
func ToolForShortcut(r rune) (Tool, bool) {
	for _, t := range toolOrder {
		if t.Shortcut() == r {
			return t, true
		}
	}
	return "", false
}
