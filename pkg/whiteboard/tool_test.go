package whiteboard

import (
	"testing"

	"github.com/visualnotes/visualnotes/pkg/errors"
)

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(string(tool))
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %q, %v", tool, got, err)
		}
	}

	_, err := ParseTool("lasso")
	if !errors.Is(err, errors.ErrCodeInvalidTool) {
		t.Errorf("ParseTool(lasso) error = %v, want %s", err, errors.ErrCodeInvalidTool)
	}
}

func TestToolsOrder(t *testing.T) {
	got := Tools()
	if len(got) != 8 || got[0] != ToolSelect || got[7] != ToolCard {
		t.Errorf("Tools() = %v", got)
	}
	got[0] = "mutated"
	if Tools()[0] != ToolSelect {
		t.Error("Tools() exposes internal slice")
	}
}

func TestToolCursor(t *testing.T) {
	if ToolSelect.Cursor() != "grab" {
		t.Errorf("select cursor = %q, want grab", ToolSelect.Cursor())
	}
	if ToolPen.Cursor() != "crosshair" {
		t.Errorf("pen cursor = %q, want crosshair", ToolPen.Cursor())
	}
}

func TestToolShortcuts(t *testing.T) {
	seen := map[rune]Tool{}
	for _, tool := range Tools() {
		r := tool.Shortcut()
		if r == 0 {
			t.Errorf("%s has no shortcut", tool)
		}
		if prev, dup := seen[r]; dup {
			t.Errorf("shortcut %q used by %s and %s", r, prev, tool)
		}
		seen[r] = tool
		if back, ok := ToolForShortcut(r); !ok || back != tool {
			t.Errorf("ToolForShortcut(%q) = %s, %v", r, back, ok)
		}
	}
	if _, ok := ToolForShortcut('z'); ok {
		t.Error("ToolForShortcut('z') should not match")
	}
}
