package whiteboard

// DefaultHistoryLimit bounds the number of snapshots kept by a board.
const DefaultHistoryLimit = 100

// History is a linear undo history of full store snapshots with a cursor
// pointing at the current state.
//
// When non-empty, 0 <= cursor < Len(). Pushing after an undo drops the
// snapshots beyond the cursor.
type History struct {
	snapshots [][]Element
	cursor    int
	limit     int
}

// NewHistory returns a history holding initial as its only snapshot.
// A limit <= 0 keeps every snapshot.
func NewHistory(initial []Element, limit int) *History {
	return &History{
		snapshots: [][]Element{cloneElements(initial)},
		limit:     limit,
	}
}

// Push records snap as the new current state.
func (h *History) Push(snap []Element) {
	h.snapshots = append(h.snapshots[:h.cursor+1], cloneElements(snap))
	if h.limit > 0 && len(h.snapshots) > h.limit {
		drop := len(h.snapshots) - h.limit
		h.snapshots = append([][]Element(nil), h.snapshots[drop:]...)
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back and returns the snapshot it now points at.
func (h *History) Undo() ([]Element, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return cloneElements(h.snapshots[h.cursor]), true
}

// Redo moves the cursor forward and returns the snapshot it now points at.
func (h *History) Redo() ([]Element, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return cloneElements(h.snapshots[h.cursor]), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the index of the current snapshot.
func (h *History) Cursor() int { return h.cursor }
