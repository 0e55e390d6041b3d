package document

// MaxHistory is the number of undo snapshots kept
const MaxHistory = 20

// History is a bounded undo/redo stack of full document snapshots
type History struct {
	undo []Document
	redo []Document
}

// Push records the state before a mutation and clears the redo stack
func (h *History) Push(d Document) {
	h.undo = pushBounded(h.undo, d.Clone())
	h.redo = nil
}

// Undo returns the previous state, saving current for Redo
func (h *History) Undo(current Document) (Document, bool) {
	if len(h.undo) == 0 {
		return Document{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = pushBounded(h.redo, current.Clone())
	return prev, true
}

// Redo returns the state undone last, saving current for Undo
func (h *History) Redo(current Document) (Document, bool) {
	if len(h.redo) == 0 {
		return Document{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = pushBounded(h.undo, current.Clone())
	return next, true
}

// CanUndo reports whether Undo has a snapshot
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo has a snapshot
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo and redo depths
func (h *History) Len() (int, int) {
	return len(h.undo), len(h.redo)
}

// Clear drops all snapshots
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func pushBounded(stack []Document, d Document) []Document {
	stack = append(stack, d)
	if len(stack) > MaxHistory {
		stack = append(stack[:0:0], stack[len(stack)-MaxHistory:]...)
	}
	return stack
}
