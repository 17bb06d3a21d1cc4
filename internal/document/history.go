package document

// snapshot is an immutable view of a document's state. Mutations always
// build fresh slices, so snapshots share storage with the live document safely.
type snapshot struct {
	text  []rune
	spans []Span
}

// history is a bounded undo/redo stack.
type history struct {
	depth int
	undo  []snapshot
	redo  []snapshot
}

// record pushes the state prior to a mutation and clears redo.
func (h *history) record(prev snapshot) {
	h.redo = nil
	if h.depth <= 0 {
		return
	}
	h.undo = append(h.undo, prev)
	if over := len(h.undo) - h.depth; over > 0 {
		h.undo = append(h.undo[:0:0], h.undo[over:]...)
	}
}

func (h *history) popUndo(cur snapshot) (snapshot, bool) {
	if len(h.undo) == 0 {
		return snapshot{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cur)
	return prev, true
}

func (h *history) popRedo(cur snapshot) (snapshot, bool) {
	if len(h.redo) == 0 {
		return snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cur)
	return next, true
}
