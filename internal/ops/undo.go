package ops

import "context"

// UndoInput contains parameters for the Undo and Redo operations.
type UndoInput struct {
	SessionID string
}

// UndoOutput contains the result of the Undo and Redo operations.
type UndoOutput struct {
	Changed bool `json:"changed"`
	DocumentView
}

// Undo reverts the most recent text or style change of a session.
// Changed is false when there was nothing to undo.
func Undo(ctx context.Context, np *Notepad, input UndoInput) (*UndoOutput, error) {
	return stepHistory(np, input, true)
}

// Redo reapplies the most recently undone change of a session.
func Redo(ctx context.Context, np *Notepad, input UndoInput) (*UndoOutput, error) {
	return stepHistory(np, input, false)
}

func stepHistory(np *Notepad, input UndoInput, undo bool) (*UndoOutput, error) {
	s, err := np.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	if undo {
		changed = s.Doc.Undo()
	} else {
		changed = s.Doc.Redo()
	}
	return &UndoOutput{Changed: changed, DocumentView: *s.view()}, nil
}
