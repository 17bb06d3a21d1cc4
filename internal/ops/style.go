package ops

import (
	"context"

	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
)

// StyleInput contains parameters for the Style operation.
type StyleInput struct {
	SessionID string
	Start     int
	End       int
	Style     document.Style
	Remove    bool // clear Style instead of adding it
}

// Style adds (or with Remove, clears) style flags over [Start, End).
// Adding is additive and idempotent; an empty range changes nothing.
func Style(ctx context.Context, np *Notepad, input StyleInput) (*DocumentView, error) {
	if input.Style == document.StyleNone {
		return nil, errors.NewInvalidRequest("style is required (bold, italic, underline)")
	}
	s, err := np.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := document.NewRange(input.Start, input.End)
	if input.Remove {
		err = s.Doc.RemoveStyle(r, input.Style)
	} else {
		err = np.editor.ApplyStyle(s.Doc, r, input.Style)
	}
	if err != nil {
		return nil, err
	}
	return s.view(), nil
}
