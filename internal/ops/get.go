package ops

import (
	"context"

	"github.com/hpungsan/jot/internal/document"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	SessionID string
	Segments  bool // include styled runs
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	DocumentView
	Segments []document.Segment `json:"segments,omitempty"`
}

// Get returns the current text and styles of an open session.
func Get(ctx context.Context, np *Notepad, input GetInput) (*GetOutput, error) {
	s, err := np.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := &GetOutput{DocumentView: *s.view()}
	if input.Segments {
		out.Segments = s.Doc.Segments()
	}
	return out, nil
}
