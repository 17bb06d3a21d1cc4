package ops

import (
	"context"
	"time"

	"github.com/hpungsan/jot/internal/db"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	SessionID string
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Bytes     int64  `json:"bytes"`
	SavedAt   int64  `json:"saved_at"`
}

// Save writes a session's text (never its styles) over its file. The write
// is atomic: on failure the previous file content is untouched and the
// session keeps its unsaved text.
func Save(ctx context.Context, np *Notepad, input SaveInput) (*SaveOutput, error) {
	s, err := np.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := np.editor.Save(s.Doc); err != nil {
		s.mu.Unlock()
		np.log.Error("save failed", "name", s.Entry.Name, "error", err)
		return nil, err
	}
	s.SavedAt = time.Now().Unix()
	out := &SaveOutput{
		SessionID: s.ID,
		Name:      s.Entry.Name,
		Path:      s.Entry.Path,
		Bytes:     int64(len(s.Doc.Text())),
		SavedAt:   s.SavedAt,
	}
	s.mu.Unlock()

	np.record(ctx, db.EventSaved, out.Name, out.Bytes)
	return out, nil
}
