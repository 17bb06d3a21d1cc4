package ops

import (
	"context"
	"time"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
)

// OpenInput contains parameters for the Open operation.
type OpenInput struct {
	Name string
}

// Open loads a catalog entry into a new session. A created entry that has
// not been saved yet opens as an empty document.
func Open(ctx context.Context, np *Notepad, input OpenInput) (*DocumentView, error) {
	np.mu.Lock()
	if limit := np.cfg.MaxSessions; limit > 0 && len(np.sessions) >= limit {
		np.mu.Unlock()
		return nil, errors.NewTooManySessions(limit)
	}
	e, err := np.catalog.Lookup(input.Name)
	if err != nil {
		np.mu.Unlock()
		return nil, err
	}
	pending := np.catalog.IsPending(e)
	np.mu.Unlock()

	var doc *document.Document
	if pending {
		doc = np.editor.NewDocument(e.Path)
	} else {
		doc, err = np.editor.Open(e.Path)
		if err != nil {
			np.log.Warn("open failed", "name", e.Name, "error", err)
			return nil, err
		}
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	s := &Session{
		ID:       id,
		Entry:    e,
		OpenedAt: time.Now().Unix(),
		Doc:      doc,
	}

	np.mu.Lock()
	if limit := np.cfg.MaxSessions; limit > 0 && len(np.sessions) >= limit {
		np.mu.Unlock()
		return nil, errors.NewTooManySessions(limit)
	}
	np.sessions[id] = s
	np.mu.Unlock()

	np.log.Debug("session opened", "session", id, "name", e.Name, "chars", doc.Len())
	np.record(ctx, db.EventOpened, e.Name, int64(len(doc.Text())))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}
