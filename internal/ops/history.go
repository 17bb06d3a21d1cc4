package ops

import (
	"context"

	"github.com/hpungsan/jot/internal/db"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Name  string
	Limit int // default: 20, max: 200
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Name  string     `json:"name"`
	Items []db.Event `json:"items"`
}

// History returns the journal events for one file, newest first.
func History(ctx context.Context, np *Notepad, input HistoryInput) (*HistoryOutput, error) {
	np.mu.Lock()
	e, err := np.catalog.Lookup(input.Name)
	np.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if np.db == nil {
		return &HistoryOutput{Name: e.Name, Items: []db.Event{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	items, err := db.History(ctx, np.db, e.Name, limit)
	if err != nil {
		return nil, err
	}
	return &HistoryOutput{Name: e.Name, Items: items}, nil
}
