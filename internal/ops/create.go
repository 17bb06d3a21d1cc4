package ops

import (
	"context"

	"github.com/hpungsan/jot/internal/db"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Name string
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Pending bool   `json:"pending"`
}

// Create adds an entry to the catalog. No file is written until the
// entry's first save; creating an existing name returns that entry.
func Create(ctx context.Context, np *Notepad, input CreateInput) (*CreateOutput, error) {
	np.mu.Lock()
	e, err := np.catalog.Create(input.Name)
	if err != nil {
		np.mu.Unlock()
		return nil, err
	}
	pending := np.catalog.IsPending(e)
	np.mu.Unlock()

	if pending {
		np.record(ctx, db.EventCreated, e.Name, 0)
	}
	return &CreateOutput{
		Name:    e.Name,
		Path:    e.Path,
		Pending: pending,
	}, nil
}
