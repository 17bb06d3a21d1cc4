package ops

import (
	"context"

	"github.com/hpungsan/jot/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Name string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	Name    string `json:"name"`
}

// Delete removes a file from the catalog and from disk. Sessions already
// open on it stay open; saving one recreates the file.
func Delete(ctx context.Context, np *Notepad, input DeleteInput) (*DeleteOutput, error) {
	np.mu.Lock()
	e, err := np.catalog.Lookup(input.Name)
	if err == nil {
		err = np.catalog.Delete(e)
	}
	np.mu.Unlock()
	if err != nil {
		return nil, err
	}

	np.record(ctx, db.EventDeleted, e.Name, 0)
	return &DeleteOutput{
		Deleted: true,
		Name:    e.Name,
	}, nil
}
