package ops

import (
	"context"
	"os"

	"github.com/hpungsan/jot/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct{}

// FileSummary describes one catalog entry.
type FileSummary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Pending     bool   `json:"pending,omitempty"`
	ModifiedAt  int64  `json:"modified_at,omitempty"`
	LastSavedAt int64  `json:"last_saved_at,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Dir   string        `json:"dir"`
	Items []FileSummary `json:"items"`
	Count int           `json:"count"`
}

// List returns the catalog sorted by name.
func List(ctx context.Context, np *Notepad, input ListInput) (*ListOutput, error) {
	np.mu.Lock()
	entries, err := np.catalog.List()
	if err != nil {
		np.mu.Unlock()
		np.log.Error("list failed", "dir", np.catalog.Dir(), "error", err)
		return nil, err
	}
	items := make([]FileSummary, 0, len(entries))
	for _, e := range entries {
		item := FileSummary{Name: e.Name, Path: e.Path, Pending: np.catalog.IsPending(e)}
		if info, err := os.Lstat(e.Path); err == nil {
			item.Size = info.Size()
			item.ModifiedAt = info.ModTime().Unix()
		}
		items = append(items, item)
	}
	np.mu.Unlock()

	if np.db != nil && len(items) > 0 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name
		}
		saved, err := db.LastSaved(ctx, np.db, names)
		if err != nil {
			np.log.Warn("journal read failed", "error", err)
		}
		for i := range items {
			items[i].LastSavedAt = saved[items[i].Name]
		}
	}

	return &ListOutput{
		Dir:   np.catalog.Dir(),
		Items: items,
		Count: len(items),
	}, nil
}
