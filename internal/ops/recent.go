package ops

import (
	"context"

	"github.com/hpungsan/jot/internal/db"
)

// RecentInput contains parameters for the Recent operation.
type RecentInput struct {
	Limit int // default: 10, max: 100
}

// RecentOutput contains the result of the Recent operation.
type RecentOutput struct {
	Items []db.RecentFile `json:"items"`
}

// Recent returns the most recently touched files from the journal, skipping
// files whose last event was a delete. Without a journal it is empty.
func Recent(ctx context.Context, np *Notepad, input RecentInput) (*RecentOutput, error) {
	if np.db == nil {
		return &RecentOutput{Items: []db.RecentFile{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	items, err := db.Recent(ctx, np.db, limit)
	if err != nil {
		return nil, err
	}
	return &RecentOutput{Items: items}, nil
}
