package ops

import (
	"context"
	"slices"
	"strings"
)

// SessionSummary describes one open session.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Length    int    `json:"length"`
	OpenedAt  int64  `json:"opened_at"`
	SavedAt   int64  `json:"saved_at,omitempty"`
}

// SessionsOutput contains the result of the Sessions operation.
type SessionsOutput struct {
	Items []SessionSummary `json:"items"`
}

// Sessions lists open sessions, oldest first.
func Sessions(ctx context.Context, np *Notepad) *SessionsOutput {
	np.mu.Lock()
	open := make([]*Session, 0, len(np.sessions))
	for _, s := range np.sessions {
		open = append(open, s)
	}
	np.mu.Unlock()

	// ULIDs sort by creation time.
	slices.SortFunc(open, func(a, b *Session) int { return strings.Compare(a.ID, b.ID) })

	items := make([]SessionSummary, 0, len(open))
	for _, s := range open {
		s.mu.Lock()
		items = append(items, SessionSummary{
			SessionID: s.ID,
			Name:      s.Entry.Name,
			Length:    s.Doc.Len(),
			OpenedAt:  s.OpenedAt,
			SavedAt:   s.SavedAt,
		})
		s.mu.Unlock()
	}
	return &SessionsOutput{Items: items}
}
