// Package ops implements the notepad operations shared by every front end.
// Each operation takes an XxxInput and returns an XxxOutput ready to encode
// as JSON.
package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/jot/internal/catalog"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/editor"
	"github.com/hpungsan/jot/internal/errors"
)

// Limits for journal queries.
const (
	DefaultRecentLimit  = 10
	MaxRecentLimit      = 100
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Notepad ties the catalog, the editor, the journal and the open sessions
// together. It is safe for concurrent use by front-end handlers.
type Notepad struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	editor  *editor.Editor
	db      *sql.DB // nil disables the journal
	log     *slog.Logger

	mu       sync.Mutex // guards catalog and sessions
	sessions map[string]*Session
}

// Session is one open document bound to one catalog entry.
type Session struct {
	ID       string
	Entry    catalog.Entry
	OpenedAt int64
	SavedAt  int64 // 0 until the first save

	mu  sync.Mutex // guards Doc and SavedAt
	Doc *document.Document
}

// DocumentView is the state of a session returned by document operations.
type DocumentView struct {
	SessionID string          `json:"session_id"`
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Text      string          `json:"text"`
	Length    int             `json:"length"`
	Spans     []document.Span `json:"spans"`
	CanUndo   bool            `json:"can_undo"`
	CanRedo   bool            `json:"can_redo"`
	OpenedAt  int64           `json:"opened_at"`
	SavedAt   int64           `json:"saved_at,omitempty"`
}

// New opens the catalog at documentsDir and returns a Notepad. database may
// be nil, in which case nothing is journaled; logger may be nil.
func New(cfg *config.Config, documentsDir string, database *sql.DB, logger *slog.Logger) (*Notepad, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cat, err := catalog.Open(documentsDir)
	if err != nil {
		return nil, err
	}
	return &Notepad{
		cfg:      cfg,
		catalog:  cat,
		editor:   editor.New(cfg),
		db:       database,
		log:      logger,
		sessions: make(map[string]*Session),
	}, nil
}

// Dir returns the documents directory.
func (np *Notepad) Dir() string {
	return np.catalog.Dir()
}

// session returns the open session with the given id, or NOT_FOUND.
func (np *Notepad) session(id string) (*Session, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("session_id is required")
	}
	np.mu.Lock()
	defer np.mu.Unlock()
	s, ok := np.sessions[id]
	if !ok {
		return nil, errors.NewNotFound(id)
	}
	return s, nil
}

// record appends an event to the journal. Failures are logged, never returned.
func (np *Notepad) record(ctx context.Context, kind db.EventKind, name string, bytes int64) {
	if np.db == nil {
		return
	}
	id, err := generateULID()
	if err != nil {
		np.log.Warn("journal id generation failed", "error", err)
		return
	}
	e := &db.Event{
		ID:        id,
		Kind:      kind,
		Name:      name,
		Bytes:     bytes,
		CreatedAt: time.Now().Unix(),
	}
	if err := db.Record(ctx, np.db, e); err != nil {
		np.log.Warn("journal write failed", "kind", kind, "name", name, "error", err)
	}
}

// view snapshots s. Callers hold s.mu.
func (s *Session) view() *DocumentView {
	spans := s.Doc.Spans()
	if spans == nil {
		spans = []document.Span{}
	}
	return &DocumentView{
		SessionID: s.ID,
		Name:      s.Entry.Name,
		Path:      s.Entry.Path,
		Text:      s.Doc.Text(),
		Length:    s.Doc.Len(),
		Spans:     spans,
		CanUndo:   s.Doc.CanUndo(),
		CanRedo:   s.Doc.CanRedo(),
		OpenedAt:  s.OpenedAt,
		SavedAt:   s.SavedAt,
	}
}

// ulidEntropy is shared so IDs generated in the same millisecond still sort
// in creation order.
var ulidEntropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulidEntropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
