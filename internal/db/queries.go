package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/jot/internal/errors"
)

// EventKind names what happened to a file.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventOpened  EventKind = "opened"
	EventSaved   EventKind = "saved"
	EventDeleted EventKind = "deleted"
)

// Event is one journal row. IDs are ULIDs, so ordering by ID is ordering by
// time even within the same second.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Name      string    `json:"name"`
	Bytes     int64     `json:"bytes"`
	CreatedAt int64     `json:"created_at"`
}

// RecentFile is a file's most recent journal event.
type RecentFile struct {
	Name     string    `json:"name"`
	LastKind EventKind `json:"last_kind"`
	LastAt   int64     `json:"last_at"`
	Bytes    int64     `json:"bytes"`
}

// Record appends an event to the journal.
func Record(ctx context.Context, db *sql.DB, e *Event) error {
	query := `
		INSERT INTO events (id, kind, name, bytes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, e.ID, string(e.Kind), e.Name, e.Bytes, e.CreatedAt); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Recent returns up to limit distinct files, most recently touched first.
// Files whose latest event is a delete are omitted.
func Recent(ctx context.Context, db *sql.DB, limit int) ([]RecentFile, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT name, kind, created_at, bytes
		FROM events
		WHERE id IN (SELECT MAX(id) FROM events GROUP BY name)
		  AND kind != ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, string(EventDeleted), limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	files := []RecentFile{}
	for rows.Next() {
		var (
			f    RecentFile
			kind string
		)
		if err := rows.Scan(&f.Name, &kind, &f.LastAt, &f.Bytes); err != nil {
			return nil, errors.NewInternal(err)
		}
		f.LastKind = EventKind(kind)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return files, nil
}

// LastSaved returns the unix time of the latest save for each of names that
// has one. Names never saved are absent from the map.
func LastSaved(ctx context.Context, db *sql.DB, names []string) (map[string]int64, error) {
	result := make(map[string]int64, len(names))
	if len(names) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	query := `
		SELECT name, MAX(created_at)
		FROM events
		WHERE kind = ? AND name IN (` + placeholders + `)
		GROUP BY name
	`
	args := make([]any, 0, len(names)+1)
	args = append(args, string(EventSaved))
	for _, n := range names {
		args = append(args, n)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			at   int64
		)
		if err := rows.Scan(&name, &at); err != nil {
			return nil, errors.NewInternal(err)
		}
		result[name] = at
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return result, nil
}

// History returns up to limit events for one file, newest first.
func History(ctx context.Context, db *sql.DB, name string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, kind, name, bytes, created_at
		FROM events
		WHERE name = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (*Event, error) {
	var (
		e    Event
		kind string
	)
	if err := rows.Scan(&e.ID, &kind, &e.Name, &e.Bytes, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Kind = EventKind(kind)
	return &e, nil
}
