package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
)

func openSession(t *testing.T, np *Notepad, name, content string) *DocumentView {
	t.Helper()
	if err := os.WriteFile(filepath.Join(np.Dir(), name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	v, err := Open(context.Background(), np, OpenInput{Name: name})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return v
}

func TestOpen_PendingIsEmpty(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	if _, err := Create(ctx, np, CreateInput{Name: "notes.txt"}); err != nil {
		t.Fatal(err)
	}

	v, err := Open(ctx, np, OpenInput{Name: "notes.txt"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if v.Text != "" || v.Length != 0 || len(v.Spans) != 0 {
		t.Errorf("Open(pending) = %+v, want empty document", v)
	}
	if v.SessionID == "" {
		t.Error("SessionID is empty")
	}
}

func TestOpen_Missing(t *testing.T) {
	np := newTestNotepad(t)

	_, err := Open(context.Background(), np, OpenInput{Name: "missing.txt"})
	if !errors.Is(err, errors.ErrIO) {
		t.Errorf("Open(missing) error = %v, want IO_ERROR", err)
	}
	if got := Sessions(context.Background(), np); len(got.Items) != 0 {
		t.Errorf("failed open left a session: %+v", got.Items)
	}
}

func TestOpen_TooManySessions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxSessions = 1
	np := newTestNotepadWithConfig(t, cfg)
	openSession(t, np, "a.txt", "a")

	_, err := Open(context.Background(), np, OpenInput{Name: "a.txt"})
	if !errors.Is(err, errors.ErrTooManySessions) {
		t.Errorf("second Open error = %v, want TOO_MANY_SESSIONS", err)
	}
}

func TestEdit(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "Hello world")

	tests := []struct {
		name  string
		input EditInput
		want  string
	}{
		{"insert", EditInput{Action: EditInsert, Start: 5, Text: ","}, "Hello, world"},
		{"replace", EditInput{Action: EditReplace, Start: 7, End: 12, Text: "there"}, "Hello, there"},
		{"delete", EditInput{Action: EditDelete, Start: 5, End: 6}, "Hello there"},
		{"set", EditInput{Action: EditSet, Text: "fresh"}, "fresh"},
	}
	for _, tt := range tests {
		tt.input.SessionID = v.SessionID
		got, err := Edit(ctx, np, tt.input)
		if err != nil {
			t.Fatalf("%s: Edit failed: %v", tt.name, err)
		}
		if got.Text != tt.want {
			t.Errorf("%s: Text = %q, want %q", tt.name, got.Text, tt.want)
		}
	}
}

func TestEdit_Errors(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "abc")

	_, err := Edit(ctx, np, EditInput{SessionID: v.SessionID, Action: "shout"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("unknown action error = %v, want INVALID_REQUEST", err)
	}

	_, err = Edit(ctx, np, EditInput{SessionID: v.SessionID, Action: EditDelete, Start: 2, End: 9})
	if !errors.Is(err, errors.ErrRange) {
		t.Errorf("out of range error = %v, want RANGE_ERROR", err)
	}

	_, err = Edit(ctx, np, EditInput{SessionID: v.SessionID, Action: EditInsert, Start: 0, Text: "\xff"})
	if !errors.Is(err, errors.ErrEncoding) {
		t.Errorf("invalid utf-8 error = %v, want ENCODING_ERROR", err)
	}
}

func TestStyle(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "Hello world")

	got, err := Style(ctx, np, StyleInput{SessionID: v.SessionID, Start: 0, End: 5, Style: document.StyleBold})
	if err != nil {
		t.Fatalf("Style failed: %v", err)
	}
	want := []document.Span{{Range: document.NewRange(0, 5), Style: document.StyleBold}}
	if len(got.Spans) != 1 || got.Spans[0] != want[0] {
		t.Errorf("Spans = %v, want %v", got.Spans, want)
	}

	// Idempotent
	again, err := Style(ctx, np, StyleInput{SessionID: v.SessionID, Start: 0, End: 5, Style: document.StyleBold})
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Spans) != 1 || again.Spans[0] != want[0] {
		t.Errorf("Spans after reapply = %v", again.Spans)
	}

	removed, err := Style(ctx, np, StyleInput{SessionID: v.SessionID, Start: 0, End: 5, Style: document.StyleBold, Remove: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(removed.Spans) != 0 {
		t.Errorf("Spans after remove = %v", removed.Spans)
	}
}

func TestStyle_Errors(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "abc")

	if _, err := Style(ctx, np, StyleInput{SessionID: v.SessionID, Start: 0, End: 1}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("missing style error = %v, want INVALID_REQUEST", err)
	}
	if _, err := Style(ctx, np, StyleInput{SessionID: v.SessionID, Start: 2, End: 1, Style: document.StyleItalic}); !errors.Is(err, errors.ErrRange) {
		t.Errorf("reversed range error = %v, want RANGE_ERROR", err)
	}
}

func TestUndoRedo(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "abc")

	if _, err := Edit(ctx, np, EditInput{SessionID: v.SessionID, Action: EditInsert, Start: 3, Text: "d"}); err != nil {
		t.Fatal(err)
	}

	u, err := Undo(ctx, np, UndoInput{SessionID: v.SessionID})
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !u.Changed || u.Text != "abc" || !u.CanRedo {
		t.Errorf("Undo() = %+v", u)
	}

	u, _ = Undo(ctx, np, UndoInput{SessionID: v.SessionID})
	if u.Changed {
		t.Error("Undo with empty history reported a change")
	}

	r, err := Redo(ctx, np, UndoInput{SessionID: v.SessionID})
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if !r.Changed || r.Text != "abcd" {
		t.Errorf("Redo() = %+v", r)
	}
}

func TestGet_Segments(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "Hello world")
	if _, err := Style(ctx, np, StyleInput{SessionID: v.SessionID, Start: 6, End: 11, Style: document.StyleItalic}); err != nil {
		t.Fatal(err)
	}

	got, err := Get(ctx, np, GetInput{SessionID: v.SessionID, Segments: true})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Segments) != 2 || got.Segments[0].Text != "Hello " || got.Segments[1].Style != document.StyleItalic {
		t.Errorf("Segments = %+v", got.Segments)
	}

	plain, _ := Get(ctx, np, GetInput{SessionID: v.SessionID})
	if plain.Segments != nil {
		t.Errorf("Segments = %v without request", plain.Segments)
	}
}

func TestSave_FailureKeepsBuffer(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "old")
	if _, err := Edit(ctx, np, EditInput{SessionID: v.SessionID, Action: EditSet, Text: "new"}); err != nil {
		t.Fatal(err)
	}

	// Replace the file with a directory so the rename cannot succeed.
	path := filepath.Join(np.Dir(), "a.txt")
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0700); err != nil {
		t.Fatal(err)
	}

	_, err := Save(ctx, np, SaveInput{SessionID: v.SessionID})
	if !errors.Is(err, errors.ErrIO) {
		t.Fatalf("Save error = %v, want IO_ERROR", err)
	}
	got, _ := Get(ctx, np, GetInput{SessionID: v.SessionID})
	if got.Text != "new" || got.SavedAt != 0 {
		t.Errorf("after failed save: %+v", got)
	}
}

func TestSave_LongestAcceptedName(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	name := strings.Repeat("a", 250) + ".txt"

	if _, err := Create(ctx, np, CreateInput{Name: name}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	v, err := Open(ctx, np, OpenInput{Name: name})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := Edit(ctx, np, EditInput{SessionID: v.SessionID, Action: EditSet, Text: "kept"}); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(ctx, np, SaveInput{SessionID: v.SessionID}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	list, err := List(ctx, np, ListInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 1 || list.Items[0].Name != name || list.Items[0].Pending {
		t.Errorf("list after save = %+v", list.Items)
	}
}

func TestClose(t *testing.T) {
	np := newTestNotepad(t)
	ctx := context.Background()
	v := openSession(t, np, "a.txt", "abc")

	out, err := Close(ctx, np, CloseInput{SessionID: v.SessionID})
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !out.Closed {
		t.Error("Closed = false")
	}

	if _, err := Close(ctx, np, CloseInput{SessionID: v.SessionID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Close error = %v, want NOT_FOUND", err)
	}
}

func TestSessions_Order(t *testing.T) {
	np := newTestNotepad(t)
	first := openSession(t, np, "a.txt", "a")
	second := openSession(t, np, "b.txt", "bb")

	got := Sessions(context.Background(), np)
	if len(got.Items) != 2 {
		t.Fatalf("Sessions() = %+v", got.Items)
	}
	if got.Items[0].SessionID != first.SessionID || got.Items[1].SessionID != second.SessionID {
		t.Errorf("Sessions() order = %+v", got.Items)
	}
	if got.Items[1].Length != 2 {
		t.Errorf("Length = %d, want 2", got.Items[1].Length)
	}
}
