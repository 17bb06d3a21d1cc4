package ops

import (
	"context"
	"time"

	"github.com/hpungsan/jot/internal/db"
)

// ReadInput contains parameters for the Read operation.
type ReadInput struct {
	Name string
}

// ReadOutput contains the result of the Read operation.
type ReadOutput struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Text  string `json:"text"`
	Bytes int64  `json:"bytes"`
}

// Read returns a file's text without opening a session.
func Read(ctx context.Context, np *Notepad, input ReadInput) (*ReadOutput, error) {
	np.mu.Lock()
	e, err := np.catalog.Lookup(input.Name)
	pending := err == nil && np.catalog.IsPending(e)
	np.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if pending {
		return &ReadOutput{Name: e.Name, Path: e.Path}, nil
	}

	doc, err := np.editor.Open(e.Path)
	if err != nil {
		np.log.Warn("read failed", "name", e.Name, "error", err)
		return nil, err
	}
	return &ReadOutput{
		Name:  e.Name,
		Path:  e.Path,
		Text:  doc.Text(),
		Bytes: int64(len(doc.Text())),
	}, nil
}

// WriteInput contains parameters for the Write operation.
type WriteInput struct {
	Name string
	Text string
}

// WriteOutput contains the result of the Write operation.
type WriteOutput struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Bytes   int64  `json:"bytes"`
	SavedAt int64  `json:"saved_at"`
}

// Write replaces a file's content with Text, creating the entry if needed.
func Write(ctx context.Context, np *Notepad, input WriteInput) (*WriteOutput, error) {
	np.mu.Lock()
	e, err := np.catalog.Create(input.Name)
	np.mu.Unlock()
	if err != nil {
		return nil, err
	}

	doc := np.editor.NewDocument(e.Path)
	if err := doc.SetText(input.Text); err != nil {
		return nil, err
	}
	if err := np.editor.Save(doc); err != nil {
		np.log.Error("write failed", "name", e.Name, "error", err)
		return nil, err
	}

	out := &WriteOutput{
		Name:    e.Name,
		Path:    e.Path,
		Bytes:   int64(len(input.Text)),
		SavedAt: time.Now().Unix(),
	}
	np.record(ctx, db.EventSaved, e.Name, out.Bytes)
	return out, nil
}
