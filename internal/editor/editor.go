// Package editor loads documents from disk and writes them back.
package editor

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
)

// Editor opens and saves documents with limits taken from config.
type Editor struct {
	maxBytes     int64
	historyDepth int
}

// New returns an Editor. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config) *Editor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Editor{
		maxBytes:     cfg.MaxDocumentBytes,
		historyDepth: cfg.HistoryDepth,
	}
}

// Open reads the file at path into a new unstyled document.
//
// Errors: IO_ERROR if the file is missing, unreadable or a symlink,
// FILE_TOO_LARGE above the configured cap, ENCODING_ERROR if the content
// is not valid UTF-8.
func (e *Editor) Open(path string) (*document.Document, error) {
	f, err := openNoFollow(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewIO("open", path, fmt.Errorf("not a regular file"))
	}
	if e.maxBytes > 0 && info.Size() > e.maxBytes {
		return nil, errors.NewFileTooLarge(path, e.maxBytes, info.Size())
	}

	// The file may grow between Stat and Read; read one byte past the cap.
	var r io.Reader = f
	if e.maxBytes > 0 {
		r = io.LimitReader(f, e.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return nil, errors.NewFileTooLarge(path, e.maxBytes, int64(len(data)))
	}

	if i := document.InvalidUTF8(data); i >= 0 {
		return nil, errors.NewEncoding(path, i)
	}
	return document.New(path, string(data), e.historyDepth), nil
}

// NewDocument returns an empty document bound to path without touching disk.
func (e *Editor) NewDocument(path string) *document.Document {
	return document.New(path, "", e.historyDepth)
}

// Save writes the document's text to its path, replacing the file
// atomically. Styles are not written. On failure the existing file and the
// document are left as they were.
func (e *Editor) Save(doc *document.Document) error {
	path := doc.Path()
	data := []byte(doc.Text())
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return errors.NewFileTooLarge(path, e.maxBytes, int64(len(data)))
	}

	perm := os.FileMode(0600)
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewIO("save", path, fmt.Errorf("%w: %s", errors.ErrSymlinkRefused, path))
		}
		if !info.Mode().IsRegular() {
			return errors.NewIO("save", path, fmt.Errorf("not a regular file"))
		}
		perm = info.Mode().Perm()
	}

	// Temp file is a dot-file in the same directory so the rename stays on one
	// file system and the catalog never lists it.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	// The name is fixed-length so a name at the file system limit still saves.
	tempPath := filepath.Join(filepath.Dir(path), ".jot-"+hex.EncodeToString(randBytes)+".tmp")

	file, err := openNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return errors.NewIO("save", path, err)
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewIO("write", path, err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewIO("sync", path, err)
	}
	if err := file.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	file = nil

	// Re-check: os.Rename replaces a symlink itself, but refuse one that
	// appeared since the first check.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewIO("save", path, fmt.Errorf("%w: %s", errors.ErrSymlinkRefused, path))
	}
	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewIO("rename", path, err)
	}

	success = true
	return nil
}

// ApplyStyle adds style over r in doc. See document.Document.ApplyStyle.
func (e *Editor) ApplyStyle(doc *document.Document, r document.Range, style document.Style) error {
	return doc.ApplyStyle(r, style)
}
