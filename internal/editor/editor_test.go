package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
)

func newTestEditor() *Editor {
	return New(config.DefaultConfig())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("héllo\nworld"), 0600); err != nil {
		t.Fatal(err)
	}

	doc, err := newTestEditor().Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.Text() != "héllo\nworld" {
		t.Errorf("Text() = %q", doc.Text())
	}
	if doc.Len() != 11 {
		t.Errorf("Len() = %d, want 11 characters", doc.Len())
	}
	if doc.Path() != path {
		t.Errorf("Path() = %q, want %q", doc.Path(), path)
	}
	if len(doc.Spans()) != 0 {
		t.Errorf("Spans() = %v, want none", doc.Spans())
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := newTestEditor().Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, errors.ErrIO) {
		t.Fatalf("Open(missing) error = %v, want IO_ERROR", err)
	}
	if errors.As(err).Status != 404 {
		t.Errorf("Status = %d, want 404", errors.As(err).Status)
	}
}

func TestOpen_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.txt")
	if err := os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe}, 0600); err != nil {
		t.Fatal(err)
	}

	doc, err := newTestEditor().Open(path)
	if !errors.Is(err, errors.ErrEncoding) {
		t.Fatalf("Open error = %v, want ENCODING_ERROR", err)
	}
	if doc != nil {
		t.Error("Open returned a document alongside an error")
	}
	if errors.As(err).Details["offset"] != 2 {
		t.Errorf("Details[offset] = %v, want 2", errors.As(err).Details["offset"])
	}
}

func TestOpen_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 11)), 0600); err != nil {
		t.Fatal(err)
	}
	ed := New(&config.Config{MaxDocumentBytes: 10})

	_, err := ed.Open(path)
	if !errors.Is(err, errors.ErrFileTooLarge) {
		t.Fatalf("Open error = %v, want FILE_TOO_LARGE", err)
	}
}

func TestOpen_Directory(t *testing.T) {
	_, err := newTestEditor().Open(t.TempDir())
	if !errors.Is(err, errors.ErrIO) {
		t.Fatalf("Open(dir) error = %v, want IO_ERROR", err)
	}
}

func TestOpen_RefusesSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(target, []byte("secret"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	_, err := newTestEditor().Open(link)
	if !errors.Is(err, errors.ErrIO) {
		t.Fatalf("Open(symlink) error = %v, want IO_ERROR", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	ed := newTestEditor()
	path := filepath.Join(t.TempDir(), "notes.txt")
	doc := ed.NewDocument(path)
	if doc.Text() != "" {
		t.Fatalf("NewDocument Text() = %q, want empty", doc.Text())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("NewDocument touched disk")
	}

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"plain", "line one\nline two ✓"},
		{"trailing newline", "last line\n"},
		{"leading newline", "\nafter blank"},
		{"crlf", "one\r\ntwo\r\n"},
		{"lone cr", "a\rb"},
		{"bom", "\uFEFFwith bom"},
		{"four byte runes", "\U0001F600 \U0001D11E \U00010348"},
		{"nul and tabs", "a\x00b\tc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := doc.SetText(tt.text); err != nil {
				t.Fatal(err)
			}
			if err := ed.Save(doc); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(raw) != tt.text {
				t.Errorf("file bytes = %q, want %q", raw, tt.text)
			}
			reopened, err := ed.Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if reopened.Text() != tt.text {
				t.Errorf("round trip = %q, want %q", reopened.Text(), tt.text)
			}
		})
	}
}

func TestSave_LongestName(t *testing.T) {
	ed := newTestEditor()
	dir := t.TempDir()
	name := strings.Repeat("a", 251) + ".txt"
	if len(name) != 255 {
		t.Fatalf("name is %d bytes, want 255", len(name))
	}
	path := filepath.Join(dir, name)

	doc := ed.NewDocument(path)
	if err := doc.SetText("long name"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Save(doc); err != nil {
		t.Fatalf("Save(255-byte name) failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "long name" {
		t.Errorf("file content = %q, want %q", raw, "long name")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the saved file", len(entries))
	}
}

func TestSave_StylesNotPersisted(t *testing.T) {
	ed := newTestEditor()
	path := filepath.Join(t.TempDir(), "hello.txt")
	doc := ed.NewDocument(path)
	if err := doc.SetText("Hello world"); err != nil {
		t.Fatal(err)
	}

	if err := ed.ApplyStyle(doc, document.NewRange(0, 5), document.StyleBold); err != nil {
		t.Fatalf("ApplyStyle failed: %v", err)
	}
	if err := ed.Save(doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "Hello world" {
		t.Errorf("file content = %q, want %q", raw, "Hello world")
	}

	reopened, err := ed.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Text() != "Hello world" || len(reopened.Spans()) != 0 {
		t.Errorf("reopened = %q with spans %v", reopened.Text(), reopened.Spans())
	}
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	ed := newTestEditor()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("old content that is longer"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ed.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.SetText("new"); err != nil {
		t.Fatal(err)
	}
	if err := ed.Save(doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != "new" {
		t.Errorf("file content = %q, want %q", raw, "new")
	}
	if runtime.GOOS != "windows" {
		info, _ := os.Stat(path)
		if info.Mode().Perm() != 0644 {
			t.Errorf("mode = %v, want existing 0644 kept", info.Mode().Perm())
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only a.txt", len(entries))
	}
}

func TestSave_FailureKeepsOldFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	ed := newTestEditor()
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(target, []byte("original"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	doc := ed.NewDocument(link)
	if err := doc.SetText("overwritten"); err != nil {
		t.Fatal(err)
	}
	err := ed.Save(doc)
	if !errors.Is(err, errors.ErrIO) {
		t.Fatalf("Save error = %v, want IO_ERROR", err)
	}

	raw, _ := os.ReadFile(target)
	if string(raw) != "original" {
		t.Errorf("target content = %q, want unchanged", raw)
	}
	if doc.Text() != "overwritten" {
		t.Errorf("buffer changed after failed save: %q", doc.Text())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("directory has %d entries, want target and link only", len(entries))
	}
}

func TestSave_MissingDirectory(t *testing.T) {
	ed := newTestEditor()
	doc := ed.NewDocument(filepath.Join(t.TempDir(), "gone", "a.txt"))

	if err := ed.Save(doc); !errors.Is(err, errors.ErrIO) {
		t.Fatalf("Save error = %v, want IO_ERROR", err)
	}
}

func TestApplyStyle_RangeError(t *testing.T) {
	ed := newTestEditor()
	doc := ed.NewDocument("x.txt")
	if err := doc.SetText("abc"); err != nil {
		t.Fatal(err)
	}

	err := ed.ApplyStyle(doc, document.NewRange(1, 4), document.StyleItalic)
	if !errors.Is(err, errors.ErrRange) {
		t.Fatalf("ApplyStyle error = %v, want RANGE_ERROR", err)
	}
	if len(doc.Spans()) != 0 {
		t.Errorf("Spans() = %v after failed apply", doc.Spans())
	}
}
