package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/ops"
)

// setupTestNotepad creates a notepad over a temp directory with a journal.
func setupTestNotepad(t *testing.T) *ops.Notepad {
	t.Helper()
	base := t.TempDir()
	database, err := db.Init(base)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	np, err := ops.New(config.DefaultConfig(), filepath.Join(base, "documents"), database, nil)
	if err != nil {
		t.Fatalf("failed to create notepad: %v", err)
	}
	return np
}

// runCLI runs args against a fresh app and returns what it wrote.
// stdin, if non-nil, is piped to the command.
func runCLI(t *testing.T, np *ops.Notepad, stdin *string, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(np, config.DefaultConfig(), nil)
	var out bytes.Buffer
	app.Writer = &out

	if stdin != nil {
		oldStdin := os.Stdin
		stdinR, stdinW, err := os.Pipe()
		if err != nil {
			t.Fatalf("pipe: %v", err)
		}
		os.Stdin = stdinR
		defer func() { os.Stdin = oldStdin }()
		go func() {
			_, _ = stdinW.WriteString(*stdin)
			stdinW.Close()
		}()
	}

	err := app.Run(append([]string{"jot"}, args...))
	return out.String(), err
}

func TestCLICreateAndList(t *testing.T) {
	np := setupTestNotepad(t)

	out, err := runCLI(t, np, nil, "create", "todo.txt")
	if err != nil {
		t.Fatalf("create command failed: %v", err)
	}
	var created ops.CreateOutput
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if created.Name != "todo.txt" || !created.Pending {
		t.Errorf("create output = %+v", created)
	}

	// A pending entry lives only in memory; list through the same notepad.
	out, err = runCLI(t, np, nil, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var listed ops.ListOutput
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if listed.Count != 1 || listed.Items[0].Name != "todo.txt" {
		t.Errorf("list output = %+v", listed)
	}
}

func TestCLIWriteAndCat(t *testing.T) {
	np := setupTestNotepad(t)
	text := "first line\nsecond line\n"

	out, err := runCLI(t, np, &text, "write", "notes.txt")
	if err != nil {
		t.Fatalf("write command failed: %v", err)
	}
	var written ops.WriteOutput
	if err := json.Unmarshal([]byte(out), &written); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if written.Bytes != int64(len(text)) {
		t.Errorf("bytes = %d, want %d", written.Bytes, len(text))
	}

	out, err = runCLI(t, np, nil, "cat", "notes.txt")
	if err != nil {
		t.Fatalf("cat command failed: %v", err)
	}
	if out != text {
		t.Errorf("cat output = %q, want %q (trailing newline kept)", out, text)
	}

	out, err = runCLI(t, np, nil, "cat", "--json", "notes.txt")
	if err != nil {
		t.Fatalf("cat --json failed: %v", err)
	}
	if !strings.Contains(out, `"name": "notes.txt"`) {
		t.Errorf("cat --json output = %s", out)
	}
}

func TestCLIDelete(t *testing.T) {
	np := setupTestNotepad(t)
	if _, err := ops.Write(context.Background(), np, ops.WriteInput{Name: "old.txt", Text: "x"}); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, np, nil, "delete", "old.txt")
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	var deleted ops.DeleteOutput
	if err := json.Unmarshal([]byte(out), &deleted); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if !deleted.Deleted {
		t.Error("expected deleted=true")
	}
	if _, err := os.Stat(filepath.Join(np.Dir(), "old.txt")); !os.IsNotExist(err) {
		t.Error("file still on disk")
	}
}

func TestCLIRecentAndHistory(t *testing.T) {
	np := setupTestNotepad(t)
	ctx := context.Background()
	for _, name := range []string{"a.txt", "b.txt", "a.txt"} {
		if _, err := ops.Write(ctx, np, ops.WriteInput{Name: name, Text: name}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runCLI(t, np, nil, "recent", "--limit", "1")
	if err != nil {
		t.Fatalf("recent command failed: %v", err)
	}
	var recent ops.RecentOutput
	if err := json.Unmarshal([]byte(out), &recent); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(recent.Items) != 1 || recent.Items[0].Name != "a.txt" {
		t.Errorf("recent output = %+v", recent)
	}

	out, err = runCLI(t, np, nil, "history", "a.txt")
	if err != nil {
		t.Fatalf("history command failed: %v", err)
	}
	var history ops.HistoryOutput
	if err := json.Unmarshal([]byte(out), &history); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(history.Items) != 2 {
		t.Errorf("history has %d events, want 2", len(history.Items))
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	np := setupTestNotepad(t)

	t.Run("delete missing file returns error", func(t *testing.T) {
		_, err := runCLI(t, np, nil, "delete", "missing.txt")
		if err == nil || !strings.Contains(err.Error(), "[IO_ERROR]") {
			t.Errorf("expected IO_ERROR, got %v", err)
		}
	})

	t.Run("create invalid name returns error", func(t *testing.T) {
		_, err := runCLI(t, np, nil, "create", "../escape.txt")
		if err == nil || !strings.Contains(err.Error(), "[INVALID_NAME]") {
			t.Errorf("expected INVALID_NAME, got %v", err)
		}
	})

	t.Run("missing name argument returns error", func(t *testing.T) {
		_, err := runCLI(t, np, nil, "cat")
		if err == nil || !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
			t.Errorf("expected INVALID_REQUEST, got %v", err)
		}
	})

	t.Run("cat invalid UTF-8 returns error", func(t *testing.T) {
		path := filepath.Join(np.Dir(), "bin.txt")
		if err := os.WriteFile(path, []byte{0xff, 0xfe}, 0600); err != nil {
			t.Fatal(err)
		}
		_, err := runCLI(t, np, nil, "cat", "bin.txt")
		if err == nil || !strings.Contains(err.Error(), "[ENCODING_ERROR]") {
			t.Errorf("expected ENCODING_ERROR, got %v", err)
		}
	})
}

func TestCLIHelpWithoutNotepad(t *testing.T) {
	out, err := runCLI(t, nil, nil, "--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	for _, cmd := range []string{"list", "create", "delete", "write", "serve"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help output missing %q", cmd)
		}
	}
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"jot"}, expected: false},
		{name: "list command", args: []string{"jot", "list"}, expected: true},
		{name: "write command", args: []string{"jot", "write", "a.txt"}, expected: true},
		{name: "serve command", args: []string{"jot", "serve"}, expected: true},
		{name: "help flag", args: []string{"jot", "--help"}, expected: true},
		{name: "version flag", args: []string{"jot", "--version"}, expected: true},
		{name: "short help flag", args: []string{"jot", "-h"}, expected: true},
		{name: "short version flag", args: []string{"jot", "-v"}, expected: true},
		{name: "unknown arg defaults to MCP", args: []string{"jot", "--unknown"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isCLIMode(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"jot"}, expected: false},
		{name: "help flag", args: []string{"jot", "--help"}, expected: true},
		{name: "short help flag", args: []string{"jot", "-h"}, expected: true},
		{name: "version flag", args: []string{"jot", "--version"}, expected: true},
		{name: "short version flag", args: []string{"jot", "-v"}, expected: true},
		{name: "help subcommand", args: []string{"jot", "help"}, expected: true},
		{name: "list command is not help", args: []string{"jot", "list"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isHelpOrVersion(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestReadStdinWithLimit tests the readStdin function respects size limits.
func TestReadStdinWithLimit(t *testing.T) {
	pipeStdin := func(t *testing.T, content string) {
		t.Helper()
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("Failed to create pipe: %v", err)
		}
		go func() {
			_, _ = w.WriteString(content)
			w.Close()
		}()
		oldStdin := os.Stdin
		os.Stdin = r
		t.Cleanup(func() { os.Stdin = oldStdin })
	}

	t.Run("within limit", func(t *testing.T) {
		content := "small content\n"
		pipeStdin(t, content)

		result, err := readStdin(1000)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != content {
			t.Errorf("expected %q, got %q", content, result)
		}
	})

	t.Run("exactly at limit", func(t *testing.T) {
		pipeStdin(t, strings.Repeat("x", 50))

		if _, err := readStdin(50); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("exceeds limit", func(t *testing.T) {
		pipeStdin(t, strings.Repeat("x", 100))

		if _, err := readStdin(50); err == nil {
			t.Error("expected error for content exceeding limit, got nil")
		}
	})
}
