// Package testutil provides shared test helpers for building library trees.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestLibrary creates a temporary library root directory.
func TestLibrary(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// MkNotebook creates a notebook directory under root and returns its path.
func MkNotebook(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

// WriteNote writes a note file into dir.
func WriteNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Clock returns a deterministic time source that starts at start and
// advances one second on every call, so record timestamps strictly
// increase without sleeping.
func Clock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(time.Second)
		return t
	}
}
