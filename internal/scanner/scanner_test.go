package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func mk(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func touch(t *testing.T, parts ...string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(parts...), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNotebooks_DirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	mk(t, root, "Alpha")
	mk(t, root, "Beta")
	touch(t, root, "stray.md")
	touch(t, root, "index.yaml")

	got, err := Notebooks(root)
	if err != nil {
		t.Fatalf("Notebooks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// os.ReadDir sorts by name.
	if got[0].Name != "Alpha" || got[1].Name != "Beta" {
		t.Errorf("names = %v, %v", got[0].Name, got[1].Name)
	}
	if !got[0].IsDir {
		t.Error("expected IsDir")
	}
}

func TestNotebooks_ExcludesHiddenAndMedia(t *testing.T) {
	root := t.TempDir()
	mk(t, root, "Visible")
	mk(t, root, ".hidden")
	mk(t, root, MediaDirName)

	got, err := Notebooks(root)
	if err != nil {
		t.Fatalf("Notebooks: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Visible" {
		t.Errorf("got = %+v, want only Visible", got)
	}
}

func TestPages_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.md")
	touch(t, dir, "b.md")
	touch(t, dir, "notes.txt")
	touch(t, dir, "toc.yaml")
	touch(t, dir, ".hidden.md")
	mk(t, dir, "sub.md") // a directory, even with a matching suffix

	got, err := Pages(dir, ".md")
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Name != "a.md" || got[1].Name != "b.md" {
		t.Errorf("names = %v, %v", got[0].Name, got[1].Name)
	}
	if got[0].ModifiedAt.IsZero() || got[0].CreatedAt.IsZero() {
		t.Error("expected timestamps to be populated")
	}
}

func TestPages_EmptyDir(t *testing.T) {
	got, err := Pages(t.TempDir(), ".md")
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got = %v, want empty non-nil slice", got)
	}
}

func TestScan_MissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	if _, err := Notebooks(missing); err == nil {
		t.Error("Notebooks should fail on a missing path")
	}
	if _, err := Pages(missing, ".md"); err == nil {
		t.Error("Pages should fail on a missing path")
	}
}
