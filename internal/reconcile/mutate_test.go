package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/metastore"
	"github.com/thornmoor/berkano/internal/testutil"
)

func seedNotebook(t *testing.T, r *Reconciler) (root, dir string) {
	t.Helper()
	root = testutil.TestLibrary(t)
	dir = testutil.MkNotebook(t, root, "Notes")
	testutil.WriteNote(t, dir, "a.md", "# Hello\nWorld")
	if _, err := r.All(root); err != nil {
		t.Fatal(err)
	}
	return root, dir
}

func TestUpdateNotebook_PartialPatch(t *testing.T) {
	r := testReconciler(t)
	root, _ := seedNotebook(t, r)

	desc := "work things"
	color := "#FF2D55"
	if _, err := r.UpdateNotebook(root, "Notes", NotebookPatch{Description: &desc, Color: &color}); err != nil {
		t.Fatalf("UpdateNotebook: %v", err)
	}

	rec, _ := metastore.LoadLibrary(root)
	nb := rec.Notebook("Notes")
	if nb.Description != "work things" || nb.Color != "#FF2D55" {
		t.Errorf("patched fields: description=%q color=%q", nb.Description, nb.Color)
	}
	// Absent fields keep their prior values.
	if nb.DisplayName != "Notes" {
		t.Errorf("displayName = %q, want untouched default", nb.DisplayName)
	}
}

func TestUpdateNotebook_BumpsBothTimestamps(t *testing.T) {
	// The clock starts ahead of the wall clock so its stamps are later
	// than the file mtimes the seed pass derives.
	r := New(".md", testutil.Logger(),
		WithClock(testutil.Clock(time.Now().Add(time.Hour))))
	root, _ := seedNotebook(t, r)

	before, _ := metastore.LoadLibrary(root)
	nbBefore := *before.Notebook("Notes")

	name := "Renamed"
	if _, err := r.UpdateNotebook(root, "Notes", NotebookPatch{DisplayName: &name}); err != nil {
		t.Fatal(err)
	}

	after, _ := metastore.LoadLibrary(root)
	nbAfter := after.Notebook("Notes")
	if !nbAfter.LastModified.After(nbBefore.LastModified.Time) {
		t.Error("entry lastModified did not advance")
	}
	if !after.LastModified.After(before.LastModified.Time) {
		t.Error("record lastModified did not advance")
	}
	if !nbAfter.CreatedAt.Equal(nbBefore.CreatedAt) {
		t.Error("createdAt must not move")
	}
}

func TestUpdateNotebook_LaggingClockDoesNotRegress(t *testing.T) {
	// A clock far behind the file mtimes must not move timestamps back.
	r := New(".md", testutil.Logger(),
		WithClock(testutil.Clock(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))))
	root, _ := seedNotebook(t, r)

	before, _ := metastore.LoadLibrary(root)
	nbBefore := *before.Notebook("Notes")

	name := "Renamed"
	if _, err := r.UpdateNotebook(root, "Notes", NotebookPatch{DisplayName: &name}); err != nil {
		t.Fatal(err)
	}

	after, _ := metastore.LoadLibrary(root)
	nbAfter := after.Notebook("Notes")
	if nbAfter.LastModified.Before(nbBefore.LastModified.Time) {
		t.Errorf("entry lastModified regressed: %v then %v",
			nbBefore.LastModified, nbAfter.LastModified)
	}
	if after.LastModified.Before(before.LastModified.Time) {
		t.Errorf("record lastModified regressed: %v then %v",
			before.LastModified, after.LastModified)
	}
}

func TestUpdateNotebook_MissingEntry(t *testing.T) {
	r := testReconciler(t)
	root, _ := seedNotebook(t, r)

	indexPath := filepath.Join(root, metastore.IndexFilename)
	before, err := os.ReadFile(indexPath)
	if err != nil {
		t.Fatal(err)
	}

	name := "x"
	_, err = r.UpdateNotebook(root, "Nope", NotebookPatch{DisplayName: &name})
	if !errors.Is(err, apperr.ErrEntryNotFound) {
		t.Fatalf("error = %v, want ErrEntryNotFound", err)
	}

	after, _ := os.ReadFile(indexPath)
	if string(before) != string(after) {
		t.Error("record file changed despite failed mutation")
	}
}

func TestUpdateNotebook_MissingRecord(t *testing.T) {
	r := testReconciler(t)
	name := "x"
	_, err := r.UpdateNotebook(t.TempDir(), "Notes", NotebookPatch{DisplayName: &name})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePageTags_ReplacesTags(t *testing.T) {
	r := testReconciler(t)
	_, dir := seedNotebook(t, r)

	if _, err := r.UpdatePageTags(dir, "a.md", []string{"inbox", "urgent"}); err != nil {
		t.Fatalf("UpdatePageTags: %v", err)
	}
	rec, _ := metastore.LoadTOC(dir)
	if diff := cmp.Diff([]string{"inbox", "urgent"}, rec.Page("a.md").Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}

	// Replace again with an empty set.
	if _, err := r.UpdatePageTags(dir, "a.md", nil); err != nil {
		t.Fatal(err)
	}
	rec, _ = metastore.LoadTOC(dir)
	if got := rec.Page("a.md").Tags; len(got) != 0 {
		t.Errorf("tags = %v, want cleared", got)
	}
}

func TestUpdatePageTags_DoesNotTouchPageLastModified(t *testing.T) {
	r := testReconciler(t)
	_, dir := seedNotebook(t, r)

	before, _ := metastore.LoadTOC(dir)
	pageBefore := *before.Page("a.md")

	if _, err := r.UpdatePageTags(dir, "a.md", []string{"t"}); err != nil {
		t.Fatal(err)
	}
	after, _ := metastore.LoadTOC(dir)
	pageAfter := after.Page("a.md")

	if !pageAfter.LastModified.Equal(pageBefore.LastModified) {
		t.Error("page lastModified stays derived from the file")
	}
	if !after.LastModified.After(before.LastModified.Time) {
		t.Error("record lastModified did not advance")
	}
}

func TestUpdatePageTags_MissingEntryNoWrite(t *testing.T) {
	r := testReconciler(t)
	_, dir := seedNotebook(t, r)

	tocPath := filepath.Join(dir, metastore.TOCFilename)
	before, err := os.ReadFile(tocPath)
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.UpdatePageTags(dir, "ghost.md", []string{"x"})
	if !errors.Is(err, apperr.ErrEntryNotFound) {
		t.Fatalf("error = %v, want ErrEntryNotFound", err)
	}

	after, _ := os.ReadFile(tocPath)
	if string(before) != string(after) {
		t.Error("record file changed despite failed mutation")
	}
}
