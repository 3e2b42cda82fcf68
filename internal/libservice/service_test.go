package libservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/metastore"
	"github.com/thornmoor/berkano/internal/reconcile"
	"github.com/thornmoor/berkano/internal/testutil"
)

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	root := testutil.TestLibrary(t)
	rec := reconcile.New(".md", testutil.Logger(),
		reconcile.WithClock(testutil.Clock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))))
	return NewService(root, rec), root
}

func TestLibrary_LazyCreation(t *testing.T) {
	svc, root := testService(t)
	ctx := context.Background()

	// No record exists yet; first access creates it.
	if _, err := metastore.LoadLibrary(root); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("precondition: %v", err)
	}
	rec, err := svc.Library(ctx)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if rec == nil || len(rec.Notebooks) != 0 {
		t.Errorf("record = %+v", rec)
	}
	if _, err := metastore.LoadLibrary(root); err != nil {
		t.Errorf("record not persisted: %v", err)
	}
}

func TestNotebook_LazyCreation(t *testing.T) {
	svc, root := testService(t)
	dir := testutil.MkNotebook(t, root, "Notes")
	testutil.WriteNote(t, dir, "a.md", "hello world")

	rec, err := svc.Notebook(context.Background(), "Notes")
	if err != nil {
		t.Fatalf("Notebook: %v", err)
	}
	if rec.Page("a.md") == nil {
		t.Error("page missing from lazily created toc")
	}
}

func TestNotebook_MissingDirectory(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Notebook(context.Background(), "Ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestNotebookID_Validation(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	bad := []string{"", "..", "a/b", "../escape", ".hidden", "media"}
	for _, id := range bad {
		if _, err := svc.Notebook(ctx, id); err == nil {
			t.Errorf("Notebook(%q) should fail", id)
		}
		if _, err := svc.ReconcileNotebook(ctx, id); err == nil {
			t.Errorf("ReconcileNotebook(%q) should fail", id)
		}
	}
}

func TestUpdatePageTags_InvalidPageID(t *testing.T) {
	svc, root := testService(t)
	dir := testutil.MkNotebook(t, root, "Notes")
	testutil.WriteNote(t, dir, "a.md", "x")
	ctx := context.Background()
	if _, err := svc.ReconcileLibrary(ctx); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", "../a.md", ".hidden.md"} {
		if _, err := svc.UpdatePageTags(ctx, "Notes", id, nil); err == nil {
			t.Errorf("UpdatePageTags(%q) should fail", id)
		}
	}
}

func TestReconcileLibrary_FullPass(t *testing.T) {
	svc, root := testService(t)
	dir := testutil.MkNotebook(t, root, "Notes")
	testutil.WriteNote(t, dir, "a.md", "one two three")

	stats, err := svc.ReconcileLibrary(context.Background())
	if err != nil {
		t.Fatalf("ReconcileLibrary: %v", err)
	}
	if stats.Added != 1 {
		t.Errorf("stats = %+v", stats)
	}
	toc, err := metastore.LoadTOC(dir)
	if err != nil {
		t.Fatalf("toc not written: %v", err)
	}
	if toc.Page("a.md").WordCount != 3 {
		t.Errorf("wordCount = %d", toc.Page("a.md").WordCount)
	}
}
