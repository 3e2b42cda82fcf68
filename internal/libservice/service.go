// Package libservice coordinates record access, reconciliation, and
// mutation for API and MCP consumers.
package libservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/metastore"
	"github.com/thornmoor/berkano/internal/models"
	"github.com/thornmoor/berkano/internal/reconcile"
	"github.com/thornmoor/berkano/internal/scanner"
)

// Service exposes the merged records and the narrow mutation operations
// for one library root.
type Service struct {
	root string
	rec  *reconcile.Reconciler
}

// NewService creates a service over the library rooted at root.
func NewService(root string, rec *reconcile.Reconciler) *Service {
	return &Service{root: root, rec: rec}
}

// Root returns the library root directory.
func (s *Service) Root() string {
	return s.root
}

// notebookDir validates id as a plain directory name and resolves it
// under the library root. Path separators, traversal, hidden names, and
// the reserved media directory are rejected.
func (s *Service) notebookDir(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") || id == scanner.MediaDirName {
		return "", fmt.Errorf("libservice: invalid notebook id %q: %w", id, apperr.ErrEntryNotFound)
	}
	return filepath.Join(s.root, id), nil
}

// Library returns the library record, creating it with a reconciliation
// pass if no record has been persisted yet.
func (s *Service) Library(_ context.Context) (*models.LibraryRecord, error) {
	rec, err := metastore.LoadLibrary(s.root)
	if errors.Is(err, apperr.ErrNotFound) {
		if _, recErr := s.rec.Library(s.root); recErr != nil {
			return nil, recErr
		}
		return metastore.LoadLibrary(s.root)
	}
	return rec, err
}

// Notebook returns the table-of-contents record for one notebook,
// creating it with a reconciliation pass if the directory exists but no
// record has been persisted yet.
func (s *Service) Notebook(_ context.Context, id string) (*models.TOCRecord, error) {
	dir, err := s.notebookDir(id)
	if err != nil {
		return nil, err
	}
	rec, err := metastore.LoadTOC(dir)
	if errors.Is(err, apperr.ErrNotFound) {
		if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
			return nil, fmt.Errorf("libservice: notebook %q: %w", id, apperr.ErrNotFound)
		}
		if _, recErr := s.rec.Notebook(dir); recErr != nil {
			return nil, recErr
		}
		return metastore.LoadTOC(dir)
	}
	return rec, err
}

// ReconcileLibrary runs a full two-level reconciliation pass.
func (s *Service) ReconcileLibrary(_ context.Context) (reconcile.Stats, error) {
	return s.rec.All(s.root)
}

// ReconcileNotebook reconciles a single notebook.
func (s *Service) ReconcileNotebook(_ context.Context, id string) (reconcile.Stats, error) {
	dir, err := s.notebookDir(id)
	if err != nil {
		return reconcile.Stats{}, err
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return reconcile.Stats{}, fmt.Errorf("libservice: notebook %q: %w", id, apperr.ErrNotFound)
	}
	return s.rec.Notebook(dir)
}

// UpdateNotebook applies a partial metadata patch to one notebook entry.
func (s *Service) UpdateNotebook(_ context.Context, id string, patch reconcile.NotebookPatch) (*models.NotebookEntry, error) {
	if _, err := s.notebookDir(id); err != nil {
		return nil, err
	}
	return s.rec.UpdateNotebook(s.root, id, patch)
}

// UpdatePageTags replaces the tags of one page entry.
func (s *Service) UpdatePageTags(_ context.Context, notebookID, pageID string, tags []string) (*models.PageEntry, error) {
	dir, err := s.notebookDir(notebookID)
	if err != nil {
		return nil, err
	}
	if pageID == "" || pageID != filepath.Base(pageID) || strings.HasPrefix(pageID, ".") {
		return nil, fmt.Errorf("libservice: invalid page id %q: %w", pageID, apperr.ErrEntryNotFound)
	}
	return s.rec.UpdatePageTags(dir, pageID, tags)
}
