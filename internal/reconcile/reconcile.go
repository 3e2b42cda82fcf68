// Package reconcile implements the scan-and-merge engine that keeps the
// persisted library and notebook records in sync with the directory tree.
//
// Field ownership is the governing rule: derived fields (counts,
// timestamps, titles, previews) are recomputed from the filesystem on
// every pass, while user-editable fields (display names, descriptions,
// tags, icons, colors) are written by the scanner only at first discovery
// and thereafter only through the mutators. The filesystem is ground
// truth for which entries exist; the record file is ground truth for what
// the user said about them.
package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/extract"
	"github.com/thornmoor/berkano/internal/metastore"
	"github.com/thornmoor/berkano/internal/models"
	"github.com/thornmoor/berkano/internal/scanner"
)

// Stats summarizes one reconciliation pass.
type Stats struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
	Total   int `json:"total"`
}

// ContentProvider supplies raw page text for extraction. Implementations
// may fail; the reconciler degrades a failed read to empty content rather
// than failing the pass.
type ContentProvider interface {
	PageText(dir, name string) (string, error)
}

// FSContent reads page text straight from the filesystem.
type FSContent struct{}

// PageText returns the contents of dir/name.
func (FSContent) PageText(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("reconcile: read page %s: %w", name, err)
	}
	return string(data), nil
}

// Reconciler drives reconciliation for one library root.
type Reconciler struct {
	noteExt     string
	libraryName string
	content     ContentProvider
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock injects the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithContent injects the page content provider.
func WithContent(p ContentProvider) Option {
	return func(r *Reconciler) { r.content = p }
}

// WithLibraryName sets the name given to a library record on creation.
// The default is the root directory's base name.
func WithLibraryName(name string) Option {
	return func(r *Reconciler) { r.libraryName = name }
}

// New creates a Reconciler for note files with the given extension.
func New(noteExt string, logger *slog.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		noteExt: noteExt,
		content: FSContent{},
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Library reconciles the library record at root against its notebook
// subdirectories. A missing record is created (and persisted) before
// scanning, which fixes the record's createdAt.
func (r *Reconciler) Library(root string) (Stats, error) {
	rec, err := metastore.LoadLibrary(root)
	if errors.Is(err, apperr.ErrNotFound) {
		name := r.libraryName
		if name == "" {
			name = filepath.Base(root)
		}
		rec = models.NewLibraryRecord(name, models.At(r.now()))
		if err := metastore.SaveLibrary(root, rec); err != nil {
			return Stats{}, err
		}
	} else if err != nil {
		return Stats{}, err
	}

	children, err := scanner.Notebooks(root)
	if err != nil {
		return Stats{}, err
	}

	merged, stats := r.mergeNotebooks(root, rec.Notebooks, children)
	rec.Notebooks = merged
	rec.SortNotebooks()
	rec.LastModified = models.At(r.now())

	if err := metastore.SaveLibrary(root, rec); err != nil {
		return Stats{}, err
	}
	r.logger.Debug("reconciled library",
		slog.String("root", root),
		slog.Int("added", stats.Added),
		slog.Int("removed", stats.Removed),
		slog.Int("total", stats.Total))
	return stats, nil
}

// Notebook reconciles the table-of-contents record at dir against its
// note files.
func (r *Reconciler) Notebook(dir string) (Stats, error) {
	rec, err := metastore.LoadTOC(dir)
	if errors.Is(err, apperr.ErrNotFound) {
		rec = models.NewTOCRecord(filepath.Base(dir), models.At(r.now()))
		if err := metastore.SaveTOC(dir, rec); err != nil {
			return Stats{}, err
		}
	} else if err != nil {
		return Stats{}, err
	}

	children, err := scanner.Pages(dir, r.noteExt)
	if err != nil {
		return Stats{}, err
	}

	merged, stats := r.mergePages(dir, rec.Pages, children)
	rec.Pages = merged
	rec.SortPages()
	rec.LastModified = models.At(r.now())

	if err := metastore.SaveTOC(dir, rec); err != nil {
		return Stats{}, err
	}
	r.logger.Debug("reconciled notebook",
		slog.String("dir", dir),
		slog.Int("added", stats.Added),
		slog.Int("removed", stats.Removed),
		slog.Int("total", stats.Total))
	return stats, nil
}

// All reconciles every notebook and then the library record. Notebooks
// go first so that the library pass observes directory state after any
// toc saves; a second pass with no filesystem changes then finds nothing
// to rewrite. Per-notebook failures abort the whole pass.
func (r *Reconciler) All(root string) (Stats, error) {
	children, err := scanner.Notebooks(root)
	if err != nil {
		return Stats{}, err
	}
	for _, c := range children {
		if _, err := r.Notebook(filepath.Join(root, c.Name)); err != nil {
			return Stats{}, err
		}
	}
	return r.Library(root)
}

// mergeNotebooks folds observed subdirectories over the previous entry
// collection. The merge is order-independent: each observation either
// refreshes the derived fields of its matching entry or creates a new
// entry with defaults. Entries without a matching observation are
// dropped.
func (r *Reconciler) mergeNotebooks(root string, old []models.NotebookEntry, children []scanner.Child) ([]models.NotebookEntry, Stats) {
	prev := make(map[string]models.NotebookEntry, len(old))
	for _, e := range old {
		prev[e.ID] = e
	}

	var stats Stats
	out := make([]models.NotebookEntry, 0, len(children))
	for _, c := range children {
		count := r.countNotes(filepath.Join(root, c.Name))

		if existing, ok := prev[c.Name]; ok {
			existing.NoteCount = count
			existing.LastModified = models.At(c.ModifiedAt)
			out = append(out, existing)
			stats.Updated++
			continue
		}

		out = append(out, models.NotebookEntry{
			ID:           c.Name,
			DisplayName:  c.Name,
			Description:  "",
			Tags:         []string{},
			Icon:         models.DefaultNotebookIcon,
			Color:        models.DefaultNotebookColor,
			NoteCount:    count,
			CreatedAt:    models.At(c.CreatedAt),
			LastModified: models.At(c.ModifiedAt),
		})
		stats.Added++
	}

	stats.Removed = len(old) - stats.Updated
	stats.Total = len(out)
	return out, stats
}

// mergePages folds observed note files over the previous page collection,
// re-extracting title, preview, and word count from current content.
func (r *Reconciler) mergePages(dir string, old []models.PageEntry, children []scanner.Child) ([]models.PageEntry, Stats) {
	prev := make(map[string]models.PageEntry, len(old))
	for _, e := range old {
		prev[e.ID] = e
	}

	var stats Stats
	out := make([]models.PageEntry, 0, len(children))
	for _, c := range children {
		text, err := r.content.PageText(dir, c.Name)
		if err != nil {
			// Unreadable content degrades to best-effort derived fields.
			r.logger.Warn("page content unreadable",
				slog.String("page", c.Name),
				slog.String("error", err.Error()))
			text = ""
		}
		res := extract.Extract(text, c.Name)
		header := extract.HasHeaderBlock(text)

		if existing, ok := prev[c.Name]; ok {
			existing.Title = res.Title
			existing.Preview = res.Preview
			existing.WordCount = res.WordCount
			existing.HasHeaderBlock = header
			existing.LastModified = models.At(c.ModifiedAt)
			out = append(out, existing)
			stats.Updated++
			continue
		}

		out = append(out, models.PageEntry{
			ID:             c.Name,
			Title:          res.Title,
			Tags:           []string{},
			Preview:        res.Preview,
			WordCount:      res.WordCount,
			CreatedAt:      models.At(c.CreatedAt),
			LastModified:   models.At(c.ModifiedAt),
			HasHeaderBlock: header,
		})
		stats.Added++
	}

	stats.Removed = len(old) - stats.Updated
	stats.Total = len(out)
	return out, stats
}

// countNotes returns the number of note files in a notebook directory.
// An unreadable notebook counts zero rather than failing the library pass.
func (r *Reconciler) countNotes(dir string) int {
	pages, err := scanner.Pages(dir, r.noteExt)
	if err != nil {
		r.logger.Warn("count notes failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return 0
	}
	return len(pages)
}
