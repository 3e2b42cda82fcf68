package reconcile

import (
	"fmt"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/metastore"
	"github.com/thornmoor/berkano/internal/models"
)

// stampAfter returns the current clock reading, raised to the latest of
// the given timestamps so a mutation never moves lastModified backwards
// even when the clock lags the filesystem.
func (r *Reconciler) stampAfter(prev ...models.Timestamp) models.Timestamp {
	now := r.now()
	for _, p := range prev {
		if p.After(now) {
			now = p.Time
		}
	}
	return models.At(now)
}

// NotebookPatch is a partial update of a notebook entry's user-editable
// fields. Nil fields keep their prior value.
type NotebookPatch struct {
	DisplayName *string
	Description *string
	Tags        *[]string
	Icon        *string
	Color       *string
}

// UpdateNotebook applies a partial field update to one notebook entry,
// identified by id, without scanning. The entry's and the record's
// lastModified are both set to the current time. A missing entry fails
// with apperr.ErrEntryNotFound and writes nothing.
func (r *Reconciler) UpdateNotebook(root, id string, patch NotebookPatch) (*models.NotebookEntry, error) {
	rec, err := metastore.LoadLibrary(root)
	if err != nil {
		return nil, err
	}

	entry := rec.Notebook(id)
	if entry == nil {
		return nil, fmt.Errorf("reconcile: notebook %q: %w", id, apperr.ErrEntryNotFound)
	}

	if patch.DisplayName != nil {
		entry.DisplayName = *patch.DisplayName
	}
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	if patch.Tags != nil {
		entry.Tags = *patch.Tags
	}
	if patch.Icon != nil {
		entry.Icon = *patch.Icon
	}
	if patch.Color != nil {
		entry.Color = *patch.Color
	}

	stamp := r.stampAfter(entry.LastModified, rec.LastModified)
	entry.LastModified = stamp
	rec.LastModified = stamp

	if err := metastore.SaveLibrary(root, rec); err != nil {
		return nil, err
	}
	updated := *entry
	return &updated, nil
}

// UpdatePageTags replaces the tags of one page entry, identified by id,
// without scanning. Only the record's lastModified moves; the page's own
// lastModified stays derived from the file. A missing entry fails with
// apperr.ErrEntryNotFound and writes nothing.
func (r *Reconciler) UpdatePageTags(dir, id string, tags []string) (*models.PageEntry, error) {
	rec, err := metastore.LoadTOC(dir)
	if err != nil {
		return nil, err
	}

	entry := rec.Page(id)
	if entry == nil {
		return nil, fmt.Errorf("reconcile: page %q: %w", id, apperr.ErrEntryNotFound)
	}

	if tags == nil {
		tags = []string{}
	}
	entry.Tags = tags
	rec.LastModified = r.stampAfter(rec.LastModified)
	rec.SortPages()

	if err := metastore.SaveTOC(dir, rec); err != nil {
		return nil, err
	}
	updated := *rec.Page(id)
	return &updated, nil
}
