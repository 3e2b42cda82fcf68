package api

import (
	"github.com/thornmoor/berkano/internal/models"
	"github.com/thornmoor/berkano/internal/reconcile"
)

// UpdateNotebookRequest is the body of PATCH /notebooks/{notebook}.
// Absent fields keep their prior value.
type UpdateNotebookRequest struct {
	DisplayName *string   `json:"displayName,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Color       *string   `json:"color,omitempty"`
}

// Patch converts the request into a mutation patch.
func (r UpdateNotebookRequest) Patch() reconcile.NotebookPatch {
	return reconcile.NotebookPatch{
		DisplayName: r.DisplayName,
		Description: r.Description,
		Tags:        r.Tags,
		Icon:        r.Icon,
		Color:       r.Color,
	}
}

// UpdatePageTagsRequest is the body of PUT .../pages/{page}/tags.
type UpdatePageTagsRequest struct {
	Tags []string `json:"tags"`
}

// ReconcileResponse reports the outcome of a reconciliation pass.
type ReconcileResponse struct {
	Stats reconcile.Stats `json:"stats"`
}

// LibraryResponse is the merged library record (aliased from the domain layer).
type LibraryResponse = models.LibraryRecord

// NotebookResponse is the merged table-of-contents record.
type NotebookResponse = models.TOCRecord

// MediaUploadResponse is returned after a successful media upload.
type MediaUploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}
