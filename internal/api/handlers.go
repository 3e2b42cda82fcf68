package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/libservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *libservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *libservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetLibrary handles GET /library. The record is created lazily on first
// access.
func (h *Handler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Library(r.Context())
	if err != nil {
		slog.Error("get library failed", slog.String("error", err.Error()))
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ReconcileLibrary handles POST /library/reconcile.
func (h *Handler) ReconcileLibrary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.ReconcileLibrary(r.Context())
	if err != nil {
		slog.Error("reconcile library failed", slog.String("error", err.Error()))
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, ReconcileResponse{Stats: stats})
}

// GetNotebook handles GET /notebooks/{notebook}.
func (h *Handler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebook")
	rec, err := h.svc.Notebook(r.Context(), id)
	if err != nil {
		respondError(w, "get notebook", id, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ReconcileNotebook handles POST /notebooks/{notebook}/reconcile.
func (h *Handler) ReconcileNotebook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebook")
	stats, err := h.svc.ReconcileNotebook(r.Context(), id)
	if err != nil {
		respondError(w, "reconcile notebook", id, err)
		return
	}
	writeJSON(w, http.StatusOK, ReconcileResponse{Stats: stats})
}

// UpdateNotebook handles PATCH /notebooks/{notebook}.
func (h *Handler) UpdateNotebook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebook")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := h.svc.UpdateNotebook(r.Context(), id, req.Patch())
	if err != nil {
		respondError(w, "update notebook", id, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdatePageTags handles PUT /notebooks/{notebook}/pages/{page}/tags.
func (h *Handler) UpdatePageTags(w http.ResponseWriter, r *http.Request) {
	notebookID := chi.URLParam(r, "notebook")
	pageID := chi.URLParam(r, "page")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdatePageTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := h.svc.UpdatePageTags(r.Context(), notebookID, pageID, req.Tags)
	if err != nil {
		respondError(w, "update page tags", pageID, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func respondError(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrEntryNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	default:
		slog.Error(op+" failed", slog.String("id", id), slog.String("error", err.Error()))
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
