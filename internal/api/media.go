package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/scanner"
)

const maxUploadBytes = 50 << 20 // 50 MB

// MediaHandler serves and accepts binary assets in a notebook's reserved
// media subdirectory.
type MediaHandler struct {
	libraryRoot string
}

// NewMediaHandler creates a handler rooted at the library directory.
func NewMediaHandler(libraryRoot string) *MediaHandler {
	return &MediaHandler{libraryRoot: libraryRoot}
}

// mediaPath validates the notebook id and filename as plain names and
// returns the absolute path under the notebook's media directory.
func (h *MediaHandler) mediaPath(notebook, name string) (string, error) {
	if notebook == "" || notebook != filepath.Base(notebook) || strings.HasPrefix(notebook, ".") {
		return "", fmt.Errorf("invalid notebook: %s", notebook)
	}
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	mediaDir := filepath.Join(h.libraryRoot, notebook, scanner.MediaDirName)
	abs := filepath.Join(mediaDir, cleaned)
	if !strings.HasPrefix(abs, mediaDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes media directory")
	}
	return abs, nil
}

// ServeFile handles GET /notebooks/{notebook}/media/{filename}.
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	notebook := chi.URLParam(r, "notebook")
	filename := chi.URLParam(r, "filename")
	abs, err := h.mediaPath(notebook, filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /notebooks/{notebook}/media (multipart, field "file").
// An existing file is not overwritten unless ?overwrite=true is given.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	notebook := chi.URLParam(r, "notebook")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "file too large or invalid multipart")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "missing 'file' field in multipart form")
		return
	}
	defer file.Close()

	abs, err := h.mediaPath(notebook, header.Filename)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	overwrite := r.URL.Query().Get("overwrite") == "true"
	written, err := h.saveMedia(abs, file, overwrite)
	if errors.Is(err, apperr.ErrConflict) {
		writeErr(w, http.StatusConflict, "file already exists")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	// The request path carries whatever prefix the router is mounted
	// under, so the advertised URL resolves as served.
	writeJSON(w, http.StatusCreated, MediaUploadResponse{
		Filename: header.Filename,
		Size:     written,
		URL:      strings.TrimSuffix(r.URL.Path, "/") + "/" + header.Filename,
	})
}

func (h *MediaHandler) saveMedia(abs string, src io.Reader, overwrite bool) (int64, error) {
	if !overwrite {
		if _, err := os.Stat(abs); err == nil {
			return 0, fmt.Errorf("media %s: %w", filepath.Base(abs), apperr.ErrConflict)
		}
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, fmt.Errorf("create media dir: %w", err)
	}
	dst, err := os.Create(abs)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return written, nil
}
