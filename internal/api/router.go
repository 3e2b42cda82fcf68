package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thornmoor/berkano/internal/libservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *libservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	mh := NewMediaHandler(svc.Root())

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Library record.
	r.Get("/library", h.GetLibrary)
	r.Post("/library/reconcile", h.ReconcileLibrary)

	// Notebook records and mutators.
	r.Get("/notebooks/{notebook}", h.GetNotebook)
	r.Post("/notebooks/{notebook}/reconcile", h.ReconcileNotebook)
	r.Patch("/notebooks/{notebook}", h.UpdateNotebook)
	r.Put("/notebooks/{notebook}/pages/{page}/tags", h.UpdatePageTags)

	// Media assets.
	r.Post("/notebooks/{notebook}/media", mh.Upload)
	r.Get("/notebooks/{notebook}/media/{filename}", mh.ServeFile)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
