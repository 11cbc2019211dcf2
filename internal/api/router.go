package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ElsonGrn/sims-explorer/internal/simservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *simservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Whole-graph operations.
	r.Get("/graph", h.GetGraph)
	r.Put("/graph", h.ReplaceGraph)
	r.Get("/graph/export", h.ExportGraph)
	r.Post("/graph/import", h.ImportGraph)
	r.Get("/graph/neighborhood", h.Neighborhood)

	// Persons CRUD.
	r.Post("/persons", h.CreatePerson)
	r.Get("/persons/{id}", h.GetPerson)
	r.Patch("/persons/{id}", h.UpdatePerson)
	r.Delete("/persons/{id}", h.DeletePerson)
	r.Delete("/persons/{id}/relationships", h.DeletePersonRelationships)

	// Relationships.
	r.Post("/relationships", h.UpsertRelationship)
	r.Delete("/relationships/{id}", h.DeleteRelationship)

	// Edit history.
	r.Post("/undo", h.Undo)
	r.Post("/redo", h.Redo)

	// Gallery view.
	r.Get("/gallery", h.Gallery)
	r.Get("/gallery/background", h.GetBackground)
	r.Put("/gallery/background", h.PutBackground)
	r.Delete("/gallery/background", h.DeleteBackground)

	// Static catalogs for the editor UI.
	r.Get("/kinds", h.Kinds)
	r.Get("/fields", h.Fields)

	// UI preferences.
	r.Get("/prefs", h.GetPrefs)
	r.Put("/prefs", h.PutPrefs)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
