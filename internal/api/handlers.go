package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ElsonGrn/sims-explorer/internal/apperr"
	"github.com/ElsonGrn/sims-explorer/internal/gallery"
	"github.com/ElsonGrn/sims-explorer/internal/graphstore"
	"github.com/ElsonGrn/sims-explorer/internal/models"
	"github.com/ElsonGrn/sims-explorer/internal/simservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *simservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *simservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var invalid *apperr.InvalidGraphError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrDuplicateID):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":         "graph integrity violation",
			"danglingEdges": invalid.EdgeIDs,
		})
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// GetGraph handles GET /api/graph.
//
//	@Summary		Get the full relationship graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, graphResponse(h.svc.Graph(r.Context())))
}

// ReplaceGraph handles PUT /api/graph.
//
//	@Summary		Replace the whole graph
//	@Tags			graph
//	@Accept			json
//	@Produce		json
//	@Param			body	body		GraphResponse	true	"New graph (nodes and edges)"
//	@Success		200		{object}	GraphResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph [put]
func (h *Handler) ReplaceGraph(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.svc.ImportGraph(r.Context(), body); err != nil {
		writeServiceError(w, "replace graph", err)
		return
	}
	writeJSON(w, http.StatusOK, graphResponse(h.svc.Graph(r.Context())))
}

// ExportGraph handles GET /api/graph/export.
//
//	@Summary		Download the graph as a JSON document
//	@Tags			graph
//	@Produce		json
//	@Success		200	{string}	string	"graph document"
//	@Security		BearerAuth
//	@Router			/graph/export [get]
func (h *Handler) ExportGraph(w http.ResponseWriter, r *http.Request) {
	data, digest, err := h.svc.ExportGraph(r.Context())
	if err != nil {
		writeServiceError(w, "export graph", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sims-graph.json"`)
	w.Header().Set("X-Checksum", digest)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportGraph handles POST /api/graph/import.
//
//	@Summary		Import a previously exported graph document
//	@Tags			graph
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Failure		400	{object}	errResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph/import [post]
func (h *Handler) ImportGraph(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.svc.ImportGraph(r.Context(), body); err != nil {
		writeServiceError(w, "import graph", err)
		return
	}
	writeJSON(w, http.StatusOK, graphResponse(h.svc.Graph(r.Context())))
}

// Neighborhood handles GET /api/graph/neighborhood.
//
//	@Summary		Resolve per-element visibility around a focused person
//	@Tags			graph
//	@Produce		json
//	@Param			focus				query		string	false	"Focused person id"
//	@Param			depth				query		int		false	"Hop bound (1-3)"
//	@Param			onlyNeighborhood	query		bool	false	"Hide everything outside the neighborhood"
//	@Param			kinds				query		string	false	"Comma-separated visible relationship kinds"
//	@Success		200					{object}	NeighborhoodResponse
//	@Security		BearerAuth
//	@Router			/graph/neighborhood [get]
func (h *Handler) Neighborhood(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := graphstore.NeighborhoodRequest{
		FocusID:          q.Get("focus"),
		OnlyNeighborhood: q.Get("onlyNeighborhood") != "false",
	}
	if d, err := strconv.Atoi(q.Get("depth")); err == nil {
		req.Depth = d
	} else {
		req.Depth = 1
	}
	if kinds := q.Get("kinds"); kinds != "" {
		req.VisibleKinds = map[models.Kind]bool{}
		for _, k := range strings.Split(kinds, ",") {
			if k = strings.TrimSpace(k); k != "" {
				req.VisibleKinds[models.Kind(k)] = true
			}
		}
	}

	view := h.svc.Neighborhood(r.Context(), req)
	resp := NeighborhoodResponse{
		Focus:   view.FocusID,
		Persons: make(map[string]string, len(view.Persons)),
		Edges:   make(map[string]string, len(view.Edges)),
	}
	for id, v := range view.Persons {
		resp.Persons[id] = v.String()
	}
	for id, v := range view.Edges {
		resp.Edges[id] = v.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePerson handles POST /api/persons.
//
//	@Summary		Add a person to the graph
//	@Tags			persons
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreatePersonRequest	true	"Person to create"
//	@Success		201		{object}	models.Person
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons [post]
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p := models.Person{
		ID:         req.ID,
		Label:      req.Label,
		Image:      req.Image,
		Alive:      req.Alive == nil || *req.Alive,
		Attributes: req.Attributes,
	}
	added, err := h.svc.AddPerson(r.Context(), p)
	if err != nil {
		writeServiceError(w, "create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// GetPerson handles GET /api/persons/{id}.
//
//	@Summary		Get a single person
//	@Tags			persons
//	@Produce		json
//	@Param			id	path		string	true	"Person id"
//	@Success		200	{object}	models.Person
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id} [get]
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state := h.svc.Graph(r.Context())
	p, ok := state.Graph.Person(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePerson handles PATCH /api/persons/{id}.
//
//	@Summary		Partially update a person
//	@Tags			persons
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Person id"
//	@Param			body	body		UpdatePersonRequest	true	"Fields to change"
//	@Success		200		{object}	models.Person
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id} [patch]
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")
	var req UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	patch := graphstore.PersonPatch{
		Label:      req.Label,
		Image:      req.Image,
		Alive:      req.Alive,
		Attributes: req.Attributes,
	}
	updated, err := h.svc.UpdatePerson(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, "update person", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePerson handles DELETE /api/persons/{id}.
//
//	@Summary		Remove a person and every relationship touching them
//	@Tags			persons
//	@Param			id	path	string	true	"Person id"
//	@Success		204
//	@Security		BearerAuth
//	@Router			/persons/{id} [delete]
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	h.svc.RemovePerson(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// DeletePersonRelationships handles DELETE /api/persons/{id}/relationships.
//
//	@Summary		Remove every relationship touching a person
//	@Tags			persons
//	@Produce		json
//	@Param			id	path		string	true	"Person id"
//	@Success		200	{object}	map[string]int
//	@Security		BearerAuth
//	@Router			/persons/{id}/relationships [delete]
func (h *Handler) DeletePersonRelationships(w http.ResponseWriter, r *http.Request) {
	n := h.svc.RemoveAllRelationshipsOf(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// Gallery handles GET /api/gallery.
//
//	@Summary		List people for the gallery view with filters and sorting
//	@Tags			gallery
//	@Produce		json
//	@Param			search	query		string	false	"Free-text search"
//	@Param			status	query		string	false	"all, alive or dead"
//	@Param			occult	query		string	false	"Comma-separated occult types"
//	@Param			tag		query		string	false	"Tag substring filter"
//	@Param			sort	query		string	false	"Sort key"	Enums(name_asc, name_desc, age_asc, age_desc, alive_first, occult_name)
//	@Success		200		{object}	GalleryResponse
//	@Security		BearerAuth
//	@Router			/gallery [get]
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := gallery.Criteria{
		Search:       q.Get("search"),
		Status:       gallery.Status(q.Get("status")),
		TagSubstring: q.Get("tag"),
		Sort:         gallery.SortKey(q.Get("sort")),
	}
	if occult := q.Get("occult"); occult != "" {
		c.Occult = map[string]bool{}
		for _, o := range strings.Split(occult, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Occult[o] = true
			}
		}
	}
	persons := h.svc.Gallery(r.Context(), c)
	writeJSON(w, http.StatusOK, GalleryResponse{Persons: persons, Total: len(persons)})
}

// UpsertRelationship handles POST /api/relationships.
//
//	@Summary		Create a relationship, or update its strength if the pair already has one of this kind
//	@Tags			relationships
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpsertRelationshipRequest	true	"Relationship"
//	@Success		200		{object}	models.Relationship
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/relationships [post]
func (h *Handler) UpsertRelationship(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpsertRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rel := models.Relationship{
		Source:   req.Source,
		Target:   req.Target,
		Kind:     req.Kind,
		Strength: 0.5,
	}
	if req.Strength != nil {
		rel.Strength = *req.Strength
	}
	stored, err := h.svc.UpsertRelationship(r.Context(), rel)
	if err != nil {
		writeServiceError(w, "upsert relationship", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteRelationship handles DELETE /api/relationships/{id}.
//
//	@Summary		Remove a relationship
//	@Tags			relationships
//	@Param			id	path	string	true	"Relationship id"
//	@Success		204
//	@Security		BearerAuth
//	@Router			/relationships/{id} [delete]
func (h *Handler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	h.svc.RemoveRelationship(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// Undo handles POST /api/undo.
//
//	@Summary		Revert the last mutation
//	@Tags			history
//	@Produce		json
//	@Success		200	{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/undo [post]
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	state, applied := h.svc.Undo(r.Context())
	writeJSON(w, http.StatusOK, HistoryResponse{Applied: applied, Graph: graphResponse(state)})
}

// Redo handles POST /api/redo.
//
//	@Summary		Re-apply the last undone mutation
//	@Tags			history
//	@Produce		json
//	@Success		200	{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/redo [post]
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	state, applied := h.svc.Redo(r.Context())
	writeJSON(w, http.StatusOK, HistoryResponse{Applied: applied, Graph: graphResponse(state)})
}

// Kinds handles GET /api/kinds.
//
//	@Summary		List the relationship kind catalog with styles
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	KindCatalogResponse
//	@Security		BearerAuth
//	@Router			/kinds [get]
func (h *Handler) Kinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, KindCatalogResponse{Kinds: models.KindCatalog})
}

// Fields handles GET /api/fields.
//
//	@Summary		List the attribute field templates
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	FieldTemplatesResponse
//	@Security		BearerAuth
//	@Router			/fields [get]
func (h *Handler) Fields(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, FieldTemplatesResponse{
		Fields: models.FieldTemplates,
		Occult: models.OccultTypes,
	})
}

// GetPrefs handles GET /api/prefs.
//
//	@Summary		Get the persisted UI preferences
//	@Tags			prefs
//	@Produce		json
//	@Success		200	{object}	Prefs
//	@Security		BearerAuth
//	@Router			/prefs [get]
func (h *Handler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Prefs(r.Context()))
}

// PutPrefs handles PUT /api/prefs.
//
//	@Summary		Persist the UI preferences
//	@Tags			prefs
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Prefs	true	"Preferences"
//	@Success		200		{object}	Prefs
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/prefs [put]
func (h *Handler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var p Prefs
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SetPrefs(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetBackground handles GET /api/gallery/background.
//
//	@Summary		Get the gallery backdrop
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	Background
//	@Security		BearerAuth
//	@Router			/gallery/background [get]
func (h *Handler) GetBackground(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Background(r.Context()))
}

// PutBackground handles PUT /api/gallery/background.
//
//	@Summary		Set the gallery backdrop
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Background	true	"Backdrop image (data URL) and opacity"
//	@Success		200		{object}	Background
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/gallery/background [put]
func (h *Handler) PutBackground(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 20<<20)
	var bg Background
	if err := json.NewDecoder(r.Body).Decode(&bg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SetBackground(r.Context(), bg); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Background(r.Context()))
}

// DeleteBackground handles DELETE /api/gallery/background.
//
//	@Summary		Remove the gallery backdrop
//	@Tags			gallery
//	@Success		204
//	@Security		BearerAuth
//	@Router			/gallery/background [delete]
func (h *Handler) DeleteBackground(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearBackground(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
