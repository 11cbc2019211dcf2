package api

import (
	"github.com/ElsonGrn/sims-explorer/internal/models"
	"github.com/ElsonGrn/sims-explorer/internal/persist"
	"github.com/ElsonGrn/sims-explorer/internal/simservice"
)

// CreatePersonRequest is the request body for creating a person. ID is
// optional; when empty it is derived from the label.
type CreatePersonRequest struct {
	ID         string             `json:"id,omitempty" example:"antonia"`
	Label      string             `json:"label" example:"Antonia" validate:"required"`
	Image      string             `json:"image,omitempty"`
	Alive      *bool              `json:"alive,omitempty"`
	Attributes []models.Attribute `json:"attributes,omitempty"`
}

// UpdatePersonRequest is a partial update; nil fields stay unchanged.
type UpdatePersonRequest struct {
	Label      *string            `json:"label,omitempty"`
	Image      *string            `json:"image,omitempty"`
	Alive      *bool              `json:"alive,omitempty"`
	Attributes []models.Attribute `json:"attributes,omitempty"`
}

// UpsertRelationshipRequest creates or strengthens a relationship. Strength
// defaults to 0.5 when omitted.
type UpsertRelationshipRequest struct {
	Source   string      `json:"source" example:"antonia" validate:"required"`
	Target   string      `json:"target" example:"livia" validate:"required"`
	Kind     models.Kind `json:"kind" example:"friend" validate:"required"`
	Strength *float64    `json:"strength,omitempty" example:"0.5"`
}

// GraphResponse is the full graph with its checksum and history state.
type GraphResponse struct {
	Nodes    []models.Person       `json:"nodes" validate:"required"`
	Edges    []models.Relationship `json:"edges" validate:"required"`
	Checksum string                `json:"checksum" validate:"required"`
	CanUndo  bool                  `json:"canUndo"`
	CanRedo  bool                  `json:"canRedo"`
}

// HistoryResponse reports the outcome of an undo or redo.
type HistoryResponse struct {
	Applied bool          `json:"applied"`
	Graph   GraphResponse `json:"graph"`
}

// NeighborhoodResponse maps element ids to their visibility
// ("shown", "hidden", "emphasized", "dimmed").
type NeighborhoodResponse struct {
	Focus   string            `json:"focus,omitempty"`
	Persons map[string]string `json:"persons" validate:"required"`
	Edges   map[string]string `json:"edges" validate:"required"`
}

// GalleryResponse wraps a filtered, sorted people listing.
type GalleryResponse struct {
	Persons []models.Person `json:"persons" validate:"required"`
	Total   int             `json:"total" example:"7" validate:"required"`
}

// KindCatalogResponse lists every relationship kind with its visual style.
type KindCatalogResponse struct {
	Kinds []models.KindStyle `json:"kinds" validate:"required"`
}

// FieldTemplatesResponse lists the attribute templates for the person editor.
type FieldTemplatesResponse struct {
	Fields []models.FieldTemplate `json:"fields" validate:"required"`
	Occult []string               `json:"occultTypes" validate:"required"`
}

// Prefs is the persisted UI preference document (aliased from the persistence layer).
type Prefs = persist.Prefs

// Background is the gallery backdrop (aliased from the domain layer).
type Background = simservice.Background

func graphResponse(state simservice.GraphState) GraphResponse {
	return GraphResponse{
		Nodes:    state.Graph.People,
		Edges:    state.Graph.Relationships,
		Checksum: state.Checksum,
		CanUndo:  state.CanUndo,
		CanRedo:  state.CanRedo,
	}
}
