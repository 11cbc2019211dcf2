// Package simservice coordinates the in-memory graph, edit history,
// persistence and change notifications behind the API and MCP surfaces.
package simservice

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/ElsonGrn/sims-explorer/internal/checksum"
	"github.com/ElsonGrn/sims-explorer/internal/gallery"
	"github.com/ElsonGrn/sims-explorer/internal/graphstore"
	"github.com/ElsonGrn/sims-explorer/internal/models"
	"github.com/ElsonGrn/sims-explorer/internal/persist"
	"github.com/ElsonGrn/sims-explorer/internal/sse"
)

// Publisher receives graph change notifications. Satisfied by *sse.Broker.
type Publisher interface {
	PublishChange(kind string, data interface{})
	Publish(event sse.Event)
}

// Background is the gallery backdrop configuration.
type Background struct {
	Image   string  `json:"image"`
	Opacity float64 `json:"opacity"`
}

// GraphState pairs a graph snapshot with its content checksum and the
// current history capabilities.
type GraphState struct {
	Graph    models.Graph
	Checksum string
	CanUndo  bool
	CanRedo  bool
}

// Service is the single entry point for all graph operations. The store is
// authoritative; persistence is best effort and failures degrade to a
// warning event instead of failing the mutation.
type Service struct {
	history *graphstore.History
	db      persist.Provider
	saver   *persist.Saver
	logger  *slog.Logger
	events  Publisher
}

// NewService wires the history-tracked store to persistence and events.
// Every store change arms the debounced saver.
func NewService(history *graphstore.History, db persist.Provider, logger *slog.Logger, events Publisher, saveDebounce time.Duration) *Service {
	s := &Service{
		history: history,
		db:      db,
		logger:  logger,
		events:  events,
	}
	s.saver = persist.NewSaver(saveDebounce, s.saveGraph)
	history.Store().Subscribe(func(models.Graph) {
		s.saver.Trigger()
	})
	return s
}

func (s *Service) saveGraph() {
	g := s.history.Store().Graph()
	data, err := persist.EncodeGraph(g)
	if err != nil {
		s.storageWarn("encode graph", err)
		return
	}
	if err := s.db.Save(persist.KeyGraph, data); err != nil {
		s.storageWarn("save graph", err)
		return
	}
	s.logger.Debug("graph saved",
		slog.Int("persons", len(g.People)),
		slog.Int("relationships", len(g.Relationships)),
		slog.String("checksum", checksum.Short(data)))
}

// storageWarn reports a persistence failure without surfacing it to the
// caller; the in-memory graph stays authoritative.
func (s *Service) storageWarn(op string, err error) {
	s.logger.Warn("storage: "+op+" failed", slog.String("error", err.Error()))
	if s.events != nil {
		s.events.Publish(sse.Event{
			Type: sse.EventStorageWarning,
			Data: map[string]string{"op": op, "error": err.Error()},
		})
	}
}

func (s *Service) publish(kind string, data interface{}) {
	if s.events != nil {
		s.events.PublishChange(kind, data)
	}
}

// Graph returns the current graph with its checksum and history state.
func (s *Service) Graph(_ context.Context) GraphState {
	g := s.history.Store().Graph()
	data, _ := persist.EncodeGraph(g)
	return GraphState{
		Graph:    g,
		Checksum: checksum.Sum(data),
		CanUndo:  s.history.CanUndo(),
		CanRedo:  s.history.CanRedo(),
	}
}

// AddPerson adds a person and announces the change.
func (s *Service) AddPerson(_ context.Context, p models.Person) (models.Person, error) {
	added, err := s.history.AddPerson(p)
	if err != nil {
		return models.Person{}, err
	}
	s.publish(sse.EventPersonCreated, map[string]string{"id": added.ID})
	return added, nil
}

// UpdatePerson applies a partial update to an existing person.
func (s *Service) UpdatePerson(_ context.Context, id string, patch graphstore.PersonPatch) (models.Person, error) {
	updated, err := s.history.UpdatePerson(id, patch)
	if err != nil {
		return models.Person{}, err
	}
	s.publish(sse.EventPersonUpdated, map[string]string{"id": updated.ID})
	return updated, nil
}

// RemovePerson deletes a person and all relationships touching them.
// Removing an unknown id is a no-op.
func (s *Service) RemovePerson(_ context.Context, id string) bool {
	removed := s.history.RemovePerson(id)
	if removed {
		s.publish(sse.EventPersonDeleted, map[string]string{"id": id})
	}
	return removed
}

// RemoveAllRelationshipsOf drops every relationship touching the person and
// reports how many were removed.
func (s *Service) RemoveAllRelationshipsOf(_ context.Context, id string) int {
	n := s.history.RemoveAllRelationshipsOf(id)
	if n > 0 {
		s.publish(sse.EventRelationshipDeleted, map[string]interface{}{"personId": id, "count": n})
	}
	return n
}

// UpsertRelationship creates a relationship or, when one with the same
// endpoints and kind exists in either direction, updates its strength.
func (s *Service) UpsertRelationship(_ context.Context, r models.Relationship) (models.Relationship, error) {
	stored, err := s.history.UpsertRelationship(r)
	if err != nil {
		return models.Relationship{}, err
	}
	s.publish(sse.EventRelationshipUpsert, map[string]string{"id": stored.ID})
	return stored, nil
}

// RemoveRelationship deletes a relationship by id. Unknown ids are a no-op.
func (s *Service) RemoveRelationship(_ context.Context, id string) bool {
	removed := s.history.RemoveRelationship(id)
	if removed {
		s.publish(sse.EventRelationshipDeleted, map[string]string{"id": id})
	}
	return removed
}

// ReplaceGraph swaps the whole graph after integrity checks.
func (s *Service) ReplaceGraph(_ context.Context, g models.Graph) error {
	if err := s.history.ReplaceGraph(g); err != nil {
		return err
	}
	s.publish(sse.EventGraphReplaced, map[string]int{
		"persons":       len(g.People),
		"relationships": len(g.Relationships),
	})
	return nil
}

// ImportGraph decodes an exported document and replaces the graph with it.
// A persisted focus that no longer resolves in the new graph is cleared.
func (s *Service) ImportGraph(ctx context.Context, data []byte) error {
	g, err := persist.DecodeGraph(data)
	if err != nil {
		return err
	}
	if err := s.ReplaceGraph(ctx, g); err != nil {
		return err
	}
	prefs := s.Prefs(ctx)
	if prefs.FocusID != "" && !g.HasPerson(prefs.FocusID) {
		prefs.FocusID = ""
		if err := s.SetPrefs(ctx, prefs); err != nil {
			s.logger.Warn("import: clearing stale focus failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

// ExportGraph serializes the current graph and returns its digest.
func (s *Service) ExportGraph(_ context.Context) ([]byte, string, error) {
	data, err := persist.EncodeGraph(s.history.Store().Graph())
	if err != nil {
		return nil, "", err
	}
	return data, checksum.Sum(data), nil
}

// Undo reverts the last recorded mutation. Returns the resulting graph and
// whether anything was undone.
func (s *Service) Undo(ctx context.Context) (GraphState, bool) {
	applied := s.history.Undo()
	if applied {
		s.publish(sse.EventHistoryUndo, map[string]string{})
	}
	return s.Graph(ctx), applied
}

// Redo re-applies the last undone mutation.
func (s *Service) Redo(ctx context.Context) (GraphState, bool) {
	applied := s.history.Redo()
	if applied {
		s.publish(sse.EventHistoryRedo, map[string]string{})
	}
	return s.Graph(ctx), applied
}

// Neighborhood resolves per-element visibility for the explorer view.
func (s *Service) Neighborhood(_ context.Context, req graphstore.NeighborhoodRequest) graphstore.NeighborhoodView {
	return graphstore.ResolveNeighborhood(s.history.Store().Graph(), req)
}

// Gallery filters and sorts the people list for the gallery view.
func (s *Service) Gallery(_ context.Context, c gallery.Criteria) []models.Person {
	return gallery.Apply(s.history.Store().Graph().People, c)
}

// Prefs loads the persisted UI preferences, falling back to defaults.
func (s *Service) Prefs(_ context.Context) persist.Prefs {
	data, ok, err := s.db.Load(persist.KeyPrefs)
	if err != nil {
		s.storageWarn("load prefs", err)
		return persist.DefaultPrefs()
	}
	if !ok {
		return persist.DefaultPrefs()
	}
	return persist.DecodePrefs(data)
}

// SetPrefs persists the UI preferences immediately.
func (s *Service) SetPrefs(_ context.Context, p persist.Prefs) error {
	data, err := persist.EncodePrefs(p)
	if err != nil {
		return err
	}
	if err := s.db.Save(persist.KeyPrefs, data); err != nil {
		s.storageWarn("save prefs", err)
		return err
	}
	return nil
}

// Background loads the gallery backdrop. Absent values resolve to an empty
// image at full strength.
func (s *Service) Background(_ context.Context) Background {
	bg := Background{Opacity: 1}
	if data, ok, err := s.db.Load(persist.KeyBgImage); err != nil {
		s.storageWarn("load background", err)
	} else if ok {
		bg.Image = string(data)
	}
	if data, ok, err := s.db.Load(persist.KeyBgOpacity); err != nil {
		s.storageWarn("load background", err)
	} else if ok {
		if v, perr := strconv.ParseFloat(string(data), 64); perr == nil && v >= 0 && v <= 1 {
			bg.Opacity = v
		}
	}
	return bg
}

// SetBackground persists the gallery backdrop.
func (s *Service) SetBackground(_ context.Context, bg Background) error {
	if bg.Opacity < 0 {
		bg.Opacity = 0
	}
	if bg.Opacity > 1 {
		bg.Opacity = 1
	}
	if err := s.db.Save(persist.KeyBgImage, []byte(bg.Image)); err != nil {
		s.storageWarn("save background", err)
		return err
	}
	if err := s.db.Save(persist.KeyBgOpacity, []byte(strconv.FormatFloat(bg.Opacity, 'f', -1, 64))); err != nil {
		s.storageWarn("save background", err)
		return err
	}
	return nil
}

// ClearBackground removes the gallery backdrop.
func (s *Service) ClearBackground(_ context.Context) error {
	if err := s.db.Delete(persist.KeyBgImage); err != nil {
		s.storageWarn("clear background", err)
		return err
	}
	if err := s.db.Delete(persist.KeyBgOpacity); err != nil {
		s.storageWarn("clear background", err)
		return err
	}
	return nil
}

// Flush forces any debounced graph write to disk. Called on shutdown.
func (s *Service) Flush() {
	s.saver.Flush()
}
