// Package graphstore owns the canonical relationship graph. All mutation
// passes through the Store (usually via the History wrapper); every other
// component operates on the deep copies it hands out.
package graphstore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ElsonGrn/sims-explorer/internal/apperr"
	"github.com/ElsonGrn/sims-explorer/internal/models"
)

// Subscriber receives the new graph after every successful mutation.
// Subscribers must be idempotent with respect to repeated identical
// notifications.
type Subscriber func(models.Graph)

// Store is the sole owner of the canonical graph.
type Store struct {
	mu    sync.RWMutex
	graph models.Graph
	subs  []Subscriber
}

// New creates a Store seeded with a deep copy of initial.
func New(initial models.Graph) *Store {
	return &Store{graph: initial.Clone()}
}

// Subscribe registers a change listener. Registration order is notification
// order.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Graph returns a deep copy of the current graph.
func (s *Store) Graph() models.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Clone()
}

// notifyLocked clones the graph under the held lock and returns a closure
// that delivers it once the lock is released.
func (s *Store) notifyLocked() func() {
	snapshot := s.graph.Clone()
	subs := append([]Subscriber(nil), s.subs...)
	return func() {
		for _, fn := range subs {
			fn(snapshot)
		}
	}
}

// PersonPatch is a partial update for UpdatePerson. Nil fields are left
// unchanged; the person id is immutable.
type PersonPatch struct {
	Label      *string
	Image      *string
	Alive      *bool
	Attributes []models.Attribute
}

// AddPerson validates and appends a new person. When input.ID is empty an
// id is derived from the label. Fails with apperr.ErrDuplicateID when the
// id is already taken.
func (s *Store) AddPerson(input models.Person) (models.Person, error) {
	if input.ID == "" {
		input.ID = models.DeriveID(input.Label)
	}
	if input.Attributes == nil {
		input.Attributes = []models.Attribute{}
	}
	p, err := models.NormalizePerson(input)
	if err != nil {
		return models.Person{}, err
	}

	s.mu.Lock()
	if s.graph.HasPerson(p.ID) {
		s.mu.Unlock()
		return models.Person{}, fmt.Errorf("%w: %s", apperr.ErrDuplicateID, p.ID)
	}
	s.graph.People = append(s.graph.People, p)
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return p, nil
}

// UpdatePerson merges patch into the stored person and re-validates.
// Fails with apperr.ErrNotFound when the id is absent.
func (s *Store) UpdatePerson(id string, patch PersonPatch) (models.Person, error) {
	s.mu.Lock()
	idx := -1
	for i, p := range s.graph.People {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Person{}, fmt.Errorf("%w: person %s", apperr.ErrNotFound, id)
	}

	candidate := s.graph.People[idx]
	if patch.Label != nil {
		candidate.Label = *patch.Label
	}
	if patch.Image != nil {
		candidate.Image = *patch.Image
	}
	if patch.Alive != nil {
		candidate.Alive = *patch.Alive
	}
	if patch.Attributes != nil {
		candidate.Attributes = patch.Attributes
	}

	p, err := models.NormalizePerson(candidate)
	if err != nil {
		s.mu.Unlock()
		return models.Person{}, err
	}
	s.graph.People[idx] = p
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return p, nil
}

// RemovePerson deletes the person and cascades to every relationship
// touching it. Removing an absent id is a no-op, not an error; the return
// value reports whether anything changed.
func (s *Store) RemovePerson(id string) bool {
	s.mu.Lock()
	if !s.graph.HasPerson(id) {
		s.mu.Unlock()
		return false
	}
	people := s.graph.People[:0]
	for _, p := range s.graph.People {
		if p.ID != id {
			people = append(people, p)
		}
	}
	s.graph.People = people

	edges := s.graph.Relationships[:0]
	for _, r := range s.graph.Relationships {
		if !r.Touches(id) {
			edges = append(edges, r)
		}
	}
	s.graph.Relationships = edges
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return true
}

// RemoveAllRelationshipsOf deletes every relationship touching id without
// removing the person. Returns the number of removed edges.
func (s *Store) RemoveAllRelationshipsOf(id string) int {
	s.mu.Lock()
	edges := s.graph.Relationships[:0]
	removed := 0
	for _, r := range s.graph.Relationships {
		if r.Touches(id) {
			removed++
			continue
		}
		edges = append(edges, r)
	}
	s.graph.Relationships = edges
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return removed
}

// UpsertRelationship updates the strength of the relationship matching
// input's (source, target, kind) triple, or validates and appends a new one
// when no match exists. Both endpoints must resolve to known persons.
func (s *Store) UpsertRelationship(input models.Relationship) (models.Relationship, error) {
	r, err := models.NormalizeRelationship(input)
	if err != nil {
		return models.Relationship{}, err
	}

	s.mu.Lock()
	if !s.graph.HasPerson(r.Source) {
		s.mu.Unlock()
		return models.Relationship{}, apperr.Validation("source", "unknown person "+r.Source)
	}
	if !s.graph.HasPerson(r.Target) {
		s.mu.Unlock()
		return models.Relationship{}, apperr.Validation("target", "unknown person "+r.Target)
	}

	for i, existing := range s.graph.Relationships {
		if existing.SameTriple(r) {
			existing.Strength = r.Strength
			s.graph.Relationships[i] = existing
			notify := s.notifyLocked()
			s.mu.Unlock()
			notify()
			return existing, nil
		}
	}

	// Deterministic triple id clashing with an unrelated edge: fall back
	// to a random id rather than failing the insert.
	if _, taken := s.graph.Relationship(r.ID); taken {
		r.ID = models.RandomID()
	}
	s.graph.Relationships = append(s.graph.Relationships, r)
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return r, nil
}

// RemoveRelationship deletes the edge by id. Idempotent; the return value
// reports whether anything changed.
func (s *Store) RemoveRelationship(id string) bool {
	s.mu.Lock()
	edges := s.graph.Relationships[:0]
	removed := false
	for _, r := range s.graph.Relationships {
		if r.ID == id {
			removed = true
			continue
		}
		edges = append(edges, r)
	}
	s.graph.Relationships = edges
	if !removed {
		s.mu.Unlock()
		return false
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return true
}

// ReplaceGraph swaps in a whole new graph after strict integrity validation:
// ids must be unique within their collection and edges referencing unknown
// persons fail the call with an apperr.InvalidGraphError listing them.
// Nothing is silently dropped or deduplicated.
func (s *Store) ReplaceGraph(g models.Graph) error {
	if dup := g.DuplicatePersonIDs(); len(dup) > 0 {
		return apperr.Validation("nodes", "duplicate person id "+strings.Join(dup, ", "))
	}
	if dup := g.DuplicateRelationshipIDs(); len(dup) > 0 {
		return apperr.Validation("edges", "duplicate relationship id "+strings.Join(dup, ", "))
	}
	if dangling := g.DanglingEdges(); len(dangling) > 0 {
		return &apperr.InvalidGraphError{EdgeIDs: dangling}
	}

	s.mu.Lock()
	s.graph = g.Clone()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// restore swaps in a history snapshot without re-validation (it was valid
// when captured) and notifies subscribers.
func (s *Store) restore(g models.Graph) {
	s.mu.Lock()
	s.graph = g.Clone()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
}
