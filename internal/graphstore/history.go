package graphstore

import (
	"sync"

	"github.com/ElsonGrn/sims-explorer/internal/models"
)

// maxSnapshots bounds the undo stack; the oldest entry is discarded on
// overflow.
const maxSnapshots = 50

// History provides linear undo/redo over whole-graph snapshots by wrapping
// the Store's mutation API. Snapshots are full deep copies captured before
// each mutation; any new mutation clears the redo stack.
type History struct {
	store *Store

	mu   sync.Mutex // serializes snapshot-then-mutate
	undo []models.Graph
	redo []models.Graph
}

// NewHistory wraps the given store.
func NewHistory(store *Store) *History {
	return &History{store: store}
}

// Store exposes the wrapped store for read-only access.
func (h *History) Store() *Store { return h.store }

// record pushes the pre-mutation snapshot and clears the redo stack.
// Called only after the mutation succeeded and changed something.
func (h *History) record(before models.Graph) {
	h.undo = append(h.undo, before)
	if len(h.undo) > maxSnapshots {
		h.undo = h.undo[len(h.undo)-maxSnapshots:]
	}
	h.redo = nil
}

// AddPerson is the history-tracked Store.AddPerson.
func (h *History) AddPerson(input models.Person) (models.Person, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	p, err := h.store.AddPerson(input)
	if err != nil {
		return models.Person{}, err
	}
	h.record(before)
	return p, nil
}

// UpdatePerson is the history-tracked Store.UpdatePerson.
func (h *History) UpdatePerson(id string, patch PersonPatch) (models.Person, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	p, err := h.store.UpdatePerson(id, patch)
	if err != nil {
		return models.Person{}, err
	}
	h.record(before)
	return p, nil
}

// RemovePerson is the history-tracked Store.RemovePerson. No-op deletes do
// not push a snapshot, so idempotent re-deletes leave history untouched.
func (h *History) RemovePerson(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	if !h.store.RemovePerson(id) {
		return false
	}
	h.record(before)
	return true
}

// RemoveAllRelationshipsOf is the history-tracked Store variant.
func (h *History) RemoveAllRelationshipsOf(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	n := h.store.RemoveAllRelationshipsOf(id)
	if n > 0 {
		h.record(before)
	}
	return n
}

// UpsertRelationship is the history-tracked Store.UpsertRelationship.
func (h *History) UpsertRelationship(input models.Relationship) (models.Relationship, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	r, err := h.store.UpsertRelationship(input)
	if err != nil {
		return models.Relationship{}, err
	}
	h.record(before)
	return r, nil
}

// RemoveRelationship is the history-tracked Store.RemoveRelationship.
func (h *History) RemoveRelationship(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	if !h.store.RemoveRelationship(id) {
		return false
	}
	h.record(before)
	return true
}

// ReplaceGraph is the history-tracked Store.ReplaceGraph, so imports are
// undoable like any other mutation.
func (h *History) ReplaceGraph(g models.Graph) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	before := h.store.Graph()
	if err := h.store.ReplaceGraph(g); err != nil {
		return err
	}
	h.record(before)
	return nil
}

// Undo restores the most recent snapshot and moves the current graph onto
// the redo stack. Returns false when there is nothing to undo.
func (h *History) Undo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return false
	}
	snapshot := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.store.Graph())
	h.store.restore(snapshot)
	return true
}

// Redo is the symmetric counterpart of Undo.
func (h *History) Redo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return false
	}
	snapshot := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.store.Graph())
	h.store.restore(snapshot)
	return true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}
