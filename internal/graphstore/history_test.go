package graphstore

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ElsonGrn/sims-explorer/internal/models"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(New(seedGraph()))
	initial := h.Store().Graph()

	if _, err := h.AddPerson(models.Person{Label: "Don", Alive: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.UpsertRelationship(models.Relationship{
		Source: "don", Target: "ann", Kind: models.KindCrush, Strength: 0.9,
	}); err != nil {
		t.Fatal(err)
	}
	after := h.Store().Graph()

	if !h.Undo() || !h.Undo() {
		t.Fatal("expected two undos")
	}
	if !reflect.DeepEqual(h.Store().Graph(), initial) {
		t.Error("undo did not restore the initial graph")
	}
	if h.Undo() {
		t.Error("undo past the beginning reported a change")
	}

	if !h.Redo() || !h.Redo() {
		t.Fatal("expected two redos")
	}
	if !reflect.DeepEqual(h.Store().Graph(), after) {
		t.Error("redo did not restore the final graph")
	}
	if h.Redo() {
		t.Error("redo past the end reported a change")
	}
}

func TestNewMutationClearsRedo(t *testing.T) {
	h := NewHistory(New(seedGraph()))

	if _, err := h.AddPerson(models.Person{Label: "Don", Alive: true}); err != nil {
		t.Fatal(err)
	}
	if !h.Undo() {
		t.Fatal("undo failed")
	}
	if !h.CanRedo() {
		t.Fatal("redo should be available after undo")
	}

	if _, err := h.AddPerson(models.Person{Label: "Eliza", Alive: true}); err != nil {
		t.Fatal(err)
	}
	if h.CanRedo() {
		t.Error("redo survived a new mutation")
	}
}

func TestHistoryBound(t *testing.T) {
	h := NewHistory(New(models.Graph{}))

	for i := 0; i < maxSnapshots+10; i++ {
		if _, err := h.AddPerson(models.Person{Label: fmt.Sprintf("Person %d", i), Alive: true}); err != nil {
			t.Fatal(err)
		}
	}

	undone := 0
	for h.Undo() {
		undone++
	}
	if undone != maxSnapshots {
		t.Errorf("undo depth = %d, want %d", undone, maxSnapshots)
	}
	// The oldest snapshots were discarded: the first 10 additions persist.
	if got := len(h.Store().Graph().People); got != 10 {
		t.Errorf("people after exhaustive undo = %d, want 10", got)
	}
}

func TestNoopDeleteDoesNotRecord(t *testing.T) {
	h := NewHistory(New(seedGraph()))

	if h.RemovePerson("ghost") {
		t.Fatal("removing unknown person reported a change")
	}
	if h.RemoveRelationship("ghost-edge") {
		t.Fatal("removing unknown edge reported a change")
	}
	if h.CanUndo() {
		t.Error("no-op deletes pushed history snapshots")
	}
}

func TestFailedMutationDoesNotRecord(t *testing.T) {
	h := NewHistory(New(seedGraph()))
	if _, err := h.AddPerson(models.Person{ID: "ann", Label: "Clash", Alive: true}); err == nil {
		t.Fatal("duplicate add succeeded")
	}
	if h.CanUndo() {
		t.Error("failed mutation pushed a history snapshot")
	}
}

func TestReplaceGraphIsUndoable(t *testing.T) {
	h := NewHistory(New(seedGraph()))
	initial := h.Store().Graph()

	if err := h.ReplaceGraph(models.Graph{
		People: []models.Person{
			{ID: "solo", Label: "Solo", Alive: true, Attributes: []models.Attribute{}},
		},
		Relationships: []models.Relationship{},
	}); err != nil {
		t.Fatal(err)
	}
	if got := len(h.Store().Graph().People); got != 1 {
		t.Fatalf("people = %d after replace, want 1", got)
	}
	if !h.Undo() {
		t.Fatal("undo failed")
	}
	if !reflect.DeepEqual(h.Store().Graph(), initial) {
		t.Error("undo did not revert the replace")
	}
}
