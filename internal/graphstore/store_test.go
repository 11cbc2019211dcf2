package graphstore

import (
	"errors"
	"testing"

	"github.com/ElsonGrn/sims-explorer/internal/apperr"
	"github.com/ElsonGrn/sims-explorer/internal/models"
)

func seedGraph() models.Graph {
	return models.Graph{
		People: []models.Person{
			{ID: "ann", Label: "Ann", Alive: true, Attributes: []models.Attribute{}},
			{ID: "bob", Label: "Bob", Alive: true, Attributes: []models.Attribute{}},
			{ID: "cleo", Label: "Cleo", Alive: true, Attributes: []models.Attribute{}},
		},
		Relationships: []models.Relationship{
			{ID: "r1", Source: "ann", Target: "bob", Kind: models.KindFriend, Strength: 0.8},
			{ID: "r2", Source: "bob", Target: "cleo", Kind: models.KindRivalry, Strength: 0.4},
		},
	}
}

func TestAddPersonDerivesID(t *testing.T) {
	s := New(seedGraph())
	p, err := s.AddPerson(models.Person{Label: "Don Lothario", Alive: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "don-lothario" {
		t.Errorf("id = %q, want don-lothario", p.ID)
	}
	if p.Attributes == nil {
		t.Error("attributes not defaulted to empty list")
	}
}

func TestAddPersonDuplicateID(t *testing.T) {
	s := New(seedGraph())
	_, err := s.AddPerson(models.Person{ID: "ann", Label: "Another Ann", Alive: true})
	if !errors.Is(err, apperr.ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestUpdatePersonMergesPatch(t *testing.T) {
	s := New(seedGraph())
	label := "Annabel"
	alive := false
	p, err := s.UpdatePerson("ann", PersonPatch{Label: &label, Alive: &alive})
	if err != nil {
		t.Fatal(err)
	}
	if p.Label != "Annabel" || p.Alive {
		t.Errorf("patched person = %+v", p)
	}
	// Untouched fields survive.
	if p.ID != "ann" {
		t.Errorf("id changed to %q", p.ID)
	}
}

func TestUpdatePersonNotFound(t *testing.T) {
	s := New(seedGraph())
	_, err := s.UpdatePerson("ghost", PersonPatch{})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemovePersonCascades(t *testing.T) {
	s := New(seedGraph())
	if !s.RemovePerson("bob") {
		t.Fatal("remove reported no change")
	}
	g := s.Graph()
	if len(g.People) != 2 {
		t.Errorf("people = %d, want 2", len(g.People))
	}
	if len(g.Relationships) != 0 {
		t.Errorf("relationships = %d, want 0 after cascade", len(g.Relationships))
	}
}

func TestRemovePersonIdempotent(t *testing.T) {
	s := New(seedGraph())
	if s.RemovePerson("ghost") {
		t.Error("removing unknown person reported a change")
	}
	s.RemovePerson("ann")
	if s.RemovePerson("ann") {
		t.Error("second remove reported a change")
	}
}

func TestUpsertRelationshipUpdatesReversedTriple(t *testing.T) {
	s := New(seedGraph())
	// Same pair and kind as r1, endpoints swapped: strength update, no new edge.
	r, err := s.UpsertRelationship(models.Relationship{
		Source: "bob", Target: "ann", Kind: models.KindFriend, Strength: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "r1" {
		t.Errorf("id = %q, want existing r1", r.ID)
	}
	if r.Strength != 0.2 {
		t.Errorf("strength = %v, want 0.2", r.Strength)
	}
	if got := len(s.Graph().Relationships); got != 2 {
		t.Errorf("relationships = %d, want 2", got)
	}
}

func TestUpsertRelationshipNewKindSamePair(t *testing.T) {
	s := New(seedGraph())
	r, err := s.UpsertRelationship(models.Relationship{
		Source: "ann", Target: "bob", Kind: models.KindRoommate, Strength: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "ann-bob-roommate" {
		t.Errorf("id = %q, want derived triple id", r.ID)
	}
	if got := len(s.Graph().Relationships); got != 3 {
		t.Errorf("relationships = %d, want 3", got)
	}
}

func TestUpsertRelationshipUnknownEndpoint(t *testing.T) {
	s := New(seedGraph())
	_, err := s.UpsertRelationship(models.Relationship{
		Source: "ann", Target: "ghost", Kind: models.KindFriend,
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestRemoveAllRelationshipsOf(t *testing.T) {
	s := New(seedGraph())
	if n := s.RemoveAllRelationshipsOf("bob"); n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	if n := s.RemoveAllRelationshipsOf("bob"); n != 0 {
		t.Errorf("second pass removed = %d, want 0", n)
	}
	if got := len(s.Graph().People); got != 3 {
		t.Errorf("people = %d, the person itself must survive", got)
	}
}

func TestReplaceGraphRejectsDanglingEdges(t *testing.T) {
	s := New(seedGraph())
	bad := models.Graph{
		People: []models.Person{
			{ID: "solo", Label: "Solo", Alive: true, Attributes: []models.Attribute{}},
		},
		Relationships: []models.Relationship{
			{ID: "bad1", Source: "solo", Target: "ghost", Kind: models.KindFriend},
			{ID: "bad2", Source: "ghost", Target: "solo", Kind: models.KindEnemy},
		},
	}
	err := s.ReplaceGraph(bad)
	var invalid *apperr.InvalidGraphError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidGraphError", err)
	}
	if len(invalid.EdgeIDs) != 2 {
		t.Errorf("dangling = %v, want both bad edges", invalid.EdgeIDs)
	}
	// The rejected replace must leave the old graph intact.
	if got := len(s.Graph().People); got != 3 {
		t.Errorf("people = %d after failed replace, want 3", got)
	}
}

func TestReplaceGraphRejectsDuplicateIDs(t *testing.T) {
	s := New(seedGraph())
	dupPeople := models.Graph{
		People: []models.Person{
			{ID: "ann", Label: "Ann", Alive: true, Attributes: []models.Attribute{}},
			{ID: "ann", Label: "Other Ann", Alive: true, Attributes: []models.Attribute{}},
		},
		Relationships: []models.Relationship{},
	}
	if err := s.ReplaceGraph(dupPeople); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for duplicate person id", err)
	}
	if got := len(s.Graph().People); got != 3 {
		t.Errorf("people = %d after failed replace, want 3", got)
	}

	dupEdges := seedGraph()
	dupEdges.Relationships = append(dupEdges.Relationships,
		models.Relationship{ID: "r1", Source: "ann", Target: "cleo", Kind: models.KindNeighbor, Strength: 0.5})
	if err := s.ReplaceGraph(dupEdges); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for duplicate edge id", err)
	}
}

func TestUpdatePersonCopiesNumberAttribute(t *testing.T) {
	s := New(seedGraph())
	age := 24.0
	if _, err := s.UpdatePerson("ann", PersonPatch{
		Attributes: []models.Attribute{{Kind: "age", Type: models.AttrNumber, Number: &age}},
	}); err != nil {
		t.Fatal(err)
	}

	age = 99
	got := s.Graph().People[0].Attributes[0].Number
	if got == nil || *got != 24 {
		t.Errorf("stored age = %v, caller's pointer mutation leaked into the store", got)
	}
}

func TestGraphReturnsDeepCopy(t *testing.T) {
	s := New(seedGraph())
	g := s.Graph()
	g.People[0].Label = "mutated"
	g.Relationships[0].Strength = 0
	fresh := s.Graph()
	if fresh.People[0].Label != "Ann" {
		t.Error("external mutation leaked into the store")
	}
	if fresh.Relationships[0].Strength != 0.8 {
		t.Error("external edge mutation leaked into the store")
	}
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	s := New(seedGraph())
	var got []int
	s.Subscribe(func(g models.Graph) {
		got = append(got, len(g.People))
	})
	if _, err := s.AddPerson(models.Person{Label: "Don", Alive: true}); err != nil {
		t.Fatal(err)
	}
	s.RemovePerson("don")
	if len(got) != 2 || got[0] != 4 || got[1] != 3 {
		t.Errorf("subscriber snapshots = %v", got)
	}
}
