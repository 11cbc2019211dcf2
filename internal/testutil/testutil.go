// Package testutil provides shared test helpers for setting up stores and
// services.
package testutil

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ElsonGrn/sims-explorer/internal/graphstore"
	"github.com/ElsonGrn/sims-explorer/internal/models"
	"github.com/ElsonGrn/sims-explorer/internal/persist"
	"github.com/ElsonGrn/sims-explorer/internal/simservice"
)

// TestDB creates a temporary SQLite document store that is automatically
// cleaned up.
func TestDB(t *testing.T) *persist.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sims-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := persist.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// QuietLogger returns a logger that discards everything below error level.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestService builds a full service over a temp database, seeded with the
// given graph. Saves are debounced at 10ms so tests stay fast.
func TestService(t *testing.T, initial models.Graph) (*simservice.Service, *persist.DB) {
	t.Helper()
	db := TestDB(t)
	store := graphstore.New(initial)
	history := graphstore.NewHistory(store)
	svc := simservice.NewService(history, db, QuietLogger(), nil, 10*time.Millisecond)
	return svc, db
}

// TriangleGraph is a minimal three-person graph: ann and bob are friends,
// bob and cleo are rivals.
func TriangleGraph() models.Graph {
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
