package persist

import (
	"errors"
	"strings"
	"testing"

	"github.com/ElsonGrn/sims-explorer/internal/apperr"
)

func TestDecodeGraphBackfillsDefaults(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": "ann"},
			{"id": "bob", "label": "Bob", "alive": false, "attributes": [
				{"kind": "job", "type": "text", "text": "Chef"}
			]}
		],
		"edges": [
			{"source": "ann", "target": "bob", "kind": "friend"}
		]
	}`
	g, err := DecodeGraph([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	ann := g.People[0]
	if !ann.Alive {
		t.Error("missing alive not backfilled to true")
	}
	if ann.Attributes == nil || len(ann.Attributes) != 0 {
		t.Errorf("missing attributes = %v, want empty list", ann.Attributes)
	}
	if ann.Label != "ann" {
		t.Errorf("missing label = %q, want the id", ann.Label)
	}

	bob := g.People[1]
	if bob.Alive {
		t.Error("explicit alive=false overwritten")
	}

	e := g.Relationships[0]
	if e.ID != "ann-bob-friend" {
		t.Errorf("edge id = %q, want derived triple id", e.ID)
	}
	if e.Strength != 0.5 {
		t.Errorf("strength = %v, want default 0.5", e.Strength)
	}
}

func TestDecodeGraphClampsStrength(t *testing.T) {
	doc := `{
		"nodes": [{"id": "a"}, {"id": "b"}],
		"edges": [
			{"id": "hot", "source": "a", "target": "b", "kind": "romantic", "strength": 7},
			{"id": "cold", "source": "a", "target": "b", "kind": "ex", "strength": -1}
		]
	}`
	g, err := DecodeGraph([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if g.Relationships[0].Strength != 1 {
		t.Errorf("over strength = %v, want 1", g.Relationships[0].Strength)
	}
	if g.Relationships[1].Strength != 0 {
		t.Errorf("under strength = %v, want 0", g.Relationships[1].Strength)
	}
}

func TestDecodeGraphRejectsMalformedShapes(t *testing.T) {
	cases := []string{
		`not json`,
		`{"nodes": []}`,
		`{"edges": []}`,
		`{"nodes": {}, "edges": []}`,
		`{"nodes": [], "edges": "x"}`,
		`{"nodes": [{"label": "no id"}], "edges": []}`,
		`{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b", "kind": "frenemy"}]}`,
	}
	for _, doc := range cases {
		if _, err := DecodeGraph([]byte(doc)); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("DecodeGraph(%q) err = %v, want validation error", doc, err)
		}
	}
}

func TestEncodeDecodeGraphRoundTrip(t *testing.T) {
	doc := `{
		"nodes": [{"id": "ann", "label": "Ann", "alive": true}],
		"edges": []
	}`
	g, err := DecodeGraph([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	data, err := EncodeGraph(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"nodes"`) || !strings.Contains(string(data), `"edges"`) {
		t.Errorf("encoded document missing canonical keys: %s", data)
	}
	back, err := DecodeGraph(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.People) != 1 || back.People[0].ID != "ann" {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestDecodePrefsFallsBackToDefaults(t *testing.T) {
	if got := DecodePrefs(nil); got != DefaultPrefs() {
		t.Errorf("nil prefs = %+v", got)
	}
	if got := DecodePrefs([]byte("garbage")); got != DefaultPrefs() {
		t.Errorf("corrupt prefs = %+v", got)
	}
	if got := DecodePrefs([]byte(`{"view":"gallery","depth":99}`)); got.Depth != 1 {
		t.Errorf("out-of-range depth = %d, want reset to 1", got.Depth)
	}
}

func TestDecodePrefsKeepsStoredValues(t *testing.T) {
	got := DecodePrefs([]byte(`{"view":"gallery","focusId":"ann","depth":2,"onlyNeighborhood":false}`))
	if got.View != "gallery" || got.FocusID != "ann" || got.Depth != 2 || got.OnlyNeighborhood {
		t.Errorf("prefs = %+v", got)
	}
}
