package persist

import (
	"encoding/json"

	"github.com/ElsonGrn/sims-explorer/internal/apperr"
	"github.com/ElsonGrn/sims-explorer/internal/models"
)

// rawPerson tolerates snapshots written before newer fields existed.
type rawPerson struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Image      string             `json:"image"`
	Alive      *bool              `json:"alive"`
	Attributes []models.Attribute `json:"attributes"`
}

type rawRelationship struct {
	ID       string      `json:"id"`
	Source   string      `json:"source"`
	Target   string      `json:"target"`
	Kind     models.Kind `json:"kind"`
	Strength *float64    `json:"strength"`
}

type rawGraph struct {
	Nodes json.RawMessage `json:"nodes"`
	Edges json.RawMessage `json:"edges"`
}

// EncodeGraph serializes the graph as the canonical {nodes, edges}
// document. The output doubles as the export file format, hence the
// indentation.
func EncodeGraph(g models.Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// DecodeGraph parses a {nodes, edges} document, backfilling fields absent
// in older snapshots: alive defaults to true, attributes to the empty list,
// missing edge ids are derived from the (source, target, kind) triple and
// strength is defaulted and clamped. Edge kinds must come from the catalog,
// matching what the mutation path accepts. Both top-level keys must be
// present and be lists; referential integrity is the store's concern.
func DecodeGraph(data []byte) (models.Graph, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Graph{}, apperr.Validation("graph", "not a JSON object: "+err.Error())
	}
	if raw.Nodes == nil || raw.Edges == nil {
		return models.Graph{}, apperr.Validation("graph", "expected 'nodes' and 'edges' keys")
	}

	var nodes []rawPerson
	if err := json.Unmarshal(raw.Nodes, &nodes); err != nil {
		return models.Graph{}, apperr.Validation("nodes", "must be a list: "+err.Error())
	}
	var edges []rawRelationship
	if err := json.Unmarshal(raw.Edges, &edges); err != nil {
		return models.Graph{}, apperr.Validation("edges", "must be a list: "+err.Error())
	}

	g := models.Graph{
		People:        make([]models.Person, 0, len(nodes)),
		Relationships: make([]models.Relationship, 0, len(edges)),
	}
	for _, n := range nodes {
		if n.ID == "" {
			return models.Graph{}, apperr.Validation("nodes", "person without id")
		}
		p := models.Person{
			ID:         n.ID,
			Label:      n.Label,
			Image:      n.Image,
			Alive:      n.Alive == nil || *n.Alive,
			Attributes: n.Attributes,
		}
		if p.Label == "" {
			p.Label = p.ID
		}
		if p.Attributes == nil {
			p.Attributes = []models.Attribute{}
		}
		g.People = append(g.People, p)
	}
	for _, e := range edges {
		if !models.KnownKind(e.Kind) {
			return models.Graph{}, apperr.Validation("edges", "unknown relationship kind "+string(e.Kind))
		}
		r := models.Relationship{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Kind:     e.Kind,
			Strength: 0.5,
		}
		if e.Strength != nil {
			r.Strength = *e.Strength
		}
		if r.Strength < 0 {
			r.Strength = 0
		}
		if r.Strength > 1 {
			r.Strength = 1
		}
		if r.ID == "" {
			r.ID = models.TripleID(r.Source, r.Target, r.Kind)
		}
		g.Relationships = append(g.Relationships, r)
	}
	return g, nil
}

// EncodePrefs serializes the UI preference document.
func EncodePrefs(p Prefs) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePrefs parses a preference blob, falling back to defaults when it is
// absent or corrupt. Preference corruption is never an error condition.
func DecodePrefs(data []byte) Prefs {
	p := DefaultPrefs()
	if len(data) == 0 {
		return p
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPrefs()
	}
	if p.Depth < 1 || p.Depth > 3 {
		p.Depth = 1
	}
	return p
}
