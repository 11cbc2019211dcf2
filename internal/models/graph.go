package models

// Graph is the canonical pair of ordered collections. It is the sole unit
// of persistence and of undo/redo snapshotting. The JSON field names match
// the persisted document shape.
type Graph struct {
	People        []Person       `json:"nodes"`
	Relationships []Relationship `json:"edges"`
}

// Clone returns a deep copy. Snapshots, subscriber notifications and
// external reads all go through here so no caller ever aliases the
// store-owned slices.
func (g Graph) Clone() Graph {
	out := Graph{
		People:        make([]Person, len(g.People)),
		Relationships: make([]Relationship, len(g.Relationships)),
	}
	for i, p := range g.People {
		cp := p
		if p.Attributes != nil {
			cp.Attributes = make([]Attribute, len(p.Attributes))
			for j, a := range p.Attributes {
				ca := a
				if a.Tags != nil {
					ca.Tags = append([]string(nil), a.Tags...)
				}
				if a.Number != nil {
					n := *a.Number
					ca.Number = &n
				}
				cp.Attributes[j] = ca
			}
		}
		out.People[i] = cp
	}
	copy(out.Relationships, g.Relationships)
	return out
}

// Person returns the person with the given id.
func (g Graph) Person(id string) (Person, bool) {
	for _, p := range g.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// HasPerson reports whether a person with the given id exists.
func (g Graph) HasPerson(id string) bool {
	_, ok := g.Person(id)
	return ok
}

// Relationship returns the edge with the given id.
func (g Graph) Relationship(id string) (Relationship, bool) {
	for _, r := range g.Relationships {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// DanglingEdges returns the ids of edges whose source or target does not
// resolve to a person, preserving edge order.
func (g Graph) DanglingEdges() []string {
	ids := make(map[string]struct{}, len(g.People))
	for _, p := range g.People {
		ids[p.ID] = struct{}{}
	}
	var out []string
	for _, r := range g.Relationships {
		if _, ok := ids[r.Source]; !ok {
			out = append(out, r.ID)
			continue
		}
		if _, ok := ids[r.Target]; !ok {
			out = append(out, r.ID)
		}
	}
	return out
}

// DuplicatePersonIDs returns each person id that occurs more than once, in
// first-occurrence order.
func (g Graph) DuplicatePersonIDs() []string {
	seen := make(map[string]int, len(g.People))
	var out []string
	for _, p := range g.People {
		seen[p.ID]++
		if seen[p.ID] == 2 {
			out = append(out, p.ID)
		}
	}
	return out
}

// DuplicateRelationshipIDs returns each edge id that occurs more than once,
// in first-occurrence order.
func (g Graph) DuplicateRelationshipIDs() []string {
	seen := make(map[string]int, len(g.Relationships))
	var out []string
	for _, r := range g.Relationships {
		seen[r.ID]++
		if seen[r.ID] == 2 {
			out = append(out, r.ID)
		}
	}
	return out
}

// SampleGraph is the starter household loaded when the store is empty.
func SampleGraph() Graph {
	return Graph{
		People: []Person{
			{ID: "antonia", Label: "Antonia", Alive: true, Attributes: []Attribute{}},
			{ID: "livia", Label: "Livia", Alive: true, Attributes: []Attribute{}},
			{ID: "mimi", Label: "Mimi", Alive: true, Attributes: []Attribute{}},
			{ID: "elias", Label: "Elias", Alive: true, Attributes: []Attribute{}},
			{ID: "nico", Label: "Nico", Alive: true, Attributes: []Attribute{}},
			{ID: "hannah", Label: "Hannah", Alive: true, Attributes: []Attribute{}},
			{ID: "sofie", Label: "Sofie", Alive: true, Attributes: []Attribute{}},
		},
		Relationships: []Relationship{
			{ID: "e1", Source: "elias", Target: "antonia", Kind: KindRomantic, Strength: 0.9},
			{ID: "e2", Source: "elias", Target: "livia", Kind: KindRomantic, Strength: 0.6},
			{ID: "e3", Source: "elias", Target: "mimi", Kind: KindEx, Strength: 0.3},
			{ID: "e4", Source: "antonia", Target: "livia", Kind: KindRivalry, Strength: 0.7},
			{ID: "e5", Source: "livia", Target: "mimi", Kind: KindFriend, Strength: 0.8},
			{ID: "e6", Source: "elias", Target: "hannah", Kind: KindMarried, Strength: 1},
			{ID: "e7", Source: "hannah", Target: "sofie", Kind: KindParent, Strength: 1},
			{ID: "e8", Source: "elias", Target: "sofie", Kind: KindParent, Strength: 1},
		},
	}
}
