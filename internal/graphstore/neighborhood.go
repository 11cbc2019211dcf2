package graphstore

import "github.com/ElsonGrn/sims-explorer/internal/models"

// Visibility classifies a person or edge for the diagram renderer.
type Visibility int

const (
	// Shown: rendered at normal prominence.
	Shown Visibility = iota
	// Hidden: excluded from layout entirely.
	Hidden
	// Emphasized: the focus node and its direct neighborhood in dim mode.
	Emphasized
	// Dimmed: rendered at reduced prominence.
	Dimmed
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Emphasized:
		return "emphasized"
	case Dimmed:
		return "dimmed"
	default:
		return "shown"
	}
}

// NeighborhoodRequest is the diagram view configuration.
type NeighborhoodRequest struct {
	FocusID string
	// Depth is the BFS hop bound, clamped to [1, 3]. Only consulted in
	// only-neighborhood mode.
	Depth            int
	OnlyNeighborhood bool
	// VisibleKinds restricts the edge set; nil or empty means all kinds.
	VisibleKinds map[models.Kind]bool
}

// NeighborhoodView maps every person and edge id to its visibility.
type NeighborhoodView struct {
	FocusID string                `json:"focus"`
	Persons map[string]Visibility `json:"-"`
	Edges   map[string]Visibility `json:"-"`
}

// ResolveNeighborhood computes the visible/dimmed classification of the
// graph for the diagram view. A focus id that does not resolve to a person
// is treated as no focus. The traversal is an undirected BFS over the
// kind-filtered edge set; neighbor order follows edge insertion order,
// which affects traversal order but not the visited set.
func ResolveNeighborhood(g models.Graph, req NeighborhoodRequest) NeighborhoodView {
	view := NeighborhoodView{
		Persons: make(map[string]Visibility, len(g.People)),
		Edges:   make(map[string]Visibility, len(g.Relationships)),
	}

	kindVisible := func(k models.Kind) bool {
		return len(req.VisibleKinds) == 0 || req.VisibleKinds[k]
	}

	// Kind-filtered edges are hidden regardless of focus state.
	visibleEdges := make([]models.Relationship, 0, len(g.Relationships))
	for _, r := range g.Relationships {
		if kindVisible(r.Kind) {
			visibleEdges = append(visibleEdges, r)
			view.Edges[r.ID] = Shown
		} else {
			view.Edges[r.ID] = Hidden
		}
	}
	for _, p := range g.People {
		view.Persons[p.ID] = Shown
	}

	if req.FocusID == "" || !g.HasPerson(req.FocusID) {
		return view
	}
	view.FocusID = req.FocusID

	if req.OnlyNeighborhood {
		resolveHideMode(&view, visibleEdges, req)
	} else {
		resolveDimMode(&view, visibleEdges, req.FocusID)
	}
	return view
}

// resolveHideMode keeps only the bounded BFS neighborhood of the focus:
// visited persons and traversed edges are shown, everything else is hidden.
// An edge joining two already-visited nodes is not traversed and stays
// hidden even when both endpoints are shown.
func resolveHideMode(view *NeighborhoodView, edges []models.Relationship, req NeighborhoodRequest) {
	depth := req.Depth
	if depth < 1 {
		depth = 1
	}
	if depth > 3 {
		depth = 3
	}

	type hop struct {
		edge  models.Relationship
		other string
	}
	adj := make(map[string][]hop)
	for _, r := range edges {
		adj[r.Source] = append(adj[r.Source], hop{edge: r, other: r.Target})
		adj[r.Target] = append(adj[r.Target], hop{edge: r, other: r.Source})
	}

	visited := map[string]bool{req.FocusID: true}
	traversed := map[string]bool{}
	frontier := []string{req.FocusID}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, h := range adj[id] {
				if visited[h.other] {
					continue
				}
				visited[h.other] = true
				traversed[h.edge.ID] = true
				next = append(next, h.other)
			}
		}
		frontier = next
	}

	for id := range view.Persons {
		if !visited[id] {
			view.Persons[id] = Hidden
		}
	}
	for _, r := range edges {
		if !traversed[r.ID] {
			view.Edges[r.ID] = Hidden
		}
	}
	view.Persons[req.FocusID] = Emphasized
}

// resolveDimMode keeps everything rendered: the focus and its direct closed
// neighborhood are emphasized, the rest dimmed. Hop depth is not consulted
// in this mode.
func resolveDimMode(view *NeighborhoodView, edges []models.Relationship, focusID string) {
	near := map[string]bool{focusID: true}
	incident := map[string]bool{}
	for _, r := range edges {
		if r.Touches(focusID) {
			incident[r.ID] = true
			near[r.Source] = true
			near[r.Target] = true
		}
	}

	for id := range view.Persons {
		if near[id] {
			view.Persons[id] = Emphasized
		} else {
			view.Persons[id] = Dimmed
		}
	}
	for _, r := range edges {
		if !incident[r.ID] {
			view.Edges[r.ID] = Dimmed
		}
	}
}
