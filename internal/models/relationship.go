package models

import "fmt"

// Kind is the category of a relationship.
type Kind string

// Relationship kinds, grouped the way the legend presents them.
const (
	// Romance.
	KindMarried  Kind = "married"
	KindEngaged  Kind = "engaged"
	KindPartner  Kind = "partner"
	KindRomantic Kind = "romantic"
	KindCrush    Kind = "crush"
	KindEx       Kind = "ex"

	// Family.
	KindParent      Kind = "parent"
	KindChild       Kind = "child"
	KindSibling     Kind = "sibling"
	KindHalfSibling Kind = "halfsibling"
	KindStep        Kind = "steps"
	KindGrand       Kind = "grand"
	KindCousin      Kind = "cousin"
	KindInLaw       Kind = "inlaw"
	KindAdopted     Kind = "adopted"

	// Social.
	KindRoommate     Kind = "roommate"
	KindFriend       Kind = "friend"
	KindGoodFriend   Kind = "goodfriend"
	KindBestFriend   Kind = "bestfriend"
	KindAcquaintance Kind = "acquaintance"
	KindCoworker     Kind = "coworker"
	KindClassmate    Kind = "classmate"
	KindNeighbor     Kind = "neighbor"
	KindMentor       Kind = "mentor"

	// Drama.
	KindDisliked Kind = "disliked"
	KindEnemy    Kind = "enemy"
	KindRivalry  Kind = "rivalry"
	KindGrudge   Kind = "grudge"

	// Pets.
	KindOwnerPet Kind = "owner_pet"
)

// KindStyle carries the presentation metadata renderers consult for a kind.
// It is not part of the persisted graph.
type KindStyle struct {
	Kind      Kind   `json:"kind"`
	Group     string `json:"group"`
	Label     string `json:"label"`
	Emoji     string `json:"emoji"`
	Color     string `json:"color"`
	LineStyle string `json:"lineStyle"`
	Width     int    `json:"width"`
}

// KindCatalog lists every relationship kind with its presentation metadata,
// in legend order.
var KindCatalog = []KindStyle{
	{KindMarried, "romance", "Married", "💍", "#7c3aed", "solid", 4},
	{KindEngaged, "romance", "Engaged", "💎", "#8b5cf6", "solid", 3},
	{KindPartner, "romance", "Partner", "❤️", "#ef4444", "solid", 3},
	{KindRomantic, "romance", "Romantic", "❤️‍🔥", "#ef4444", "solid", 3},
	{KindCrush, "romance", "Crush", "💘", "#fb7185", "dotted", 2},
	{KindEx, "romance", "Ex", "💔", "#f97316", "dashed", 2},

	{KindParent, "family", "Parent/Child", "👪", "#0ea5e9", "solid", 3},
	{KindChild, "family", "Child", "🧒", "#38bdf8", "solid", 3},
	{KindSibling, "family", "Sibling", "👫", "#22c55e", "solid", 3},
	{KindHalfSibling, "family", "Half-sibling", "🧬", "#16a34a", "dashed", 2},
	{KindStep, "family", "Step-relation", "👨‍👩‍👧", "#10b981", "dashed", 2},
	{KindGrand, "family", "Grandparent/Grandchild", "👴", "#06b6d4", "solid", 3},
	{KindCousin, "family", "Cousin", "👫", "#14b8a6", "dotted", 2},
	{KindInLaw, "family", "In-law", "🤝", "#0d9488", "dotted", 2},
	{KindAdopted, "family", "Adopted", "🍼", "#22d3ee", "dashed", 2},

	{KindRoommate, "social", "Roommate", "🏠", "#60a5fa", "solid", 2},
	{KindFriend, "social", "Friend", "🤝", "#10b981", "dotted", 2},
	{KindGoodFriend, "social", "Good friends", "😊", "#34d399", "dotted", 2},
	{KindBestFriend, "social", "Best friends", "🌟", "#22c55e", "solid", 3},
	{KindAcquaintance, "social", "Acquaintance", "👋", "#9ca3af", "dotted", 1},
	{KindCoworker, "social", "Coworker", "💼", "#64748b", "dotted", 2},
	{KindClassmate, "social", "Classmate", "📚", "#94a3b8", "dotted", 2},
	{KindNeighbor, "social", "Neighbor", "🚪", "#93c5fd", "dotted", 2},
	{KindMentor, "social", "Mentor/Mentee", "🧠", "#7dd3fc", "solid", 2},

	{KindDisliked, "drama", "Disliked", "😒", "#9ca3af", "dashed", 2},
	{KindEnemy, "drama", "Enemy", "😡", "#111827", "dashed", 3},
	{KindRivalry, "drama", "Rivalry", "⚡", "#64748b", "dashed", 2},
	{KindGrudge, "drama", "Grudge", "🧨", "#ef4444", "dashed", 2},

	{KindOwnerPet, "pets", "Owner/Pet", "🐾", "#f59e0b", "solid", 2},
}

// KnownKind reports whether k is part of the catalog.
func KnownKind(k Kind) bool {
	for _, s := range KindCatalog {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// AllKinds returns the kind set in catalog order.
func AllKinds() []Kind {
	out := make([]Kind, len(KindCatalog))
	for i, s := range KindCatalog {
		out[i] = s.Kind
	}
	return out
}

// Relationship is a typed, weighted edge between two persons. It is stored
// as an ordered (source, target) pair but treated as undirected.
type Relationship struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     Kind    `json:"kind"`
	Strength float64 `json:"strength"`
}

// TripleID is the deterministic id derived from (source, target, kind),
// used when the caller supplies none.
func TripleID(source, target string, kind Kind) string {
	return fmt.Sprintf("%s-%s-%s", source, target, kind)
}

// SameTriple reports whether two relationships connect the same pair with
// the same kind, in either direction.
func (r Relationship) SameTriple(other Relationship) bool {
	if r.Kind != other.Kind {
		return false
	}
	if r.Source == other.Source && r.Target == other.Target {
		return true
	}
	return r.Source == other.Target && r.Target == other.Source
}

// Touches reports whether the edge has id as either endpoint.
func (r Relationship) Touches(id string) bool {
	return r.Source == id || r.Target == id
}
