// Package gallery derives the ordered card list from the graph's people.
// It is a pure read-side projection and never mutates its input.
package gallery

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ElsonGrn/sims-explorer/internal/models"
)

// Status filters on the alive flag.
type Status string

const (
	StatusAll   Status = "all"
	StatusAlive Status = "alive"
	StatusDead  Status = "dead"
)

// SortKey selects the card ordering. Name is the universal tie-break.
type SortKey string

const (
	SortNameAsc    SortKey = "name_asc"
	SortNameDesc   SortKey = "name_desc"
	SortAgeAsc     SortKey = "age_asc"
	SortAgeDesc    SortKey = "age_desc"
	SortAliveFirst SortKey = "alive_first"
	SortOccultName SortKey = "occult_name"
)

// Criteria is the gallery query. The filter steps are independent; applying
// them in any order yields the same set.
type Criteria struct {
	// Search matches case-insensitively against the label and every
	// textual or tag attribute value.
	Search string
	Status Status
	// Occult restricts to the given categorical values; empty means all.
	Occult map[string]bool
	// TagSubstring matches case-insensitively against any tag value.
	TagSubstring string
	Sort         SortKey
}

// Apply filters and sorts the given people per the criteria. The input
// slice is not modified.
func Apply(people []models.Person, c Criteria) []models.Person {
	out := make([]models.Person, 0, len(people))
	for _, p := range people {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	sortPeople(out, c.Sort)
	return out
}

func matches(p models.Person, c Criteria) bool {
	switch c.Status {
	case StatusAlive:
		if !p.Alive {
			return false
		}
	case StatusDead:
		if p.Alive {
			return false
		}
	}

	if len(c.Occult) > 0 && !c.Occult[Occult(p)] {
		return false
	}

	if sub := strings.ToLower(strings.TrimSpace(c.TagSubstring)); sub != "" {
		found := false
		for _, tag := range tagValues(p) {
			if strings.Contains(strings.ToLower(tag), sub) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		found := strings.Contains(strings.ToLower(p.Label), q)
		for _, v := range textValues(p) {
			if found {
				break
			}
			found = strings.Contains(strings.ToLower(v), q)
		}
		if !found {
			return false
		}
	}

	return true
}

// Occult returns the person's occult category, defaulting when unset.
func Occult(p models.Person) string {
	if a, ok := p.Attribute(models.FieldOccult); ok && a.Text != "" {
		return a.Text
	}
	return models.DefaultOccult
}

// Age returns the numeric age attribute, nil when missing or empty.
func Age(p models.Person) *float64 {
	if a, ok := p.Attribute(models.FieldAge); ok {
		return a.Number
	}
	return nil
}

func tagValues(p models.Person) []string {
	var out []string
	for _, a := range p.Attributes {
		if a.Type == models.AttrTags {
			out = append(out, a.Tags...)
		}
	}
	return out
}

func textValues(p models.Person) []string {
	var out []string
	for _, a := range p.Attributes {
		switch a.Type {
		case models.AttrText, models.AttrSelect, models.AttrTextarea:
			if a.Text != "" {
				out = append(out, a.Text)
			}
		case models.AttrTags:
			out = append(out, a.Tags...)
		}
	}
	return out
}

func sortPeople(people []models.Person, key SortKey) {
	coll := collate.New(language.Und, collate.Loose)
	byName := func(a, b models.Person) int {
		return coll.CompareString(a.Label, b.Label)
	}

	sort.SliceStable(people, func(i, j int) bool {
		a, b := people[i], people[j]
		switch key {
		case SortNameDesc:
			return byName(a, b) > 0
		case SortAgeAsc, SortAgeDesc:
			// Missing ages sort last under both directions.
			av, bv := Age(a), Age(b)
			switch {
			case av == nil && bv == nil:
				return byName(a, b) < 0
			case av == nil:
				return false
			case bv == nil:
				return true
			case *av != *bv:
				if key == SortAgeDesc {
					return *av > *bv
				}
				return *av < *bv
			}
			return byName(a, b) < 0
		case SortAliveFirst:
			if a.Alive != b.Alive {
				return a.Alive
			}
			return byName(a, b) < 0
		case SortOccultName:
			if c := coll.CompareString(Occult(a), Occult(b)); c != 0 {
				return c < 0
			}
			return byName(a, b) < 0
		default:
			return byName(a, b) < 0
		}
	})
}
