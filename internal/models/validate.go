package models

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/ElsonGrn/sims-explorer/internal/apperr"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveID turns a display label into a stable id: lowercase, stripped to
// [a-z0-9-], hyphens trimmed. An empty result falls back to a random short
// identifier.
func DeriveID(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return RandomID()
	}
	return s
}

// RandomID returns a short random identifier.
func RandomID() string {
	id, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 8)
	if err != nil {
		// gonanoid only fails when the system entropy source does.
		panic(err)
	}
	return id
}

// NormalizePerson validates and coerces a candidate person. Tag attributes
// are trimmed and de-duplicated (case-sensitively), singleton kinds may
// appear at most once, and select values must come from the template's
// option set. The returned person is a cleaned copy; the input is not
// modified.
func NormalizePerson(p Person) (Person, error) {
	p.Label = strings.TrimSpace(p.Label)
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Label, validation.Required),
	); err != nil {
		return Person{}, apperr.Validation("person", err.Error())
	}

	seen := make(map[string]bool, len(p.Attributes))
	attrs := make([]Attribute, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		if a.Kind == "" {
			return Person{}, apperr.Validation("attributes", "attribute kind must not be empty")
		}
		if !a.Type.Known() {
			return Person{}, apperr.Validation("attributes", "unknown attribute type "+string(a.Type))
		}
		if tpl, ok := FieldTemplateFor(a.Kind); ok {
			if tpl.Type != a.Type {
				return Person{}, apperr.Validation("attributes", a.Kind+" must be of type "+string(tpl.Type))
			}
			if tpl.Singleton && seen[a.Kind] {
				return Person{}, apperr.Validation("attributes", a.Kind+" may appear only once")
			}
			if len(tpl.Options) > 0 && a.Text != "" && !contains(tpl.Options, a.Text) {
				return Person{}, apperr.Validation("attributes", a.Text+" is not a valid "+a.Kind+" value")
			}
		}
		seen[a.Kind] = true

		if a.Type == AttrTags {
			a.Tags = dedupeTags(a.Tags)
		} else {
			a.Tags = nil
		}
		if a.Type != AttrNumber {
			a.Number = nil
		} else if a.Number != nil {
			// The stored person must not alias the caller's pointer.
			n := *a.Number
			a.Number = &n
		}
		attrs = append(attrs, a)
	}
	p.Attributes = attrs
	return p, nil
}

// NormalizeRelationship validates and coerces a candidate edge: rejects
// self-relationships, requires a known kind, clamps strength into [0, 1]
// and derives the deterministic id when none is given. Endpoint existence
// is the store's concern.
func NormalizeRelationship(r Relationship) (Relationship, error) {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Source, validation.Required),
		validation.Field(&r.Target, validation.Required),
	); err != nil {
		return Relationship{}, apperr.Validation("relationship", err.Error())
	}
	if r.Source == r.Target {
		return Relationship{}, apperr.Validation("relationship", "source and target must differ")
	}
	if !KnownKind(r.Kind) {
		return Relationship{}, apperr.Validation("kind", "unknown relationship kind "+string(r.Kind))
	}
	if r.Strength < 0 {
		r.Strength = 0
	}
	if r.Strength > 1 {
		r.Strength = 1
	}
	if r.ID == "" {
		r.ID = TripleID(r.Source, r.Target, r.Kind)
	}
	return r, nil
}

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
