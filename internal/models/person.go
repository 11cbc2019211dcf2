// Package models defines the domain types for the relationship graph.
package models

// AttrType discriminates the value variant carried by an Attribute.
type AttrType string

const (
	AttrText     AttrType = "text"
	AttrNumber   AttrType = "number"
	AttrTags     AttrType = "tags"
	AttrSelect   AttrType = "select"
	AttrTextarea AttrType = "textarea"
)

// Known returns true for a recognised attribute type.
func (t AttrType) Known() bool {
	switch t {
	case AttrText, AttrNumber, AttrTags, AttrSelect, AttrTextarea:
		return true
	}
	return false
}

// Attribute is one typed field on a Person. Exactly one value field is
// meaningful, selected by Type: Text for text/select/textarea, Number for
// number (nil means empty), Tags for tag lists.
type Attribute struct {
	Kind   string   `json:"kind"`
	Type   AttrType `json:"type"`
	Text   string   `json:"text,omitempty"`
	Number *float64 `json:"number,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Person is a node in the relationship graph.
type Person struct {
	ID         string      `json:"id"`
	Label      string      `json:"label"`
	Image      string      `json:"image,omitempty"`
	Alive      bool        `json:"alive"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute returns the first attribute of the given kind.
func (p Person) Attribute(kind string) (Attribute, bool) {
	for _, a := range p.Attributes {
		if a.Kind == kind {
			return a, true
		}
	}
	return Attribute{}, false
}

// FieldTemplate describes one attribute kind: its value type, whether a
// Person may carry it more than once, and the allowed options for selects.
type FieldTemplate struct {
	Kind      string   `json:"kind"`
	Label     string   `json:"label"`
	Type      AttrType `json:"type"`
	Singleton bool     `json:"singleton"`
	Options   []string `json:"options,omitempty"`
}

// Attribute kinds with built-in templates.
const (
	FieldAge        = "age"
	FieldJob        = "job"
	FieldHobbies    = "hobbies"
	FieldTraits     = "traits"
	FieldOccult     = "occult"
	FieldNotes      = "notes"
	FieldCustomText = "customText"
	FieldCustomTags = "customTags"
)

// OccultTypes are the allowed values of the occult select field.
var OccultTypes = []string{
	"Human",
	"Alien",
	"Vampire",
	"Mermaid",
	"Spellcaster",
	"Werewolf",
	"Plantsim",
	"Servo",
	"Skeleton",
}

// DefaultOccult is assumed when a person carries no occult attribute.
const DefaultOccult = "Human"

// FieldTemplates lists the built-in attribute kinds in display order.
var FieldTemplates = []FieldTemplate{
	{Kind: FieldAge, Label: "Age", Type: AttrNumber, Singleton: true},
	{Kind: FieldJob, Label: "Job", Type: AttrText, Singleton: true},
	{Kind: FieldHobbies, Label: "Hobbies", Type: AttrTags, Singleton: true},
	{Kind: FieldTraits, Label: "Traits", Type: AttrTags, Singleton: true},
	{Kind: FieldOccult, Label: "Occult", Type: AttrSelect, Singleton: true, Options: OccultTypes},
	{Kind: FieldNotes, Label: "Notes", Type: AttrTextarea, Singleton: true},
	{Kind: FieldCustomText, Label: "Custom (text)", Type: AttrText, Singleton: false},
	{Kind: FieldCustomTags, Label: "Custom (tags)", Type: AttrTags, Singleton: false},
}

// FieldTemplateFor returns the template for an attribute kind, if known.
// Unknown kinds are allowed on persons but carry no singleton or option
// constraints.
func FieldTemplateFor(kind string) (FieldTemplate, bool) {
	for _, t := range FieldTemplates {
		if t.Kind == kind {
			return t, true
		}
	}
	return FieldTemplate{}, false
}
