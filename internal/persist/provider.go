// Package persist implements the durable key-value document store backing
// the graph, plus the codec, debounced saver and import-drop watcher around
// it.
package persist

// Storage keys, one JSON document each.
const (
	KeyGraph     = "graph:v1"
	KeyPrefs     = "ui:v1"
	KeyBgImage   = "gallery:bg-image:v1"
	KeyBgOpacity = "gallery:bg-opacity:v1"
)

// Provider is the durable key-value store. Implementations persist one
// document per key; absent keys are reported via the ok return, not an
// error.
type Provider interface {
	// Load returns the document stored under key.
	Load(key string) (value []byte, ok bool, err error)
	// Save stores value under key, replacing any previous document.
	Save(key string, value []byte) error
	// Delete removes the document under key. Deleting an absent key is
	// not an error.
	Delete(key string) error
	Close() error
}

// Prefs is the small UI preference document. The core only round-trips it;
// corrupt or missing blobs fall back to Defaults.
type Prefs struct {
	View             string `json:"view"`
	FocusID          string `json:"focusId"`
	Depth            int    `json:"depth"`
	OnlyNeighborhood bool   `json:"onlyNeighborhood"`
}

// DefaultPrefs returns the preferences assumed on first start.
func DefaultPrefs() Prefs {
	return Prefs{View: "explorer", Depth: 1, OnlyNeighborhood: true}
}
