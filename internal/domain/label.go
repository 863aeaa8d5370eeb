package domain

// Label is a free-floating map annotation, optionally anchored to a node
// so it pans with the map at large scales.
type Label struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor,omitempty"`
}
