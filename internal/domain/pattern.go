package domain

// Pattern is an ordered sequence of time-step multipliers. Indexing wraps
// cyclically past the end of the sequence.
type Pattern struct {
	ID          string    `json:"id"`
	Multipliers []float64 `json:"multipliers"`
	Comment     string    `json:"comment,omitempty"`
}

// NewPattern creates an empty pattern.
func NewPattern(id string) *Pattern {
	return &Pattern{ID: id}
}

// MultiplierAt returns the multiplier for time step i, wrapping cyclically.
// An empty pattern yields 1.0.
func (p *Pattern) MultiplierAt(i int) float64 {
	if len(p.Multipliers) == 0 {
		return 1.0
	}
	if i < 0 {
		i = -i
	}
	return p.Multipliers[i%len(p.Multipliers)]
}
