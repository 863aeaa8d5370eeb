package domain

// ControlKind identifies the trigger of a simple control.
type ControlKind string

const (
	ControlNodeLevel ControlKind = "node_level" // LINK x s IF NODE n ABOVE/BELOW v
	ControlTimer     ControlKind = "timer"      // LINK x s AT TIME t
	ControlClockTime ControlKind = "clock_time" // LINK x s AT CLOCKTIME t
)

// Comparison is the threshold operator of a node-level control.
type Comparison string

const (
	CompareAbove Comparison = "ABOVE"
	CompareBelow Comparison = "BELOW"
)

// SimpleControl is a single-statement control that sets a link's status
// or setting from a node threshold or a time trigger. Status holds the
// raw status/setting token (OPEN, CLOSED, or a numeric setting) verbatim.
type SimpleControl struct {
	Kind   ControlKind `json:"kind"`
	Link   string      `json:"link"`
	Status string      `json:"status"`

	// node_level fields
	Node      string     `json:"node,omitempty"`
	Compare   Comparison `json:"compare,omitempty"`
	Threshold float64    `json:"threshold,omitempty"`

	// timer / clock_time field
	Time string `json:"time,omitempty"`
}

// Rule is a rule-based control block. Condition and action lines are
// opaque validated text, stored and round-tripped verbatim; this model
// never evaluates them (the external engine owns evaluation).
type Rule struct {
	ID          string   `json:"id"`
	Conditions  []string `json:"conditions"`
	ThenActions []string `json:"then_actions"`
	ElseActions []string `json:"else_actions,omitempty"`
	Priority    *float64 `json:"priority,omitempty"`
}
