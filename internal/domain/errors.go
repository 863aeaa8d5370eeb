package domain

import "fmt"

// Invariant names a referential integrity rule of the Network aggregate.
type Invariant string

const (
	InvariantUniqueID     Invariant = "unique-id"
	InvariantIDLength     Invariant = "id-length"
	InvariantEndpoint     Invariant = "endpoint-exists"
	InvariantNodeInUse    Invariant = "node-in-use"
	InvariantPatternInUse Invariant = "pattern-in-use"
	InvariantCurveInUse   Invariant = "curve-in-use"
	InvariantVariant      Invariant = "variant-payload"
)

// StructuralError reports a rejected mutation. The aggregate is left
// unchanged whenever one is returned.
type StructuralError struct {
	Invariant Invariant // the violated rule
	Entity    string    // entity kind, e.g. "node", "pattern"
	ID        string    // the id the mutation targeted
	Ref       string    // the referenced/referencing id, when relevant
}

func (e *StructuralError) Error() string {
	switch e.Invariant {
	case InvariantUniqueID:
		return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
	case InvariantIDLength:
		return fmt.Sprintf("%s id %q exceeds 31 characters", e.Entity, e.ID)
	case InvariantEndpoint:
		return fmt.Sprintf("link %q references missing node %q", e.ID, e.Ref)
	case InvariantNodeInUse:
		return fmt.Sprintf("node %q is referenced by link %q", e.ID, e.Ref)
	case InvariantPatternInUse:
		return fmt.Sprintf("pattern %q is referenced by junction %q", e.ID, e.Ref)
	case InvariantCurveInUse:
		return fmt.Sprintf("curve %q is referenced by pump %q", e.ID, e.Ref)
	case InvariantVariant:
		return fmt.Sprintf("%s %q has no payload matching its kind", e.Entity, e.ID)
	}
	return fmt.Sprintf("structural error on %s %q (%s)", e.Entity, e.ID, e.Invariant)
}

// structural is a small helper for the aggregate's reject paths.
func structural(inv Invariant, entity, id, ref string) *StructuralError {
	return &StructuralError{Invariant: inv, Entity: entity, ID: id, Ref: ref}
}
