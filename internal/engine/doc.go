// Package engine is the boundary to the external hydraulic and water
// quality solver.
//
// The solver consumes an object graph (Model) in fixed SI units and
// produces per-entity time series (Results). Because the graph's schema
// varies across engine versions and builds, every field access is
// capability-probed: an Element only accepts fields its Schema declares,
// and the synchronizer silently skips absent fields instead of failing.
// A capability gap is a compatibility condition, never an error.
//
// Synchronizer translates between the project-space domain.Network and
// the SI-space Model in both directions, and imports result snapshots
// back onto entity result fields. Runner executes an Engine in an
// isolated scratch directory with progress reporting and guaranteed
// cleanup.
package engine
