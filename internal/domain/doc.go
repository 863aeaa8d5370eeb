// Package domain defines the core domain types for the waterworks
// distribution network model.
//
// This package contains the entities that represent a water network:
// nodes (junctions, reservoirs, tanks), links (pipes, pumps, valves),
// time patterns, data curves, map labels, simple and rule-based controls,
// and the analysis options record.
//
// # Core Types
//
// Node is a closed tagged union over the three node variants: exactly one
// of the Junction, Reservoir or Tank payloads is non-nil, matching Kind.
// Link follows the same shape over Pipe, Pump and Valve.
//
// Network is the aggregate root. Every mutating operation validates the
// referential invariants before applying and leaves the aggregate
// unchanged on failure:
//
//   - ids are unique within their entity kind (and at most 31 characters)
//   - a link's endpoints must already exist
//   - a node cannot be removed while a link references it
//   - a pattern cannot be removed while a junction's demand pattern
//     references it
//   - a curve cannot be removed while a pump's head curve references it
//
// Violations surface as *StructuralError naming the violated invariant.
//
// # Units
//
// All dimensional fields are stored in project units (US customary or SI,
// selected by Options.FlowUnits). Conversion to the engine's SI space is
// the engine synchronizer's concern, never this package's.
//
// # Results
//
// The result fields on Node and Link are written by the result importer
// after a successful run and are meaningless before one.
package domain
