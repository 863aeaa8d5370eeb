// Package repository defines the persistence interface for the model
// library: named network snapshots plus a history of analysis runs.
//
// The network itself is stored as one JSON document per snapshot; a few
// scalar columns (flow units, entity counts) are duplicated out of the
// document so listings never have to deserialize every model. The
// concrete implementation lives in the sqlite subpackage.
package repository
