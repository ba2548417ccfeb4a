// Package gorowtype validates entity type shapes for a row-mapping layer.
//
// Declare your persisted entities as Go structs (or as entity definition
// files), and have their structure checked against the row mapper's contract
// before registration: a public value-record type with a public primary
// constructor whose parameters mirror the declared fields in type and order,
// ending in a non-nullable 64-bit integer identifier.
//
// The module is organized into three packages:
//
//   - [github.com/evanfuller/go-rowtype/rowtype] — descriptor model, shape validator, registry, reflection adapter
//   - [github.com/evanfuller/go-rowtype/entdef] — entity definition language: parser and descriptor conversion
//   - [github.com/evanfuller/go-rowtype/store] — SQLite-backed row store for registered entity types
//
// The rowtype and entdef packages compile and test without a database.
// Only the store package requires SQLite.
package gorowtype
