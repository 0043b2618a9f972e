// Package types defines the entity model, the Store contract, configuration,
// and the standard errors for the orderdesk synchronization service.
//
// Entities are identified by their primary key: equality between two entity
// values means key equality, never structural equality. Every entity carries a
// RowVersion concurrency token that the storage backend increments on each
// committed update; mutations submit the version the caller last observed.
package types
