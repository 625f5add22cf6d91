// Package repository is the data-access layer over the sakila schema.
//
// The read side (FilmRepo, ActorRepo, the non-Tx methods of CustomerRepo)
// is the query catalog: fixed, parameterised joins and aggregations that
// never mutate state and are safe to run concurrently and to retry.  The
// ...Tx methods are row-level primitives used by the lifecycle service
// inside its own transaction; they never begin or commit one themselves.
package repository

import "errors"

// ErrNotFound is returned by single-row lookups when no row matches.
// Callers translate it into a NotFound failure.
var ErrNotFound = errors.New("record not found")
