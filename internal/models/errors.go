package models

import "errors"

var (
	// ErrDependencyUnavailable marks a failed call to the embedding or generation backend.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrStoreNotFound is returned when the persisted chunk store has not been built.
	ErrStoreNotFound = errors.New("chunk store not found")
	ErrEmptyQuery    = errors.New("query is empty")
)
