package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity is not in the local cache.
	ErrNotFound = errors.New("entity not found")

	// ErrStorage indicates a local cache invariant was violated. The
	// failing operation is rolled back and reported, never absorbed.
	ErrStorage = errors.New("storage invariant violation")
)
