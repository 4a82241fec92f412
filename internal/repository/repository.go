// Package repository stores locations and the address aliases pointing at
// them. Every backend enforces the same two uniqueness rules: one location per
// formatted address and one alias per normalized address.
package repository

import "errors"

var (
	// ErrNotFound is returned when no alias or location matches.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule,
	// typically because a concurrent request stored the same row first.
	ErrDuplicate = errors.New("repository: duplicate entry")
)

// Counts reports how many rows a backend holds.
type Counts struct {
	Locations int
	Aliases   int
}
