package fipe

import "errors"

// Recoverable catalog conditions. Callers treat both as "no estimate
// available" and keep going; neither is cached.
var (
	// ErrUnavailable wraps transport and service failures.
	ErrUnavailable = errors.New("fipe: catalog unavailable")
	// ErrEmpty means the catalog answered cleanly with zero entries.
	ErrEmpty = errors.New("fipe: catalog returned no entries")
)
