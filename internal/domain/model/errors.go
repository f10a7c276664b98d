package model

import "errors"

// Error kinds shared across the domain. Wrap them with fmt.Errorf("%w") and
// test with errors.Is.
var (
	// ErrDataLoad means the catalog source is missing, unreadable or malformed.
	// It is fatal at startup.
	ErrDataLoad = errors.New("catalog data load failed")
	// ErrNotFound means a lookup found no matching career.
	ErrNotFound = errors.New("career not found")
	// ErrInvalidQuery means the caller supplied no usable input.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotReady means the catalog or index has not finished building.
	ErrNotReady = errors.New("service not ready")
)
