package ecs

import "errors"

var (
	// Recoverable lookups; callers are expected to branch on these.

	ErrMissingResource  = errors.New("missing resource")
	ErrMissingComponent = errors.New("missing component")

	// Structural errors

	ErrEntityNotFound = errors.New("entity not found")
	ErrNilResource    = errors.New("nil resource")
	ErrNilComponent   = errors.New("nil component")
)
