package state

import "errors"

var (
	// ErrCapacity indicates a Path or State exceeded its maximum size.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrInvalidToken indicates an empty path token.
	ErrInvalidToken = errors.New("invalid path token")

	// ErrCycle indicates a cycle in a parent hierarchy.
	ErrCycle = errors.New("hierarchy cycle")
)
