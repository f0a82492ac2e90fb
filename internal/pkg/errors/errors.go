package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks an operation rejected by current state (duplicate name, in-flight gesture).
	ErrConflict = errors.New("conflict")
	// ErrUpstream marks a failure of an external collaborator (model gateway, transcript service).
	ErrUpstream = errors.New("upstream failure")
	// ErrUnavailable marks a dependency that is not configured.
	ErrUnavailable = errors.New("unavailable")
)
