package domain

import "errors"

// Error taxonomy for cycle count operations. Handlers wrap these with
// fmt.Errorf("...: %w", err); the HTTP layer maps them to status codes.
var (
	// ErrValidation rejects an operation before any mutation
	ErrValidation = errors.New("validation failed")

	// ErrNotFound signals an absent schedule/batch/item/result id
	ErrNotFound = errors.New("record not found")

	// ErrConflict signals a state collision, e.g. a second count submission
	// for an already counted item
	ErrConflict = errors.New("conflict")

	// ErrDependency signals an unreachable collaborator (inventory provider,
	// user directory); the operation aborts with no partial writes
	ErrDependency = errors.New("dependency unavailable")
)
