package domain

import "errors"

var (
	// ErrNotFound is returned when the referenced master record does not exist
	ErrNotFound = errors.New("inventory record not found")

	// ErrInvalidField is returned when a field cannot be written for the
	// referenced item kind, e.g. a numeric quantity on a tool
	ErrInvalidField = errors.New("field not supported for item kind")
)
