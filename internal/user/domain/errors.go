package domain

import "errors"

// ErrNotFound is returned when the user does not exist
var ErrNotFound = errors.New("user not found")
