package repository

import "errors"

// ErrNotFound is returned when a write targets a record that does not exist.
var ErrNotFound = errors.New("not found")
