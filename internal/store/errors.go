package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a record with the same unique key
// already exists.
var ErrDuplicate = errors.New("already exists")
