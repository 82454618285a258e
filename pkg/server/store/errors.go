package store

import "errors"

// ErrNotFound is returned when the record an operation acts on doesn't exist
var ErrNotFound = errors.New("record not found")
