package repository

import "errors"

// ErrNotFound is returned by every repository when a lookup, update or delete
// matches zero rows.
var ErrNotFound = errors.New("not found")
