package repository

import "errors"

// ErrDuplicate is returned by Save when a unique index rejects the
// write. Callers treat it as a uniqueness race that slipped past the
// optimistic pre-check.
var ErrDuplicate = errors.New("repository: duplicate key")
