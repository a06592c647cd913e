package storage

import "errors"

var (
	// ErrNotManaged indicates a URL that does not belong to the configured
	// store and was rejected before any backend call.
	ErrNotManaged = errors.New("file not managed by this store")

	// ErrNoUniqueKey indicates the collision-avoidance probe ran out of
	// attempts without finding a free key.
	ErrNoUniqueKey = errors.New("no unique storage key available")
)
