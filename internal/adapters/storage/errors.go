package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrInvalidKey     = errors.New("storage key must not be empty")
	ErrClosed         = errors.New("storage is closed")
	ErrCorrupt        = errors.New("storage document is corrupt")
	ErrUnknownBackend = errors.New("unknown storage backend")
)
