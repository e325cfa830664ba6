package store

import "errors"

// Coarse error kinds surfaced across the store boundary: the underlying
// SQLite fault (busy, locked, constraint, I/O) appears only as text in the
// error message and is never wrapped, so callers above this package can
// match only these kinds. Schema creation and Exec also log it at debug
// level.
var (
	ErrInitializationFailed = errors.New("store: initialization failed")
	ErrWriteFailed          = errors.New("store: write failed")
	ErrReadFailed           = errors.New("store: read failed")
	ErrSchemaError          = errors.New("store: schema error")

	// ErrNotFound is returned by single-row lookups (GetObject, GetRef,
	// GetConfig) when the key does not exist. It is a read outcome, not a
	// database fault, so it is not collapsed like the errors above.
	ErrNotFound = errors.New("store: not found")
)
