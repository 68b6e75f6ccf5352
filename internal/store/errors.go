package store

import "errors"

var (
	// ErrStorageUnavailable means the database failed to open or was closed.
	// Every operation fails with it for the rest of the session.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotReady means an operation was issued before the database finished opening.
	ErrNotReady = errors.New("storage not ready")
	// ErrOperationFailed means a single read or write was rejected.
	ErrOperationFailed = errors.New("storage operation failed")
	// ErrTransactionFailed means a bulk operation failed and nothing was applied.
	ErrTransactionFailed = errors.New("storage transaction failed")
	// ErrDuplicateKey means a record id collides with a stored record.
	ErrDuplicateKey = errors.New("duplicate key")
)
