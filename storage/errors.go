// Package storage persists the run manifest: a JSON record of what each
// batch run did, written atomically under an advisory file lock.
package storage

import "errors"

// Sentinel errors for storage operations.
var (
	ErrNotFound       = errors.New("storage: not found")
	ErrStorageCorrupt = errors.New("storage: data corrupt")
	ErrLockTimeout    = errors.New("storage: lock timeout")
)

// StorageError wraps storage failures with operation context.
type StorageError struct {
	// Op is the operation that failed ("load", "save", "lock").
	Op string
	// Entity is the kind of record involved.
	Entity string
	// ID identifies the record or file.
	ID string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the storage failure.
func (e *StorageError) Error() string {
	return "storage: " + e.Op + " " + e.Entity + " " + e.ID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }
