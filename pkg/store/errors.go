package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an id the backend does
// not hold. Callers match it with errors.Is.
var ErrNotFound = errors.New("store: entry not found")

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// StorageError reports an I/O, serialization or backend failure. Op names the
// store operation that failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Operation names carried by StorageError.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpGet     = "get"
	OpList    = "list"
	OpRefresh = "refresh"
)
