package store

import "fmt"

// StorageError wraps a backend failure with enough context to tell which
// backend and which operation produced it. Callers match the cause with
// errors.Is through Unwrap.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// NewStorageError builds a StorageError for the given backend and operation.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
