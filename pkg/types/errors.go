package types

import (
	"errors"
	"fmt"
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Mutation outcome errors. Permanent errors are never retried by the server
// or the client; ErrUnavailable is the only transient class and is safe to
// retry.
var (
	ErrNotFound             = errors.New("entity not found")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrDanglingReference    = errors.New("dangling reference")
	ErrKeyMismatch          = errors.New("key does not match entity identity")
	ErrStaleWrite           = errors.New("stale write")
	ErrReferencedByChildren = errors.New("entity is referenced by children")
	ErrInconsistentTotal    = errors.New("inconsistent derived total")
	ErrInvalidEntity        = errors.New("invalid entity")
	ErrUnavailable          = errors.New("service unavailable")
)

// DanglingReferenceError reports a foreign-key field whose value has no
// matching row in the referenced collection. errors.Is matches
// ErrDanglingReference.
type DanglingReferenceError struct {
	Field string
	Value string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: %s %q does not exist", e.Field, e.Value)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// DuplicateKeyError reports a create against an identity that already exists.
// errors.Is matches ErrDuplicateKey.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Key)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// IsTransient reports whether err is safe to retry. Only unavailability is
// transient; every integrity or conflict error is permanent.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
