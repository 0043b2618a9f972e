package types

import "errors"

// Wire error codes. Error bodies carry one of these so every failure class
// stays distinguishable across the network; the server encodes them from
// typed errors and the client rehydrates the sentinel from the code.
const (
	CodeNotFound             = "not_found"
	CodeDuplicateKey         = "duplicate_key"
	CodeDanglingReference    = "dangling_reference"
	CodeKeyMismatch          = "key_mismatch"
	CodeStaleWrite           = "stale_write"
	CodeReferencedByChildren = "referenced_by_children"
	CodeInconsistentTotal    = "inconsistent_total"
	CodeInvalidEntity        = "invalid_entity"
	CodeUnavailable          = "unavailable"
	CodeInternal             = "internal"
)

// ErrorCode maps a typed error to its wire code. Unrecognized errors map
// to the internal code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrKeyMismatch):
		return CodeKeyMismatch
	case errors.Is(err, ErrInvalidEntity):
		return CodeInvalidEntity
	case errors.Is(err, ErrInconsistentTotal):
		return CodeInconsistentTotal
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateKey):
		return CodeDuplicateKey
	case errors.Is(err, ErrDanglingReference):
		return CodeDanglingReference
	case errors.Is(err, ErrStaleWrite):
		return CodeStaleWrite
	case errors.Is(err, ErrReferencedByChildren):
		return CodeReferencedByChildren
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrStoreDetached):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// SentinelForCode maps a wire code back to its sentinel error. Unknown
// codes map to nil; callers treat those as opaque failures.
func SentinelForCode(code string) error {
	switch code {
	case CodeNotFound:
		return ErrNotFound
	case CodeDuplicateKey:
		return ErrDuplicateKey
	case CodeDanglingReference:
		return ErrDanglingReference
	case CodeKeyMismatch:
		return ErrKeyMismatch
	case CodeStaleWrite:
		return ErrStaleWrite
	case CodeReferencedByChildren:
		return ErrReferencedByChildren
	case CodeInconsistentTotal:
		return ErrInconsistentTotal
	case CodeInvalidEntity:
		return ErrInvalidEntity
	case CodeUnavailable:
		return ErrUnavailable
	default:
		return nil
	}
}
