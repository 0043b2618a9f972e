// Error translation between the typed taxonomy and the wire. Every failure
// class gets its own stable machine code so callers can branch on which
// failure occurred instead of collapsing everything into a generic error.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// httpStatus maps a typed error to its response status. Both duplicate-key
// and referenced-by-children map to 409; the code in the body distinguishes
// them.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrKeyMismatch),
		errors.Is(err, types.ErrInvalidEntity),
		errors.Is(err, types.ErrInconsistentTotal):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDuplicateKey),
		errors.Is(err, types.ErrDanglingReference),
		errors.Is(err, types.ErrStaleWrite),
		errors.Is(err, types.ErrReferencedByChildren):
		return http.StatusConflict
	case errors.Is(err, types.ErrUnavailable),
		errors.Is(err, types.ErrStoreDetached),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := types.ErrorCode(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = types.CodeUnavailable
	}
	writeJSON(w, httpStatus(err), ErrorBody{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
