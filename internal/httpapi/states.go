package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// decodeBody unmarshals the request body into v. On failure it writes a
// 400 with the invalid_entity code and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body: %v", types.ErrInvalidEntity, err))
		return false
	}
	return true
}

// pathID parses the numeric {id} path segment. On failure it writes a 404:
// a non-numeric id can never address an existing row.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid id %q", types.ErrNotFound, r.PathValue("id")))
		return 0, false
	}
	return id, true
}

// upsertRequested reports whether the PUT asked for create-or-replace
// semantics instead of a strict update.
func upsertRequested(r *http.Request) bool {
	return r.URL.Query().Get("mode") == "upsert"
}

func (h *Handler) listStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.services.States.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.services.States.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) createState(w http.ResponseWriter, r *http.Request) {
	var st types.State
	if !decodeBody(w, r, &st) {
		return
	}
	created, err := h.services.States.Create(r.Context(), st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// putState is a strict update by default: 404 when the code is absent,
// 409 on a stale row version. With ?mode=upsert it atomically creates or
// replaces, answering 201 or 200.
func (h *Handler) putState(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var st types.State
	if !decodeBody(w, r, &st) {
		return
	}

	if upsertRequested(r) {
		if code != st.StateCode {
			writeError(w, types.ErrKeyMismatch)
			return
		}
		saved, created, err := h.services.States.Upsert(r.Context(), st)
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, saved)
		return
	}

	if err := h.services.States.Update(r.Context(), code, st); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteState(w http.ResponseWriter, r *http.Request) {
	if err := h.services.States.Delete(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
