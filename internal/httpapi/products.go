package httpapi

import (
	"net/http"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.services.Products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.services.Products.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p types.Product
	if !decodeBody(w, r, &p) {
		return
	}
	created, err := h.services.Products.Create(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// putProduct mirrors putState: strict update by default, atomic
// create-or-replace with ?mode=upsert.
func (h *Handler) putProduct(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var p types.Product
	if !decodeBody(w, r, &p) {
		return
	}

	if upsertRequested(r) {
		if code != p.ProductCode {
			writeError(w, types.ErrKeyMismatch)
			return
		}
		saved, created, err := h.services.Products.Upsert(r.Context(), p)
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

	if err := h.services.Products.Update(r.Context(), code, p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Products.Delete(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
