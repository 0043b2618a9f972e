// Line items address as /api/invoices/{id}/lineitems/{productCode}: the
// composite key splits across two path segments.
package httpapi

import (
	"net/http"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func (h *Handler) listLineItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.services.LineItems.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listInvoiceLineItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	items, err := h.services.LineItems.ListByInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func lineItemKey(w http.ResponseWriter, r *http.Request) (types.LineItemKey, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return types.LineItemKey{}, false
	}
	return types.LineItemKey{InvoiceID: id, ProductCode: r.PathValue("productCode")}, true
}

func (h *Handler) getLineItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineItemKey(w, r)
	if !ok {
		return
	}
	li, err := h.services.LineItems.Get(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, li)
}

// createLineItem posts under the invoice; a body naming a different invoice
// is an identity mismatch.
func (h *Handler) createLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var li types.InvoiceLineItem
	if !decodeBody(w, r, &li) {
		return
	}
	if li.InvoiceID == 0 {
		li.InvoiceID = id
	}
	if li.InvoiceID != id {
		writeError(w, types.ErrKeyMismatch)
		return
	}
	created, err := h.services.LineItems.Create(r.Context(), li)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) putLineItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineItemKey(w, r)
	if !ok {
		return
	}
	var li types.InvoiceLineItem
	if !decodeBody(w, r, &li) {
		return
	}
	if err := h.services.LineItems.Update(r.Context(), key, li); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteLineItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineItemKey(w, r)
	if !ok {
		return
	}
	if err := h.services.LineItems.Delete(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
