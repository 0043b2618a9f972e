package httpapi

import (
	"net/http"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.services.Invoices.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) listCustomerInvoices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	invoices, err := h.services.Invoices.ListByCustomer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.services.Invoices.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var inv types.Invoice
	if !decodeBody(w, r, &inv) {
		return
	}
	created, err := h.services.Invoices.Create(r.Context(), inv)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) putInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var inv types.Invoice
	if !decodeBody(w, r, &inv) {
		return
	}
	if err := h.services.Invoices.Update(r.Context(), id, inv); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.services.Invoices.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
