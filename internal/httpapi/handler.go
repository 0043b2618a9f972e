// Package httpapi exposes the entity services over REST. One resource
// collection per entity; line items nest under their invoice because their
// key is composite. Handlers are stateless: each request's lifetime is
// bounded by its context, and a deadline miss surfaces as 503.
package httpapi

import (
	"net/http"
	"time"

	"github.com/mesh-intelligence/orderdesk/internal/service"
)

// Handler routes the REST surface onto the entity services.
type Handler struct {
	services *service.Services
	timeout  time.Duration
}

// NewHandler creates the API handler. timeout bounds each request; zero
// means no per-request deadline.
func NewHandler(services *service.Services, timeout time.Duration) *Handler {
	return &Handler{services: services, timeout: timeout}
}

// Mux returns the routing table wrapped in the request-id, logging, and
// timeout middleware.
func (h *Handler) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /api/capabilities", h.capabilities)

	mux.HandleFunc("GET /api/states", h.listStates)
	mux.HandleFunc("POST /api/states", h.createState)
	mux.HandleFunc("GET /api/states/{code}", h.getState)
	mux.HandleFunc("PUT /api/states/{code}", h.putState)
	mux.HandleFunc("DELETE /api/states/{code}", h.deleteState)

	mux.HandleFunc("GET /api/customers", h.listCustomers)
	mux.HandleFunc("POST /api/customers", h.createCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.getCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.putCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", h.deleteCustomer)
	mux.HandleFunc("GET /api/customers/{id}/invoices", h.listCustomerInvoices)

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("GET /api/products/{code}", h.getProduct)
	mux.HandleFunc("PUT /api/products/{code}", h.putProduct)
	mux.HandleFunc("DELETE /api/products/{code}", h.deleteProduct)

	mux.HandleFunc("GET /api/invoices", h.listInvoices)
	mux.HandleFunc("POST /api/invoices", h.createInvoice)
	mux.HandleFunc("GET /api/invoices/{id}", h.getInvoice)
	mux.HandleFunc("PUT /api/invoices/{id}", h.putInvoice)
	mux.HandleFunc("DELETE /api/invoices/{id}", h.deleteInvoice)

	mux.HandleFunc("GET /api/lineitems", h.listLineItems)
	mux.HandleFunc("GET /api/invoices/{id}/lineitems", h.listInvoiceLineItems)
	mux.HandleFunc("POST /api/invoices/{id}/lineitems", h.createLineItem)
	mux.HandleFunc("GET /api/invoices/{id}/lineitems/{productCode}", h.getLineItem)
	mux.HandleFunc("PUT /api/invoices/{id}/lineitems/{productCode}", h.putLineItem)
	mux.HandleFunc("DELETE /api/invoices/{id}/lineitems/{productCode}", h.deleteLineItem)

	return withRequestID(withLogging(withTimeout(h.timeout, mux)))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// capabilities advertises the per-entity key mode and upsert support so
// clients can prefer the atomic upsert over probe-then-act.
func (h *Handler) capabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"entities": h.services.Descriptors(),
	})
}
