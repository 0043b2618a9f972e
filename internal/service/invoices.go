package service

import (
	"context"

	"github.com/mesh-intelligence/orderdesk/internal/integrity"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// InvoiceService implements the CRUD contract for invoice headers. Invoice
// ids are server-assigned. Every mutation checks the customer reference and
// the invoice-total identity before commit.
type InvoiceService struct {
	store types.Store
	check *integrity.Checker
}

// Descriptor reports the invoice service's capabilities.
func (s *InvoiceService) Descriptor() Descriptor {
	return Descriptor{Name: "invoices", KeyMode: ServerAssigned, Upsert: false}
}

// List returns all invoices ordered by id.
func (s *InvoiceService) List(ctx context.Context) ([]types.Invoice, error) {
	return s.store.Invoices().List(ctx)
}

// ListByCustomer returns the invoices referencing one customer.
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID int64) ([]types.Invoice, error) {
	return s.store.Invoices().ListByCustomer(ctx, customerID)
}

// Get returns the invoice with the given id, or ErrNotFound.
func (s *InvoiceService) Get(ctx context.Context, id int64) (types.Invoice, error) {
	return s.store.Invoices().Get(ctx, id)
}

// Create inserts a new invoice. The submitted entity must not carry an id.
func (s *InvoiceService) Create(ctx context.Context, inv types.Invoice) (types.Invoice, error) {
	if inv.InvoiceID != 0 {
		return types.Invoice{}, types.ErrInvalidEntity
	}
	if err := s.validate(ctx, inv); err != nil {
		return types.Invoice{}, err
	}
	return s.store.Invoices().Create(ctx, inv)
}

// Update replaces the invoice at id. A body id that differs from the
// addressed id fails with ErrKeyMismatch before storage is touched.
func (s *InvoiceService) Update(ctx context.Context, id int64, inv types.Invoice) error {
	if id != inv.InvoiceID {
		return types.ErrKeyMismatch
	}
	if err := s.validate(ctx, inv); err != nil {
		return err
	}
	return s.store.Invoices().Update(ctx, id, inv)
}

// Delete removes the invoice and, per the default cascade policy, its line
// items.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	return s.store.Invoices().Delete(ctx, id)
}

func (s *InvoiceService) validate(ctx context.Context, inv types.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := s.check.InvoiceReferences(ctx, inv); err != nil {
		return err
	}
	return s.check.InvoiceTotal(inv)
}
