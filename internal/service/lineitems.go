package service

import (
	"context"

	"github.com/mesh-intelligence/orderdesk/internal/integrity"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// LineItemService implements the CRUD contract for invoice line items. The
// composite key (invoice id, product code) is caller-assigned, and both
// parts must reference existing rows. The item-total identity is enforced
// on every mutation, at write time.
type LineItemService struct {
	store types.Store
	check *integrity.Checker
}

// Descriptor reports the line item service's capabilities. Upsert is not
// offered: replacing a line wholesale would bypass the invoice's total
// reconciliation.
func (s *LineItemService) Descriptor() Descriptor {
	return Descriptor{Name: "lineitems", KeyMode: CallerAssigned, Upsert: false}
}

// List returns all line items ordered by invoice id, then product code.
func (s *LineItemService) List(ctx context.Context) ([]types.InvoiceLineItem, error) {
	return s.store.LineItems().List(ctx)
}

// ListByInvoice returns the line items of one invoice.
func (s *LineItemService) ListByInvoice(ctx context.Context, invoiceID int64) ([]types.InvoiceLineItem, error) {
	return s.store.LineItems().ListByInvoice(ctx, invoiceID)
}

// Get returns the line item under the composite key, or ErrNotFound.
func (s *LineItemService) Get(ctx context.Context, key types.LineItemKey) (types.InvoiceLineItem, error) {
	return s.store.LineItems().Get(ctx, key)
}

// Create inserts a new line item under its composite key.
func (s *LineItemService) Create(ctx context.Context, li types.InvoiceLineItem) (types.InvoiceLineItem, error) {
	if err := s.validate(ctx, li); err != nil {
		return types.InvoiceLineItem{}, err
	}
	if err := s.check.LineItemUnique(ctx, li.Key()); err != nil {
		return types.InvoiceLineItem{}, err
	}
	return s.store.LineItems().Create(ctx, li)
}

// Update replaces the line item at key. A body key that differs from the
// addressed key fails with ErrKeyMismatch before storage is touched.
func (s *LineItemService) Update(ctx context.Context, key types.LineItemKey, li types.InvoiceLineItem) error {
	if key != li.Key() {
		return types.ErrKeyMismatch
	}
	if err := s.validate(ctx, li); err != nil {
		return err
	}
	return s.store.LineItems().Update(ctx, key, li)
}

// Delete removes the line item.
func (s *LineItemService) Delete(ctx context.Context, key types.LineItemKey) error {
	return s.store.LineItems().Delete(ctx, key)
}

func (s *LineItemService) validate(ctx context.Context, li types.InvoiceLineItem) error {
	if err := li.Validate(); err != nil {
		return err
	}
	if err := s.check.LineItemReferences(ctx, li); err != nil {
		return err
	}
	return s.check.LineItemTotal(li)
}
