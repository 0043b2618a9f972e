// Package integrity validates referential integrity, key uniqueness, and
// derived totals before a mutation is committed. Checks run synchronously;
// a failure is reported to the caller as a rejected mutation and is never
// retried.
package integrity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// totalTolerance is the rounding slack allowed when comparing stored totals
// against their recomputation: half a cent.
var totalTolerance = decimal.New(5, -3)

// Checker validates entities against the current persisted state. It reads
// through the storage boundary and holds no state of its own.
type Checker struct {
	store types.Store
}

// NewChecker creates a Checker reading through the given store.
func NewChecker(store types.Store) *Checker {
	return &Checker{store: store}
}

// CustomerReferences confirms the customer's state code resolves.
func (c *Checker) CustomerReferences(ctx context.Context, cust types.Customer) error {
	if err := c.stateExists(ctx, cust.StateCode); err != nil {
		return err
	}
	return nil
}

// InvoiceReferences confirms the invoice's customer id resolves.
func (c *Checker) InvoiceReferences(ctx context.Context, inv types.Invoice) error {
	_, err := c.store.Customers().Get(ctx, inv.CustomerID)
	if errors.Is(err, types.ErrNotFound) {
		return &types.DanglingReferenceError{
			Field: "customerId",
			Value: strconv.FormatInt(inv.CustomerID, 10),
		}
	}
	if err != nil {
		return fmt.Errorf("resolving customer %d: %w", inv.CustomerID, err)
	}
	return nil
}

// LineItemReferences confirms both parts of the line item's composite key
// resolve: the invoice and the product.
func (c *Checker) LineItemReferences(ctx context.Context, li types.InvoiceLineItem) error {
	_, err := c.store.Invoices().Get(ctx, li.InvoiceID)
	if errors.Is(err, types.ErrNotFound) {
		return &types.DanglingReferenceError{
			Field: "invoiceId",
			Value: strconv.FormatInt(li.InvoiceID, 10),
		}
	}
	if err != nil {
		return fmt.Errorf("resolving invoice %d: %w", li.InvoiceID, err)
	}

	_, err = c.store.Products().Get(ctx, li.ProductCode)
	if errors.Is(err, types.ErrNotFound) {
		return &types.DanglingReferenceError{Field: "productCode", Value: li.ProductCode}
	}
	if err != nil {
		return fmt.Errorf("resolving product %s: %w", li.ProductCode, err)
	}
	return nil
}

func (c *Checker) stateExists(ctx context.Context, code string) error {
	_, err := c.store.States().Get(ctx, code)
	if errors.Is(err, types.ErrNotFound) {
		return &types.DanglingReferenceError{Field: "stateCode", Value: code}
	}
	if err != nil {
		return fmt.Errorf("resolving state %s: %w", code, err)
	}
	return nil
}

// StateUnique confirms no state exists under the given code. Only creates
// check uniqueness; on update the key is immutable and the service rejects
// identity changes before storage is touched.
func (c *Checker) StateUnique(ctx context.Context, code string) error {
	return c.keyAbsent(func() error {
		_, err := c.store.States().Get(ctx, code)
		return err
	}, code)
}

// ProductUnique confirms no product exists under the given code.
func (c *Checker) ProductUnique(ctx context.Context, code string) error {
	return c.keyAbsent(func() error {
		_, err := c.store.Products().Get(ctx, code)
		return err
	}, code)
}

// LineItemUnique confirms no line item exists under the given composite key.
func (c *Checker) LineItemUnique(ctx context.Context, key types.LineItemKey) error {
	return c.keyAbsent(func() error {
		_, err := c.store.LineItems().Get(ctx, key)
		return err
	}, key.String())
}

// keyAbsent inverts a Get probe: not-found means the key is free, success
// means a duplicate. The storage-level primary-key constraint remains the
// authoritative arbiter under concurrency; this check front-loads the
// common case with a precise error.
func (c *Checker) keyAbsent(probe func() error, key string) error {
	err := probe()
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("probing key %q: %w", key, err)
	}
	return &types.DuplicateKeyError{Key: key}
}

// LineItemTotal recomputes item_total = unit_price * quantity and fails
// with ErrInconsistentTotal if the stored value disagrees beyond the
// rounding tolerance.
func (c *Checker) LineItemTotal(li types.InvoiceLineItem) error {
	want := li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
	if li.ItemTotal.Sub(want).Abs().GreaterThan(totalTolerance) {
		return fmt.Errorf("%w: item total %s, unit price %s x quantity %d = %s",
			types.ErrInconsistentTotal, li.ItemTotal, li.UnitPrice, li.Quantity, want)
	}
	return nil
}

// InvoiceTotal recomputes invoice_total = product_total + sales_tax +
// shipping and fails with ErrInconsistentTotal on disagreement beyond the
// rounding tolerance.
func (c *Checker) InvoiceTotal(inv types.Invoice) error {
	want := inv.ProductTotal.Add(inv.SalesTax).Add(inv.Shipping)
	if inv.InvoiceTotal.Sub(want).Abs().GreaterThan(totalTolerance) {
		return fmt.Errorf("%w: invoice total %s, components sum to %s",
			types.ErrInconsistentTotal, inv.InvoiceTotal, want)
	}
	return nil
}
