// Unit tests for the invoice collection store: decimal and date round trips,
// per-customer listing, and the line item cascade.
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func mustInvoice(t *testing.T, b *Backend, customerID int64) types.Invoice {
	t.Helper()
	inv, err := b.Invoices().Create(context.Background(), types.Invoice{
		CustomerID:   customerID,
		InvoiceDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ProductTotal: decimal.RequireFromString("109.00"),
		SalesTax:     decimal.RequireFromString("8.25"),
		Shipping:     decimal.RequireFromString("5.00"),
		InvoiceTotal: decimal.RequireFromString("122.25"),
	})
	require.NoError(t, err)
	return inv
}

func mustLineItem(t *testing.T, b *Backend, invoiceID int64, productCode, unitPrice string, quantity int64) types.InvoiceLineItem {
	t.Helper()
	price := decimal.RequireFromString(unitPrice)
	li, err := b.LineItems().Create(context.Background(), types.InvoiceLineItem{
		InvoiceID:   invoiceID,
		ProductCode: productCode,
		UnitPrice:   price,
		Quantity:    quantity,
		ItemTotal:   price.Mul(decimal.NewFromInt(quantity)),
	})
	require.NoError(t, err)
	return li
}

func TestInvoicesCreateGet(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	mustState(t, b, "OR", "Oregon")
	cust := mustCustomer(t, b, "Vi Swenson", "OR")
	created := mustInvoice(t, b, cust.CustomerID)

	assert.NotZero(t, created.InvoiceID)
	assert.Equal(t, int64(1), created.RowVersion)

	got, err := b.Invoices().Get(ctx, created.InvoiceID)
	require.NoError(t, err)

	// Decimals and dates survive the round trip exactly.
	assert.True(t, got.InvoiceDate.Equal(created.InvoiceDate),
		"date %s != %s", got.InvoiceDate, created.InvoiceDate)
	assert.True(t, got.ProductTotal.Equal(created.ProductTotal))
	assert.True(t, got.SalesTax.Equal(created.SalesTax))
	assert.True(t, got.Shipping.Equal(created.Shipping))
	assert.True(t, got.InvoiceTotal.Equal(created.InvoiceTotal))
}

func TestInvoicesCreateVanishedCustomer(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	_, err := b.Invoices().Create(ctx, types.Invoice{
		CustomerID:   42,
		InvoiceDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ProductTotal: decimal.RequireFromString("109.00"),
		SalesTax:     decimal.RequireFromString("8.25"),
		Shipping:     decimal.RequireFromString("5.00"),
		InvoiceTotal: decimal.RequireFromString("122.25"),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrDuplicateKey)

	var dangling *types.DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "customerId", dangling.Field)
	assert.Equal(t, "42", dangling.Value)
}

func TestInvoicesListByCustomer(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	mustState(t, b, "OR", "Oregon")
	vi := mustCustomer(t, b, "Vi Swenson", "OR")
	lee := mustCustomer(t, b, "Lee Adama", "OR")

	first := mustInvoice(t, b, vi.CustomerID)
	second := mustInvoice(t, b, vi.CustomerID)
	mustInvoice(t, b, lee.CustomerID)

	invoices, err := b.Invoices().ListByCustomer(ctx, vi.CustomerID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, first.InvoiceID, invoices[0].InvoiceID)
	assert.Equal(t, second.InvoiceID, invoices[1].InvoiceID)

	all, err := b.Invoices().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInvoicesUpdate(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	mustState(t, b, "OR", "Oregon")
	cust := mustCustomer(t, b, "Vi Swenson", "OR")
	inv := mustInvoice(t, b, cust.CustomerID)

	inv.Shipping = decimal.RequireFromString("0.00")
	inv.InvoiceTotal = decimal.RequireFromString("117.25")
	require.NoError(t, b.Invoices().Update(ctx, inv.InvoiceID, inv))

	got, err := b.Invoices().Get(ctx, inv.InvoiceID)
	require.NoError(t, err)
	assert.True(t, got.InvoiceTotal.Equal(inv.InvoiceTotal))
	assert.Equal(t, int64(2), got.RowVersion)

	// The pre-update snapshot is stale now.
	err = b.Invoices().Update(ctx, inv.InvoiceID, inv)
	assert.ErrorIs(t, err, types.ErrStaleWrite)

	err = b.Invoices().Update(ctx, 999, types.Invoice{InvoiceID: 999, CustomerID: cust.CustomerID, RowVersion: 1})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInvoicesDeleteCascadesLineItems(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	mustState(t, b, "OR", "Oregon")
	mustProduct(t, b, "CS10", "Murach's C# 2010", "54.50")
	mustProduct(t, b, "VB10", "Murach's Visual Basic 2010", "54.50")
	cust := mustCustomer(t, b, "Vi Swenson", "OR")
	inv := mustInvoice(t, b, cust.CustomerID)
	first := mustLineItem(t, b, inv.InvoiceID, "CS10", "54.50", 1)
	second := mustLineItem(t, b, inv.InvoiceID, "VB10", "54.50", 1)

	// The default policy cascades: line items cannot outlive their invoice.
	require.NoError(t, b.Invoices().Delete(ctx, inv.InvoiceID))

	_, err := b.Invoices().Get(ctx, inv.InvoiceID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.LineItems().Get(ctx, first.Key())
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.LineItems().Get(ctx, second.Key())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInvoicesDeleteBlockedWhenCascadeDisabled(t *testing.T) {
	b := setupBackendCascade(t, types.CascadePolicy{types.RelInvoiceLineItems: false})
	ctx := context.Background()

	mustState(t, b, "OR", "Oregon")
	mustProduct(t, b, "CS10", "Murach's C# 2010", "54.50")
	cust := mustCustomer(t, b, "Vi Swenson", "OR")
	inv := mustInvoice(t, b, cust.CustomerID)
	mustLineItem(t, b, inv.InvoiceID, "CS10", "54.50", 1)

	err := b.Invoices().Delete(ctx, inv.InvoiceID)
	assert.ErrorIs(t, err, types.ErrReferencedByChildren)
}
