// Unit tests for the entity services over a real SQLite store: identity
// rules, integrity rejection, and the capability descriptors.
package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/orderdesk/internal/sqlite"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func setupServices(t *testing.T) *Services {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return New(b)
}

func testInvoice(customerID int64) types.Invoice {
	return types.Invoice{
		CustomerID:   customerID,
		InvoiceDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ProductTotal: decimal.RequireFromString("109.00"),
		SalesTax:     decimal.RequireFromString("8.25"),
		Shipping:     decimal.RequireFromString("5.00"),
		InvoiceTotal: decimal.RequireFromString("122.25"),
	}
}

func TestDescriptors(t *testing.T) {
	s := setupServices(t)

	byName := map[string]Descriptor{}
	for _, d := range s.Descriptors() {
		byName[d.Name] = d
	}
	require.Len(t, byName, 5)

	assert.Equal(t, Descriptor{Name: "states", KeyMode: CallerAssigned, Upsert: true}, byName["states"])
	assert.Equal(t, Descriptor{Name: "products", KeyMode: CallerAssigned, Upsert: true}, byName["products"])
	assert.Equal(t, Descriptor{Name: "customers", KeyMode: ServerAssigned, Upsert: false}, byName["customers"])
	assert.Equal(t, Descriptor{Name: "invoices", KeyMode: ServerAssigned, Upsert: false}, byName["invoices"])
	assert.Equal(t, Descriptor{Name: "lineitems", KeyMode: CallerAssigned, Upsert: false}, byName["lineitems"])
}

func TestStateServiceIdentity(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	created, err := s.States.Create(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)

	t.Run("create rejects invalid entity", func(t *testing.T) {
		_, err := s.States.Create(ctx, types.State{StateCode: "WA"})
		assert.ErrorIs(t, err, types.ErrInvalidEntity)
	})

	t.Run("create rejects duplicate before storage", func(t *testing.T) {
		_, err := s.States.Create(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
		assert.ErrorIs(t, err, types.ErrDuplicateKey)
	})

	t.Run("update rejects identity change", func(t *testing.T) {
		moved := created
		moved.StateCode = "WA"
		err := s.States.Update(ctx, "OR", moved)
		assert.ErrorIs(t, err, types.ErrKeyMismatch)
	})

	t.Run("update at matching key succeeds", func(t *testing.T) {
		next := created
		next.StateName = "State of Oregon"
		require.NoError(t, s.States.Update(ctx, "OR", next))
	})
}

func TestCustomerServiceServerAssignedID(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.States.Create(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)

	cust := types.Customer{
		Name:      "Vi Swenson",
		Address:   "105 NW 1st Ave",
		City:      "Portland",
		StateCode: "OR",
		ZipCode:   "97209",
	}

	t.Run("create rejects a submitted id", func(t *testing.T) {
		withID := cust
		withID.CustomerID = 7
		_, err := s.Customers.Create(ctx, withID)
		assert.ErrorIs(t, err, types.ErrInvalidEntity)
	})

	t.Run("create rejects a dangling state code", func(t *testing.T) {
		dangling := cust
		dangling.StateCode = "ZZ"
		_, err := s.Customers.Create(ctx, dangling)
		assert.ErrorIs(t, err, types.ErrDanglingReference)
	})

	t.Run("create assigns the id", func(t *testing.T) {
		created, err := s.Customers.Create(ctx, cust)
		require.NoError(t, err)
		assert.NotZero(t, created.CustomerID)

		// Updating under a different id is an identity mismatch.
		err = s.Customers.Update(ctx, created.CustomerID+1, created)
		assert.ErrorIs(t, err, types.ErrKeyMismatch)
	})
}

func TestInvoiceServiceIntegrity(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.States.Create(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)
	cust, err := s.Customers.Create(ctx, types.Customer{
		Name: "Vi Swenson", Address: "105 NW 1st Ave", City: "Portland",
		StateCode: "OR", ZipCode: "97209",
	})
	require.NoError(t, err)

	t.Run("create rejects a submitted id", func(t *testing.T) {
		inv := testInvoice(cust.CustomerID)
		inv.InvoiceID = 7
		_, err := s.Invoices.Create(ctx, inv)
		assert.ErrorIs(t, err, types.ErrInvalidEntity)
	})

	t.Run("create rejects a dangling customer", func(t *testing.T) {
		_, err := s.Invoices.Create(ctx, testInvoice(999))
		assert.ErrorIs(t, err, types.ErrDanglingReference)
	})

	t.Run("create rejects an inconsistent total", func(t *testing.T) {
		inv := testInvoice(cust.CustomerID)
		inv.InvoiceTotal = decimal.RequireFromString("999.99")
		_, err := s.Invoices.Create(ctx, inv)
		assert.ErrorIs(t, err, types.ErrInconsistentTotal)
	})

	t.Run("consistent invoice commits", func(t *testing.T) {
		created, err := s.Invoices.Create(ctx, testInvoice(cust.CustomerID))
		require.NoError(t, err)
		assert.NotZero(t, created.InvoiceID)
	})
}

func TestLineItemServiceIntegrity(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.States.Create(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)
	cust, err := s.Customers.Create(ctx, types.Customer{
		Name: "Vi Swenson", Address: "105 NW 1st Ave", City: "Portland",
		StateCode: "OR", ZipCode: "97209",
	})
	require.NoError(t, err)
	_, err = s.Products.Create(ctx, types.Product{
		ProductCode: "CS10",
		Description: "Murach's C# 2010",
		UnitPrice:   decimal.RequireFromString("54.50"),
	})
	require.NoError(t, err)
	inv, err := s.Invoices.Create(ctx, testInvoice(cust.CustomerID))
	require.NoError(t, err)

	li := types.InvoiceLineItem{
		InvoiceID:   inv.InvoiceID,
		ProductCode: "CS10",
		UnitPrice:   decimal.RequireFromString("54.50"),
		Quantity:    2,
		ItemTotal:   decimal.RequireFromString("109.00"),
	}

	t.Run("create rejects an inconsistent item total", func(t *testing.T) {
		bad := li
		bad.ItemTotal = decimal.RequireFromString("100.00")
		_, err := s.LineItems.Create(ctx, bad)
		assert.ErrorIs(t, err, types.ErrInconsistentTotal)
	})

	t.Run("create rejects a dangling product", func(t *testing.T) {
		bad := li
		bad.ProductCode = "ZZ99"
		_, err := s.LineItems.Create(ctx, bad)
		assert.ErrorIs(t, err, types.ErrDanglingReference)
	})

	t.Run("consistent line item commits", func(t *testing.T) {
		created, err := s.LineItems.Create(ctx, li)
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.RowVersion)
	})

	t.Run("update rejects identity change", func(t *testing.T) {
		moved := li
		moved.RowVersion = 1
		err := s.LineItems.Update(ctx, types.LineItemKey{InvoiceID: inv.InvoiceID, ProductCode: "VB10"}, moved)
		assert.ErrorIs(t, err, types.ErrKeyMismatch)
	})
}
