// Client tests against a live httptest server running the real handler
// stack, so the wire codec and the sentinel rehydration are exercised end
// to end.
package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/orderdesk/internal/httpapi"
	"github.com/mesh-intelligence/orderdesk/internal/service"
	"github.com/mesh-intelligence/orderdesk/internal/sqlite"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func setupServer(t *testing.T) *Client {
	t.Helper()
	handler := setupMux(t)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func setupMux(t *testing.T) http.Handler {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return httpapi.NewHandler(service.New(b), 0).Mux()
}

// setupServerNoUpsert fronts the real handler with a mux that denies the
// capability advertisement, forcing the reconciler onto probe-then-act.
func setupServerNoUpsert(t *testing.T) *Client {
	t.Helper()
	handler := setupMux(t)
	front := http.NewServeMux()
	front.HandleFunc("GET /api/capabilities", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	})
	front.Handle("/", handler)
	srv := httptest.NewServer(front)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestTypedErrorsRehydrate(t *testing.T) {
	c := setupServer(t)
	ctx := context.Background()

	_, err := c.GetState(ctx, "ZZ")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = c.CreateState(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)

	_, err = c.CreateState(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	assert.ErrorIs(t, err, types.ErrDuplicateKey)

	err = c.UpdateState(ctx, "OR", types.State{StateCode: "OR", StateName: "Oregon", RowVersion: 99})
	assert.ErrorIs(t, err, types.ErrStaleWrite)

	_, err = c.CreateCustomer(ctx, types.Customer{
		Name: "Vi Swenson", Address: "105 NW 1st Ave", City: "Portland",
		StateCode: "ZZ", ZipCode: "97209",
	})
	assert.ErrorIs(t, err, types.ErrDanglingReference)
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	c := New("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))

	_, err := c.GetState(context.Background(), "OR")
	assert.ErrorIs(t, err, types.ErrUnavailable)
}

func TestCRUDRoundTrip(t *testing.T) {
	c := setupServer(t)
	ctx := context.Background()

	created, err := c.CreateState(ctx, types.State{StateCode: "WA", StateName: "Washington"})
	require.NoError(t, err)

	got, err := c.GetState(ctx, "WA")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	states, err := c.ListStates(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 1)

	require.NoError(t, c.DeleteState(ctx, "WA"))
	_, err = c.GetState(ctx, "WA")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSaveStatePrefersUpsert(t *testing.T) {
	c := setupServer(t)
	ctx := context.Background()

	saved, outcome, err := c.SaveState(ctx, types.State{StateCode: "W2", StateName: "Wash2ton"}, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, int64(1), saved.RowVersion)

	saved, outcome, err = c.SaveState(ctx, types.State{StateCode: "W2", StateName: "Washington Too"}, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, int64(2), saved.RowVersion)

	got, err := c.GetState(ctx, "W2")
	require.NoError(t, err)
	assert.Equal(t, "Washington Too", got.StateName)
}

func TestSaveStateUpsertRetriesTransient(t *testing.T) {
	handler := setupMux(t)

	// Fail the upsert call itself a configurable number of times; the
	// capability advertisement and everything else pass through.
	var failures atomic.Int32
	front := http.NewServeMux()
	front.HandleFunc("PUT /api/states/{code}", func(w http.ResponseWriter, r *http.Request) {
		if failures.Add(-1) >= 0 {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		handler.ServeHTTP(w, r)
	})
	front.Handle("/", handler)
	srv := httptest.NewServer(front)
	t.Cleanup(srv.Close)
	c := New(srv.URL)
	ctx := context.Background()

	// Budget zero: a single attempt, the outage surfaces.
	failures.Store(1)
	_, _, err := c.SaveState(ctx, types.State{StateCode: "W2", StateName: "Wash2ton"}, ReconcileOptions{})
	assert.ErrorIs(t, err, types.ErrUnavailable)

	// One budgeted retry rides out the same single outage.
	failures.Store(1)
	saved, outcome, err := c.SaveState(ctx, types.State{StateCode: "W2", StateName: "Wash2ton"}, ReconcileOptions{Budget: 1})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, int64(1), saved.RowVersion)
}

func TestSaveStateProbeThenAct(t *testing.T) {
	c := setupServerNoUpsert(t)
	ctx := context.Background()

	saved, outcome, err := c.SaveState(ctx, types.State{StateCode: "OR", StateName: "Oregon"}, ReconcileOptions{Budget: 2})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, int64(1), saved.RowVersion)

	// The probe finds the row now, so the same call routes to update and
	// carries the observed row version.
	saved, outcome, err = c.SaveState(ctx, types.State{StateCode: "OR", StateName: "State of Oregon"}, ReconcileOptions{Budget: 2})
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, int64(2), saved.RowVersion)

	got, err := c.GetState(ctx, "OR")
	require.NoError(t, err)
	assert.Equal(t, "State of Oregon", got.StateName)
	assert.Equal(t, int64(2), got.RowVersion)
}

func TestSaveCustomer(t *testing.T) {
	c := setupServer(t)
	ctx := context.Background()

	_, err := c.CreateState(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)

	cust := types.Customer{
		Name: "Vi Swenson", Address: "105 NW 1st Ave", City: "Portland",
		StateCode: "OR", ZipCode: "97209",
	}

	// No id: always a create.
	saved, outcome, err := c.SaveCustomer(ctx, cust, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	require.NotZero(t, saved.CustomerID)

	// With the id: reconciles to an update at the persisted version.
	saved.City = "Salem"
	updated, outcome, err := c.SaveCustomer(ctx, saved, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, int64(2), updated.RowVersion)

	// An id that never existed cannot be recreated; ids are never reused.
	ghost := cust
	ghost.CustomerID = saved.CustomerID + 100
	_, _, err = c.SaveCustomer(ctx, ghost, ReconcileOptions{Budget: 1})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSaveLineItem(t *testing.T) {
	c := setupServer(t)
	ctx := context.Background()

	_, err := c.CreateState(ctx, types.State{StateCode: "OR", StateName: "Oregon"})
	require.NoError(t, err)
	cust, err := c.CreateCustomer(ctx, types.Customer{
		Name: "Vi Swenson", Address: "105 NW 1st Ave", City: "Portland",
		StateCode: "OR", ZipCode: "97209",
	})
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, types.Product{
		ProductCode: "CS10",
		Description: "Murach's C# 2010",
		UnitPrice:   decimal.RequireFromString("54.50"),
	})
	require.NoError(t, err)
	inv, err := c.CreateInvoice(ctx, types.Invoice{
		CustomerID:   cust.CustomerID,
		InvoiceDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ProductTotal: decimal.RequireFromString("109.00"),
		SalesTax:     decimal.RequireFromString("8.25"),
		Shipping:     decimal.RequireFromString("5.00"),
		InvoiceTotal: decimal.RequireFromString("122.25"),
	})
	require.NoError(t, err)

	li := types.InvoiceLineItem{
		InvoiceID:   inv.InvoiceID,
		ProductCode: "CS10",
		UnitPrice:   decimal.RequireFromString("54.50"),
		Quantity:    2,
		ItemTotal:   decimal.RequireFromString("109.00"),
	}

	saved, outcome, err := c.SaveLineItem(ctx, li, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, int64(1), saved.RowVersion)

	li.Quantity = 3
	li.ItemTotal = decimal.RequireFromString("163.50")
	saved, outcome, err = c.SaveLineItem(ctx, li, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, int64(2), saved.RowVersion)

	got, err := c.GetLineItem(ctx, li.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "updated", Updated.String())
}
