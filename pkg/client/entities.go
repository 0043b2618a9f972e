// Typed per-entity calls. Paths mirror the server's routing table; update
// returns no body (the caller already holds the data it submitted).
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// ListStates returns all states ordered by name.
func (c *Client) ListStates(ctx context.Context) ([]types.State, error) {
	var out []types.State
	_, err := c.do(ctx, http.MethodGet, "/api/states", nil, &out)
	return out, err
}

// GetState returns the state with the given code.
func (c *Client) GetState(ctx context.Context, code string) (types.State, error) {
	var out types.State
	_, err := c.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(code), nil, &out)
	return out, err
}

// CreateState creates a new state.
func (c *Client) CreateState(ctx context.Context, st types.State) (types.State, error) {
	var out types.State
	_, err := c.do(ctx, http.MethodPost, "/api/states", st, &out)
	return out, err
}

// UpdateState replaces the state at code. The submitted RowVersion must
// match the persisted one.
func (c *Client) UpdateState(ctx context.Context, code string, st types.State) error {
	_, err := c.do(ctx, http.MethodPut, "/api/states/"+url.PathEscape(code), st, nil)
	return err
}

// DeleteState removes the state.
func (c *Client) DeleteState(ctx context.Context, code string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/states/"+url.PathEscape(code), nil, nil)
	return err
}

// UpsertState atomically creates or replaces the state, reporting whether
// a new row was created.
func (c *Client) UpsertState(ctx context.Context, st types.State) (types.State, bool, error) {
	var out types.State
	status, err := c.do(ctx, http.MethodPut,
		"/api/states/"+url.PathEscape(st.StateCode)+"?mode=upsert", st, &out)
	return out, status == http.StatusCreated, err
}

// ListCustomers returns all customers ordered by name.
func (c *Client) ListCustomers(ctx context.Context) ([]types.Customer, error) {
	var out []types.Customer
	_, err := c.do(ctx, http.MethodGet, "/api/customers", nil, &out)
	return out, err
}

// GetCustomer returns the customer with the given id.
func (c *Client) GetCustomer(ctx context.Context, id int64) (types.Customer, error) {
	var out types.Customer
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil, &out)
	return out, err
}

// CreateCustomer creates a new customer; the returned copy carries the
// server-assigned id.
func (c *Client) CreateCustomer(ctx context.Context, cust types.Customer) (types.Customer, error) {
	var out types.Customer
	_, err := c.do(ctx, http.MethodPost, "/api/customers", cust, &out)
	return out, err
}

// UpdateCustomer replaces the customer at id.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, cust types.Customer) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/customers/%d", id), cust, nil)
	return err
}

// DeleteCustomer removes the customer.
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil, nil)
	return err
}

// ListProducts returns all products ordered by description.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var out []types.Product
	_, err := c.do(ctx, http.MethodGet, "/api/products", nil, &out)
	return out, err
}

// GetProduct returns the product with the given code.
func (c *Client) GetProduct(ctx context.Context, code string) (types.Product, error) {
	var out types.Product
	_, err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(code), nil, &out)
	return out, err
}

// CreateProduct creates a new product.
func (c *Client) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	var out types.Product
	_, err := c.do(ctx, http.MethodPost, "/api/products", p, &out)
	return out, err
}

// UpdateProduct replaces the product at code.
func (c *Client) UpdateProduct(ctx context.Context, code string, p types.Product) error {
	_, err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(code), p, nil)
	return err
}

// DeleteProduct removes the product.
func (c *Client) DeleteProduct(ctx context.Context, code string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(code), nil, nil)
	return err
}

// UpsertProduct atomically creates or replaces the product, reporting
// whether a new row was created.
func (c *Client) UpsertProduct(ctx context.Context, p types.Product) (types.Product, bool, error) {
	var out types.Product
	status, err := c.do(ctx, http.MethodPut,
		"/api/products/"+url.PathEscape(p.ProductCode)+"?mode=upsert", p, &out)
	return out, status == http.StatusCreated, err
}

// ListInvoices returns all invoices ordered by id.
func (c *Client) ListInvoices(ctx context.Context) ([]types.Invoice, error) {
	var out []types.Invoice
	_, err := c.do(ctx, http.MethodGet, "/api/invoices", nil, &out)
	return out, err
}

// ListCustomerInvoices returns the invoices referencing one customer.
func (c *Client) ListCustomerInvoices(ctx context.Context, customerID int64) ([]types.Invoice, error) {
	var out []types.Invoice
	_, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/api/customers/%d/invoices", customerID), nil, &out)
	return out, err
}

// GetInvoice returns the invoice with the given id.
func (c *Client) GetInvoice(ctx context.Context, id int64) (types.Invoice, error) {
	var out types.Invoice
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/invoices/%d", id), nil, &out)
	return out, err
}

// CreateInvoice creates a new invoice; the returned copy carries the
// server-assigned id.
func (c *Client) CreateInvoice(ctx context.Context, inv types.Invoice) (types.Invoice, error) {
	var out types.Invoice
	_, err := c.do(ctx, http.MethodPost, "/api/invoices", inv, &out)
	return out, err
}

// UpdateInvoice replaces the invoice at id.
func (c *Client) UpdateInvoice(ctx context.Context, id int64, inv types.Invoice) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/invoices/%d", id), inv, nil)
	return err
}

// DeleteInvoice removes the invoice and, per server policy, its line items.
func (c *Client) DeleteInvoice(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/invoices/%d", id), nil, nil)
	return err
}

func lineItemPath(key types.LineItemKey) string {
	return fmt.Sprintf("/api/invoices/%d/lineitems/%s",
		key.InvoiceID, url.PathEscape(key.ProductCode))
}

// ListLineItems returns the line items of one invoice.
func (c *Client) ListLineItems(ctx context.Context, invoiceID int64) ([]types.InvoiceLineItem, error) {
	var out []types.InvoiceLineItem
	_, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/api/invoices/%d/lineitems", invoiceID), nil, &out)
	return out, err
}

// GetLineItem returns the line item under the composite key.
func (c *Client) GetLineItem(ctx context.Context, key types.LineItemKey) (types.InvoiceLineItem, error) {
	var out types.InvoiceLineItem
	_, err := c.do(ctx, http.MethodGet, lineItemPath(key), nil, &out)
	return out, err
}

// CreateLineItem creates a new line item under its invoice.
func (c *Client) CreateLineItem(ctx context.Context, li types.InvoiceLineItem) (types.InvoiceLineItem, error) {
	var out types.InvoiceLineItem
	_, err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/api/invoices/%d/lineitems", li.InvoiceID), li, &out)
	return out, err
}

// UpdateLineItem replaces the line item at key.
func (c *Client) UpdateLineItem(ctx context.Context, key types.LineItemKey, li types.InvoiceLineItem) error {
	_, err := c.do(ctx, http.MethodPut, lineItemPath(key), li, nil)
	return err
}

// DeleteLineItem removes the line item.
func (c *Client) DeleteLineItem(ctx context.Context, key types.LineItemKey) error {
	_, err := c.do(ctx, http.MethodDelete, lineItemPath(key), nil, nil)
	return err
}
