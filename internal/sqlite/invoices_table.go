// This file implements the invoice collection store. Invoice ids are
// allocated by SQLite's AUTOINCREMENT on insert: monotonic, never reused.
// Deleting an invoice cascades to its line items by default: a line item
// cannot outlive its invoice.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Compile-time interface check: invoicesTable must implement InvoiceStore.
var _ types.InvoiceStore = (*invoicesTable)(nil)

type invoicesTable struct {
	backend *Backend
}

const invoiceColumns = "invoice_id, customer_id, invoice_date, product_total, sales_tax, shipping, invoice_total, row_version"

func scanInvoice(row interface{ Scan(...any) error }) (types.Invoice, error) {
	var inv types.Invoice
	var date, productTotal, salesTax, shipping, invoiceTotal string
	if err := row.Scan(&inv.InvoiceID, &inv.CustomerID, &date, &productTotal,
		&salesTax, &shipping, &invoiceTotal, &inv.RowVersion); err != nil {
		return types.Invoice{}, err
	}
	var err error
	if inv.InvoiceDate, err = decodeTime("invoice_date", date); err != nil {
		return types.Invoice{}, err
	}
	if inv.ProductTotal, err = decodeDecimal("product_total", productTotal); err != nil {
		return types.Invoice{}, err
	}
	if inv.SalesTax, err = decodeDecimal("sales_tax", salesTax); err != nil {
		return types.Invoice{}, err
	}
	if inv.Shipping, err = decodeDecimal("shipping", shipping); err != nil {
		return types.Invoice{}, err
	}
	if inv.InvoiceTotal, err = decodeDecimal("invoice_total", invoiceTotal); err != nil {
		return types.Invoice{}, err
	}
	return inv, nil
}

func (t *invoicesTable) query(ctx context.Context, query string, args ...any) ([]types.Invoice, error) {
	db, err := t.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyErr(fmt.Errorf("listing invoices: %w", err))
	}
	defer rows.Close()

	invoices := []types.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(fmt.Errorf("iterating invoices: %w", err))
	}
	return invoices, nil
}

// List returns all invoices ordered by invoice id.
func (t *invoicesTable) List(ctx context.Context) ([]types.Invoice, error) {
	return t.query(ctx, "SELECT "+invoiceColumns+" FROM invoices ORDER BY invoice_id")
}

// ListByCustomer returns the invoices referencing the given customer.
func (t *invoicesTable) ListByCustomer(ctx context.Context, customerID int64) ([]types.Invoice, error) {
	return t.query(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE customer_id = ? ORDER BY invoice_id",
		customerID)
}

// Get retrieves an invoice by id. Returns ErrNotFound if absent.
func (t *invoicesTable) Get(ctx context.Context, id int64) (types.Invoice, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Invoice{}, err
	}

	inv, err := scanInvoice(db.QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE invoice_id = ?", id))
	if err == sql.ErrNoRows {
		return types.Invoice{}, types.ErrNotFound
	}
	if err != nil {
		return types.Invoice{}, classifyErr(fmt.Errorf("getting invoice %d: %w", id, err))
	}
	return inv, nil
}

// Create inserts a new invoice and returns it with the server-assigned id
// and row version 1.
func (t *invoicesTable) Create(ctx context.Context, inv types.Invoice) (types.Invoice, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Invoice{}, err
	}

	inv.RowVersion = 1
	res, err := db.ExecContext(ctx,
		`INSERT INTO invoices (customer_id, invoice_date, product_total, sales_tax, shipping, invoice_total, row_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.CustomerID, encodeTime(inv.InvoiceDate), encodeDecimal(inv.ProductTotal),
		encodeDecimal(inv.SalesTax), encodeDecimal(inv.Shipping),
		encodeDecimal(inv.InvoiceTotal), inv.RowVersion)
	if err != nil {
		// The referenced customer can vanish between the integrity probe
		// and the insert; the FK backstop catches it here.
		if isForeignKeyViolation(err) {
			return types.Invoice{}, &types.DanglingReferenceError{
				Field: "customerId",
				Value: strconv.FormatInt(inv.CustomerID, 10),
			}
		}
		return types.Invoice{}, classifyErr(fmt.Errorf("creating invoice: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Invoice{}, fmt.Errorf("reading assigned invoice id: %w", err)
	}
	inv.InvoiceID = id
	return inv, nil
}

// Update replaces the invoice via a compare-and-swap on the submitted row
// version.
func (t *invoicesTable) Update(ctx context.Context, id int64, inv types.Invoice) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE invoices SET customer_id = ?, invoice_date = ?, product_total = ?, sales_tax = ?,
		 shipping = ?, invoice_total = ?, row_version = row_version + 1
		 WHERE invoice_id = ? AND row_version = ?`,
		inv.CustomerID, encodeTime(inv.InvoiceDate), encodeDecimal(inv.ProductTotal),
		encodeDecimal(inv.SalesTax), encodeDecimal(inv.Shipping),
		encodeDecimal(inv.InvoiceTotal), id, inv.RowVersion)
	if err != nil {
		return classifyErr(fmt.Errorf("updating invoice %d: %w", id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating invoice %d: %w", id, err)
	}
	if n == 0 {
		exists, err := rowExists(ctx, db, "SELECT 1 FROM invoices WHERE invoice_id = ?", id)
		if err != nil {
			return err
		}
		return classifyWriteMiss(exists)
	}
	return nil
}

// Delete removes the invoice and, per the default cascade policy, its line
// items in the same transaction.
func (t *invoicesTable) Delete(ctx context.Context, id int64) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting invoice %d: %w", id, err))
	}
	defer tx.Rollback()

	var children int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoice_line_items WHERE invoice_id = ?", id).Scan(&children)
	if err != nil {
		return classifyErr(fmt.Errorf("counting line items of invoice %d: %w", id, err))
	}
	if children > 0 {
		if !t.backend.cascades(types.RelInvoiceLineItems) {
			return types.ErrReferencedByChildren
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM invoice_line_items WHERE invoice_id = ?", id); err != nil {
			return classifyErr(fmt.Errorf("cascading invoice %d to line items: %w", id, err))
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM invoices WHERE invoice_id = ?", id)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting invoice %d: %w", id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return classifyErr(fmt.Errorf("committing invoice delete: %w", err))
	}
	return nil
}
