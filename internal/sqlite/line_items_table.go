// This file implements the invoice line item collection store, keyed by the
// (invoice_id, product_code) composite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Compile-time interface check: lineItemsTable must implement LineItemStore.
var _ types.LineItemStore = (*lineItemsTable)(nil)

type lineItemsTable struct {
	backend *Backend
}

const lineItemColumns = "invoice_id, product_code, unit_price, quantity, item_total, row_version"

func scanLineItem(row interface{ Scan(...any) error }) (types.InvoiceLineItem, error) {
	var li types.InvoiceLineItem
	var unitPrice, itemTotal string
	if err := row.Scan(&li.InvoiceID, &li.ProductCode, &unitPrice, &li.Quantity,
		&itemTotal, &li.RowVersion); err != nil {
		return types.InvoiceLineItem{}, err
	}
	var err error
	if li.UnitPrice, err = decodeDecimal("unit_price", unitPrice); err != nil {
		return types.InvoiceLineItem{}, err
	}
	if li.ItemTotal, err = decodeDecimal("item_total", itemTotal); err != nil {
		return types.InvoiceLineItem{}, err
	}
	return li, nil
}

func (t *lineItemsTable) query(ctx context.Context, query string, args ...any) ([]types.InvoiceLineItem, error) {
	db, err := t.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyErr(fmt.Errorf("listing line items: %w", err))
	}
	defer rows.Close()

	items := []types.InvoiceLineItem{}
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning line item: %w", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(fmt.Errorf("iterating line items: %w", err))
	}
	return items, nil
}

// List returns all line items ordered by invoice id, then product code.
func (t *lineItemsTable) List(ctx context.Context) ([]types.InvoiceLineItem, error) {
	return t.query(ctx,
		"SELECT "+lineItemColumns+" FROM invoice_line_items ORDER BY invoice_id, product_code")
}

// ListByInvoice returns the line items of one invoice, ordered by product
// code.
func (t *lineItemsTable) ListByInvoice(ctx context.Context, invoiceID int64) ([]types.InvoiceLineItem, error) {
	return t.query(ctx,
		"SELECT "+lineItemColumns+" FROM invoice_line_items WHERE invoice_id = ? ORDER BY product_code",
		invoiceID)
}

// Get retrieves a line item by its composite key. Returns ErrNotFound if
// absent.
func (t *lineItemsTable) Get(ctx context.Context, key types.LineItemKey) (types.InvoiceLineItem, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.InvoiceLineItem{}, err
	}

	li, err := scanLineItem(db.QueryRowContext(ctx,
		"SELECT "+lineItemColumns+" FROM invoice_line_items WHERE invoice_id = ? AND product_code = ?",
		key.InvoiceID, key.ProductCode))
	if err == sql.ErrNoRows {
		return types.InvoiceLineItem{}, types.ErrNotFound
	}
	if err != nil {
		return types.InvoiceLineItem{}, classifyErr(fmt.Errorf("getting line item %s: %w", key, err))
	}
	return li, nil
}

// Create inserts a new line item at row version 1. The composite primary
// key arbitrates concurrent creates.
func (t *lineItemsTable) Create(ctx context.Context, li types.InvoiceLineItem) (types.InvoiceLineItem, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.InvoiceLineItem{}, err
	}

	li.RowVersion = 1
	_, err = db.ExecContext(ctx,
		"INSERT INTO invoice_line_items ("+lineItemColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		li.InvoiceID, li.ProductCode, encodeDecimal(li.UnitPrice), li.Quantity,
		encodeDecimal(li.ItemTotal), li.RowVersion)
	if err != nil {
		// The composite carries two foreign keys; after the FK backstop
		// fires, probe which parent is gone to name the offending field.
		if isForeignKeyViolation(err) {
			return types.InvoiceLineItem{}, t.danglingParent(ctx, db, li)
		}
		return types.InvoiceLineItem{}, classifyInsertErr(err, li.Key().String())
	}
	return li, nil
}

func (t *lineItemsTable) danglingParent(ctx context.Context, db *sql.DB, li types.InvoiceLineItem) error {
	exists, err := rowExists(ctx, db,
		"SELECT 1 FROM invoices WHERE invoice_id = ?", li.InvoiceID)
	if err != nil {
		return err
	}
	if !exists {
		return &types.DanglingReferenceError{
			Field: "invoiceId",
			Value: strconv.FormatInt(li.InvoiceID, 10),
		}
	}
	return &types.DanglingReferenceError{Field: "productCode", Value: li.ProductCode}
}

// Update replaces the line item via a compare-and-swap on the submitted row
// version.
func (t *lineItemsTable) Update(ctx context.Context, key types.LineItemKey, li types.InvoiceLineItem) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE invoice_line_items SET unit_price = ?, quantity = ?, item_total = ?,
		 row_version = row_version + 1
		 WHERE invoice_id = ? AND product_code = ? AND row_version = ?`,
		encodeDecimal(li.UnitPrice), li.Quantity, encodeDecimal(li.ItemTotal),
		key.InvoiceID, key.ProductCode, li.RowVersion)
	if err != nil {
		return classifyErr(fmt.Errorf("updating line item %s: %w", key, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating line item %s: %w", key, err)
	}
	if n == 0 {
		exists, err := rowExists(ctx, db,
			"SELECT 1 FROM invoice_line_items WHERE invoice_id = ? AND product_code = ?",
			key.InvoiceID, key.ProductCode)
		if err != nil {
			return err
		}
		return classifyWriteMiss(exists)
	}
	return nil
}

// Delete removes the line item. Line items have no children, so no policy
// applies.
func (t *lineItemsTable) Delete(ctx context.Context, key types.LineItemKey) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		"DELETE FROM invoice_line_items WHERE invoice_id = ? AND product_code = ?",
		key.InvoiceID, key.ProductCode)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting line item %s: %w", key, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting line item %s: %w", key, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
