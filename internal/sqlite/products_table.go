// This file implements the product collection store. Products use a
// caller-assigned code as the primary key; unit prices are stored as decimal
// text so no precision is lost.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Compile-time interface check: productsTable must implement ProductStore.
var _ types.ProductStore = (*productsTable)(nil)

type productsTable struct {
	backend *Backend
}

func scanProduct(row interface{ Scan(...any) error }) (types.Product, error) {
	var p types.Product
	var unitPrice string
	if err := row.Scan(&p.ProductCode, &p.Description, &unitPrice,
		&p.OnHandQuantity, &p.RowVersion); err != nil {
		return types.Product{}, err
	}
	d, err := decodeDecimal("unit_price", unitPrice)
	if err != nil {
		return types.Product{}, err
	}
	p.UnitPrice = d
	return p, nil
}

// List returns all products ordered by description.
func (t *productsTable) List(ctx context.Context) ([]types.Product, error) {
	db, err := t.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT product_code, description, unit_price, on_hand_quantity, row_version FROM products ORDER BY description")
	if err != nil {
		return nil, classifyErr(fmt.Errorf("listing products: %w", err))
	}
	defer rows.Close()

	products := []types.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(fmt.Errorf("iterating products: %w", err))
	}
	return products, nil
}

// Get retrieves a product by code. Returns ErrNotFound if absent.
func (t *productsTable) Get(ctx context.Context, code string) (types.Product, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Product{}, err
	}

	p, err := scanProduct(db.QueryRowContext(ctx,
		"SELECT product_code, description, unit_price, on_hand_quantity, row_version FROM products WHERE product_code = ?",
		code))
	if err == sql.ErrNoRows {
		return types.Product{}, types.ErrNotFound
	}
	if err != nil {
		return types.Product{}, classifyErr(fmt.Errorf("getting product %s: %w", code, err))
	}
	return p, nil
}

// Create inserts a new product at row version 1. The primary-key constraint
// arbitrates concurrent creates of the same code.
func (t *productsTable) Create(ctx context.Context, p types.Product) (types.Product, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Product{}, err
	}

	p.RowVersion = 1
	_, err = db.ExecContext(ctx,
		"INSERT INTO products (product_code, description, unit_price, on_hand_quantity, row_version) VALUES (?, ?, ?, ?, ?)",
		p.ProductCode, p.Description, encodeDecimal(p.UnitPrice), p.OnHandQuantity, p.RowVersion)
	if err != nil {
		return types.Product{}, classifyInsertErr(err, p.ProductCode)
	}
	return p, nil
}

// Update replaces the product via a compare-and-swap on the submitted row
// version.
func (t *productsTable) Update(ctx context.Context, code string, p types.Product) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE products SET description = ?, unit_price = ?, on_hand_quantity = ?,
		 row_version = row_version + 1 WHERE product_code = ? AND row_version = ?`,
		p.Description, encodeDecimal(p.UnitPrice), p.OnHandQuantity, code, p.RowVersion)
	if err != nil {
		return classifyErr(fmt.Errorf("updating product %s: %w", code, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating product %s: %w", code, err)
	}
	if n == 0 {
		exists, err := rowExists(ctx, db, "SELECT 1 FROM products WHERE product_code = ?", code)
		if err != nil {
			return err
		}
		return classifyWriteMiss(exists)
	}
	return nil
}

// Delete removes the product, blocked while invoice line items reference it.
func (t *productsTable) Delete(ctx context.Context, code string) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting product %s: %w", code, err))
	}
	defer tx.Rollback()

	var children int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoice_line_items WHERE product_code = ?", code).Scan(&children)
	if err != nil {
		return classifyErr(fmt.Errorf("counting line items of product %s: %w", code, err))
	}
	if children > 0 {
		if !t.backend.cascades(types.RelProductLineItems) {
			return types.ErrReferencedByChildren
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM invoice_line_items WHERE product_code = ?", code); err != nil {
			return classifyErr(fmt.Errorf("cascading product %s to line items: %w", code, err))
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE product_code = ?", code)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting product %s: %w", code, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", code, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return classifyErr(fmt.Errorf("committing product delete: %w", err))
	}
	return nil
}

// Upsert atomically creates or replaces the product by code, reporting
// whether a new row was created.
func (t *productsTable) Upsert(ctx context.Context, p types.Product) (types.Product, bool, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Product{}, false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.Product{}, false, classifyErr(fmt.Errorf("upserting product: %w", err))
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx,
		"SELECT row_version FROM products WHERE product_code = ?", p.ProductCode).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		p.RowVersion = 1
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO products (product_code, description, unit_price, on_hand_quantity, row_version) VALUES (?, ?, ?, ?, ?)",
			p.ProductCode, p.Description, encodeDecimal(p.UnitPrice), p.OnHandQuantity, p.RowVersion); err != nil {
			return types.Product{}, false, classifyInsertErr(err, p.ProductCode)
		}
		if err := tx.Commit(); err != nil {
			return types.Product{}, false, classifyErr(fmt.Errorf("committing product upsert: %w", err))
		}
		return p, true, nil
	case err != nil:
		return types.Product{}, false, classifyErr(fmt.Errorf("probing product %s: %w", p.ProductCode, err))
	}

	p.RowVersion = version + 1
	if _, err := tx.ExecContext(ctx,
		"UPDATE products SET description = ?, unit_price = ?, on_hand_quantity = ?, row_version = ? WHERE product_code = ?",
		p.Description, encodeDecimal(p.UnitPrice), p.OnHandQuantity, p.RowVersion, p.ProductCode); err != nil {
		return types.Product{}, false, classifyErr(fmt.Errorf("replacing product %s: %w", p.ProductCode, err))
	}
	if err := tx.Commit(); err != nil {
		return types.Product{}, false, classifyErr(fmt.Errorf("committing product upsert: %w", err))
	}
	return p, false, nil
}
