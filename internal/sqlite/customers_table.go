// This file implements the customer collection store. Customer ids are
// allocated by SQLite's AUTOINCREMENT on insert: monotonic, never reused.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Compile-time interface check: customersTable must implement CustomerStore.
var _ types.CustomerStore = (*customersTable)(nil)

type customersTable struct {
	backend *Backend
}

const customerColumns = "customer_id, name, address, city, state_code, zip_code, row_version"

func scanCustomer(row interface{ Scan(...any) error }) (types.Customer, error) {
	var c types.Customer
	err := row.Scan(&c.CustomerID, &c.Name, &c.Address, &c.City, &c.StateCode,
		&c.ZipCode, &c.RowVersion)
	return c, err
}

// List returns all customers ordered by name.
func (t *customersTable) List(ctx context.Context) ([]types.Customer, error) {
	db, err := t.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY name")
	if err != nil {
		return nil, classifyErr(fmt.Errorf("listing customers: %w", err))
	}
	defer rows.Close()

	customers := []types.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(fmt.Errorf("iterating customers: %w", err))
	}
	return customers, nil
}

// Get retrieves a customer by id. Returns ErrNotFound if absent.
func (t *customersTable) Get(ctx context.Context, id int64) (types.Customer, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Customer{}, err
	}

	c, err := scanCustomer(db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE customer_id = ?", id))
	if err == sql.ErrNoRows {
		return types.Customer{}, types.ErrNotFound
	}
	if err != nil {
		return types.Customer{}, classifyErr(fmt.Errorf("getting customer %d: %w", id, err))
	}
	return c, nil
}

// Create inserts a new customer and returns it with the server-assigned id
// and row version 1.
func (t *customersTable) Create(ctx context.Context, c types.Customer) (types.Customer, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.Customer{}, err
	}

	c.RowVersion = 1
	res, err := db.ExecContext(ctx,
		"INSERT INTO customers (name, address, city, state_code, zip_code, row_version) VALUES (?, ?, ?, ?, ?, ?)",
		c.Name, c.Address, c.City, c.StateCode, c.ZipCode, c.RowVersion)
	if err != nil {
		// The integrity probe runs before the insert, but the referenced
		// state can vanish in between; the FK backstop catches it here.
		if isForeignKeyViolation(err) {
			return types.Customer{}, &types.DanglingReferenceError{
				Field: "stateCode",
				Value: c.StateCode,
			}
		}
		return types.Customer{}, classifyErr(fmt.Errorf("creating customer: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Customer{}, fmt.Errorf("reading assigned customer id: %w", err)
	}
	c.CustomerID = id
	return c, nil
}

// Update replaces the customer via a compare-and-swap on the submitted row
// version.
func (t *customersTable) Update(ctx context.Context, id int64, c types.Customer) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE customers SET name = ?, address = ?, city = ?, state_code = ?, zip_code = ?,
		 row_version = row_version + 1 WHERE customer_id = ? AND row_version = ?`,
		c.Name, c.Address, c.City, c.StateCode, c.ZipCode, id, c.RowVersion)
	if err != nil {
		return classifyErr(fmt.Errorf("updating customer %d: %w", id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating customer %d: %w", id, err)
	}
	if n == 0 {
		exists, err := rowExists(ctx, db, "SELECT 1 FROM customers WHERE customer_id = ?", id)
		if err != nil {
			return err
		}
		return classifyWriteMiss(exists)
	}
	return nil
}

// Delete removes the customer, blocked (or cascaded, when configured) while
// invoices reference it. Cascading removes the invoices' line items too.
func (t *customersTable) Delete(ctx context.Context, id int64) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting customer %d: %w", id, err))
	}
	defer tx.Rollback()

	var children int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoices WHERE customer_id = ?", id).Scan(&children)
	if err != nil {
		return classifyErr(fmt.Errorf("counting invoices of customer %d: %w", id, err))
	}
	if children > 0 {
		if !t.backend.cascades(types.RelCustomerInvoices) {
			return types.ErrReferencedByChildren
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM invoice_line_items WHERE invoice_id IN (SELECT invoice_id FROM invoices WHERE customer_id = ?)",
			id); err != nil {
			return classifyErr(fmt.Errorf("cascading customer %d to line items: %w", id, err))
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM invoices WHERE customer_id = ?", id); err != nil {
			return classifyErr(fmt.Errorf("cascading customer %d to invoices: %w", id, err))
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM customers WHERE customer_id = ?", id)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting customer %d: %w", id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return classifyErr(fmt.Errorf("committing customer delete: %w", err))
	}
	return nil
}
