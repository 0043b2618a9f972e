// This file implements the state collection store. States use a
// caller-assigned two-letter code as the primary key and are the parent of
// customers via state_code.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Compile-time interface check: statesTable must implement StateStore.
var _ types.StateStore = (*statesTable)(nil)

type statesTable struct {
	backend *Backend
}

// List returns all states ordered by state name.
func (t *statesTable) List(ctx context.Context) ([]types.State, error) {
	db, err := t.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT state_code, state_name, row_version FROM states ORDER BY state_name")
	if err != nil {
		return nil, classifyErr(fmt.Errorf("listing states: %w", err))
	}
	defer rows.Close()

	states := []types.State{}
	for rows.Next() {
		var st types.State
		if err := rows.Scan(&st.StateCode, &st.StateName, &st.RowVersion); err != nil {
			return nil, fmt.Errorf("scanning state: %w", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(fmt.Errorf("iterating states: %w", err))
	}
	return states, nil
}

// Get retrieves a state by code. Returns ErrNotFound if absent.
func (t *statesTable) Get(ctx context.Context, code string) (types.State, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.State{}, err
	}

	var st types.State
	err = db.QueryRowContext(ctx,
		"SELECT state_code, state_name, row_version FROM states WHERE state_code = ?",
		code,
	).Scan(&st.StateCode, &st.StateName, &st.RowVersion)
	if err == sql.ErrNoRows {
		return types.State{}, types.ErrNotFound
	}
	if err != nil {
		return types.State{}, classifyErr(fmt.Errorf("getting state %s: %w", code, err))
	}
	return st, nil
}

// Create inserts a new state at row version 1. The primary-key constraint
// is the arbiter between concurrent creates of the same code: exactly one
// insert wins, the loser observes DuplicateKeyError.
func (t *statesTable) Create(ctx context.Context, st types.State) (types.State, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.State{}, err
	}

	st.RowVersion = 1
	_, err = db.ExecContext(ctx,
		"INSERT INTO states (state_code, state_name, row_version) VALUES (?, ?, ?)",
		st.StateCode, st.StateName, st.RowVersion)
	if err != nil {
		return types.State{}, classifyInsertErr(err, st.StateCode)
	}
	return st, nil
}

// Update replaces the state via a compare-and-swap on the submitted row
// version. A miss is re-checked for existence before classification.
func (t *statesTable) Update(ctx context.Context, code string, st types.State) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		"UPDATE states SET state_name = ?, row_version = row_version + 1 WHERE state_code = ? AND row_version = ?",
		st.StateName, code, st.RowVersion)
	if err != nil {
		return classifyErr(fmt.Errorf("updating state %s: %w", code, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating state %s: %w", code, err)
	}
	if n == 0 {
		exists, err := rowExists(ctx, db, "SELECT 1 FROM states WHERE state_code = ?", code)
		if err != nil {
			return err
		}
		return classifyWriteMiss(exists)
	}
	return nil
}

// Delete removes the state. While customers reference the state the delete
// is blocked (or cascaded, when configured) atomically with the removal.
func (t *statesTable) Delete(ctx context.Context, code string) error {
	db, err := t.backend.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting state %s: %w", code, err))
	}
	defer tx.Rollback()

	var children int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM customers WHERE state_code = ?", code).Scan(&children)
	if err != nil {
		return classifyErr(fmt.Errorf("counting customers of state %s: %w", code, err))
	}
	if children > 0 {
		if !t.backend.cascades(types.RelStateCustomers) {
			return types.ErrReferencedByChildren
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM customers WHERE state_code = ?", code); err != nil {
			// A cascaded customer can still be referenced by invoices; the
			// policy covers direct children only, so the FK backstop blocks.
			if isForeignKeyViolation(err) {
				return types.ErrReferencedByChildren
			}
			return classifyErr(fmt.Errorf("cascading state %s to customers: %w", code, err))
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM states WHERE state_code = ?", code)
	if err != nil {
		return classifyErr(fmt.Errorf("deleting state %s: %w", code, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting state %s: %w", code, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return classifyErr(fmt.Errorf("committing state delete: %w", err))
	}
	return nil
}

// Upsert atomically creates or replaces the state by code, reporting
// whether a new row was created. One transaction makes this the atomic
// alternative to the client's probe-then-act sequence.
func (t *statesTable) Upsert(ctx context.Context, st types.State) (types.State, bool, error) {
	db, err := t.backend.conn()
	if err != nil {
		return types.State{}, false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.State{}, false, classifyErr(fmt.Errorf("upserting state: %w", err))
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx,
		"SELECT row_version FROM states WHERE state_code = ?", st.StateCode).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		st.RowVersion = 1
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO states (state_code, state_name, row_version) VALUES (?, ?, ?)",
			st.StateCode, st.StateName, st.RowVersion); err != nil {
			return types.State{}, false, classifyInsertErr(err, st.StateCode)
		}
		if err := tx.Commit(); err != nil {
			return types.State{}, false, classifyErr(fmt.Errorf("committing state upsert: %w", err))
		}
		return st, true, nil
	case err != nil:
		return types.State{}, false, classifyErr(fmt.Errorf("probing state %s: %w", st.StateCode, err))
	}

	st.RowVersion = version + 1
	if _, err := tx.ExecContext(ctx,
		"UPDATE states SET state_name = ?, row_version = ? WHERE state_code = ?",
		st.StateName, st.RowVersion, st.StateCode); err != nil {
		return types.State{}, false, classifyErr(fmt.Errorf("replacing state %s: %w", st.StateCode, err))
	}
	if err := tx.Commit(); err != nil {
		return types.State{}, false, classifyErr(fmt.Errorf("committing state upsert: %w", err))
	}
	return st, false, nil
}
