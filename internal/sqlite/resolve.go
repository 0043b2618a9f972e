// Conflict resolution: translates SQLite-level write failures into the typed
// errors of pkg/types. Two conflict classes are distinguished: identity
// conflicts on insert (duplicate key) and lost updates on the row-version
// compare-and-swap (stale write). A version miss against a row that no
// longer exists is reported as not-found, never as a stale write.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// SQLite extended result codes for the constraint class. The driver
// surfaces the extended code, so identity conflicts and referential
// failures are distinguishable without parsing the message.
const (
	sqliteConstraintClass      = 19
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// constraintCode returns the extended result code of a SQLite constraint
// failure, or 0 when err is not one.
func constraintCode(err error) int {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return 0
	}
	if se.Code()&0xff != sqliteConstraintClass {
		return 0
	}
	return se.Code()
}

// isDuplicateViolation reports whether err is a primary-key or unique
// constraint failure: the inserted identity already exists.
func isDuplicateViolation(err error) bool {
	code := constraintCode(err)
	return code == sqliteConstraintPrimaryKey || code == sqliteConstraintUnique
}

// isForeignKeyViolation reports whether err is a foreign-key constraint
// failure: a referenced parent row does not exist.
func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqliteConstraintForeignKey
}

// classifyInsertErr maps an insert failure to the typed taxonomy. A
// duplicate violation is an identity conflict: the key already exists. A
// foreign-key violation means a parent vanished after the integrity probe;
// tables with a known referencing field report the precise
// DanglingReferenceError before reaching here. Context expiry becomes the
// transient unavailability error.
func classifyInsertErr(err error, key string) error {
	if err == nil {
		return nil
	}
	if isDuplicateViolation(err) {
		return &types.DuplicateKeyError{Key: key}
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: inserting %q", types.ErrDanglingReference, key)
	}
	return classifyErr(err)
}

// classifyWriteMiss classifies a compare-and-swap miss on update or delete.
// exists is the row's existence re-checked after the conflict: a vanished
// row means not-found, a surviving row means the caller's snapshot is stale.
func classifyWriteMiss(exists bool) error {
	if !exists {
		return types.ErrNotFound
	}
	return types.ErrStaleWrite
}

// classifyErr maps driver and context failures that are not conflicts.
// Deadline expiry and cancellation surface as ErrUnavailable so callers can
// distinguish a transient outage from a permanent rejection.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", types.ErrUnavailable, err)
	}
	return err
}

// rowExists reports whether the given query, which must select a single
// column for the key being probed, matches a row.
func rowExists(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, classifyErr(err)
	}
	return true, nil
}
