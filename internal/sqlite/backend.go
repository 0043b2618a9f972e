// Package sqlite implements the orderdesk storage boundary on SQLite.
// One file per collection implements the typed store contract from
// pkg/types; this file owns the backend lifecycle.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface over a SQLite database file.
// All five collection stores share the backend's connection and the
// configured cascade policy. Every operation commits atomically; SQLite's
// write serialization plus the primary-key constraints make it the sole
// arbiter between concurrent writers.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	states    *statesTable
	customers *customersTable
	products  *productsTable
	invoices  *invoicesTable
	lineItems *lineItemsTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	b := &Backend{}
	b.states = &statesTable{backend: b}
	b.customers = &customersTable{backend: b}
	b.products = &productsTable{backend: b}
	b.invoices = &invoicesTable{backend: b}
	b.lineItems = &lineItemsTable{backend: b}
	return b
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, opens the database, applies the schema, and
// seeds reference data on first run. Returns ErrAlreadyAttached if already
// attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}
	if config.Cascade == nil {
		config.Cascade = types.DefaultCascadePolicy()
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, "orderdesk.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// Writes go through a single connection so SQLite serializes them
	// without SQLITE_BUSY surfacing to callers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	if config.SeedStates {
		if err := b.seedStates(); err != nil {
			b.attached = false
			b.db = nil
			db.Close()
			return fmt.Errorf("seeding states: %w", err)
		}
	}

	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// collection operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// States returns the state collection store.
func (b *Backend) States() types.StateStore { return b.states }

// Customers returns the customer collection store.
func (b *Backend) Customers() types.CustomerStore { return b.customers }

// Products returns the product collection store.
func (b *Backend) Products() types.ProductStore { return b.products }

// Invoices returns the invoice collection store.
func (b *Backend) Invoices() types.InvoiceStore { return b.invoices }

// LineItems returns the invoice line item collection store.
func (b *Backend) LineItems() types.LineItemStore { return b.lineItems }

// conn returns the database handle, or ErrStoreDetached when the backend is
// not attached. Every collection operation goes through conn.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// cascades reports the configured delete behavior for a relationship.
func (b *Backend) cascades(relationship string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Cascade.Cascades(relationship)
}
