package types

import "context"

// Store defines the storage boundary for the five entity collections.
// Callers attach to a backend, access the typed collection stores, and
// detach when done. The backend is the sole arbiter of serialization: every
// operation either fully commits or fully fails with no partial effect.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, collection operations return ErrStoreDetached.
	Detach() error

	States() StateStore
	Customers() CustomerStore
	Products() ProductStore
	Invoices() InvoiceStore
	LineItems() LineItemStore
}

// StateStore persists states, keyed by state code.
type StateStore interface {
	// List returns all states ordered by state name.
	List(ctx context.Context) ([]State, error)
	// Get returns the state with the given code, or ErrNotFound.
	Get(ctx context.Context, code string) (State, error)
	// Create inserts a new state. The code is caller-assigned and must be
	// unique; returns DuplicateKeyError otherwise. The returned copy carries
	// RowVersion 1.
	Create(ctx context.Context, st State) (State, error)
	// Update replaces the state at the submitted RowVersion. Returns
	// ErrStaleWrite when the persisted version differs, ErrNotFound when the
	// row no longer exists.
	Update(ctx context.Context, code string, st State) error
	// Delete removes the state, or fails with ErrNotFound or
	// ErrReferencedByChildren per the cascade policy.
	Delete(ctx context.Context, code string) error
	// Upsert atomically creates or replaces the state by its code. Reports
	// whether a new row was created.
	Upsert(ctx context.Context, st State) (State, bool, error)
}

// CustomerStore persists customers. CustomerID is allocated by the backend
// on create, monotonically, and never reused.
type CustomerStore interface {
	// List returns all customers ordered by name.
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
}

// ProductStore persists products, keyed by product code.
type ProductStore interface {
	// List returns all products ordered by description.
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, code string) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, code string, p Product) error
	Delete(ctx context.Context, code string) error
	Upsert(ctx context.Context, p Product) (Product, bool, error)
}

// InvoiceStore persists invoice headers. InvoiceID is allocated by the
// backend on create, monotonically, and never reused.
type InvoiceStore interface {
	// List returns all invoices ordered by invoice id.
	List(ctx context.Context) ([]Invoice, error)
	Get(ctx context.Context, id int64) (Invoice, error)
	Create(ctx context.Context, inv Invoice) (Invoice, error)
	Update(ctx context.Context, id int64, inv Invoice) error
	Delete(ctx context.Context, id int64) error
	// ListByCustomer returns the invoices referencing the given customer,
	// ordered by invoice id.
	ListByCustomer(ctx context.Context, customerID int64) ([]Invoice, error)
}

// LineItemStore persists invoice line items under their composite key.
type LineItemStore interface {
	// List returns all line items ordered by invoice id, then product code.
	List(ctx context.Context) ([]InvoiceLineItem, error)
	Get(ctx context.Context, key LineItemKey) (InvoiceLineItem, error)
	Create(ctx context.Context, li InvoiceLineItem) (InvoiceLineItem, error)
	Update(ctx context.Context, key LineItemKey, li InvoiceLineItem) error
	Delete(ctx context.Context, key LineItemKey) error
	// ListByInvoice returns the line items of one invoice, ordered by
	// product code.
	ListByInvoice(ctx context.Context, invoiceID int64) ([]InvoiceLineItem, error)
}
