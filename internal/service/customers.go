package service

import (
	"context"

	"github.com/mesh-intelligence/orderdesk/internal/integrity"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// CustomerService implements the CRUD contract for customers. Customer ids
// are server-assigned: create rejects a submitted id, and the id the
// backend allocates is returned on the created entity.
type CustomerService struct {
	store types.Store
	check *integrity.Checker
}

// Descriptor reports the customer service's capabilities.
func (s *CustomerService) Descriptor() Descriptor {
	return Descriptor{Name: "customers", KeyMode: ServerAssigned, Upsert: false}
}

// List returns all customers ordered by name.
func (s *CustomerService) List(ctx context.Context) ([]types.Customer, error) {
	return s.store.Customers().List(ctx)
}

// Get returns the customer with the given id, or ErrNotFound.
func (s *CustomerService) Get(ctx context.Context, id int64) (types.Customer, error) {
	return s.store.Customers().Get(ctx, id)
}

// Create inserts a new customer. The submitted entity must not carry an id.
// Fails with DanglingReferenceError when the state code does not resolve.
func (s *CustomerService) Create(ctx context.Context, c types.Customer) (types.Customer, error) {
	if c.CustomerID != 0 {
		return types.Customer{}, types.ErrInvalidEntity
	}
	if err := c.Validate(); err != nil {
		return types.Customer{}, err
	}
	if err := s.check.CustomerReferences(ctx, c); err != nil {
		return types.Customer{}, err
	}
	return s.store.Customers().Create(ctx, c)
}

// Update replaces the customer at id. A body id that differs from the
// addressed id fails with ErrKeyMismatch before storage is touched.
func (s *CustomerService) Update(ctx context.Context, id int64, c types.Customer) error {
	if id != c.CustomerID {
		return types.ErrKeyMismatch
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.check.CustomerReferences(ctx, c); err != nil {
		return err
	}
	return s.store.Customers().Update(ctx, id, c)
}

// Delete removes the customer. The storage boundary blocks the delete while
// invoices reference the customer, unless cascading is configured.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.store.Customers().Delete(ctx, id)
}
