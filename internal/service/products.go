package service

import (
	"context"

	"github.com/mesh-intelligence/orderdesk/internal/integrity"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// ProductService implements the CRUD contract for products. The product
// code is caller-assigned, so the upsert primitive is available.
type ProductService struct {
	store types.Store
	check *integrity.Checker
}

// Descriptor reports the product service's capabilities.
func (s *ProductService) Descriptor() Descriptor {
	return Descriptor{Name: "products", KeyMode: CallerAssigned, Upsert: true}
}

// List returns all products ordered by description.
func (s *ProductService) List(ctx context.Context) ([]types.Product, error) {
	return s.store.Products().List(ctx)
}

// Get returns the product with the given code, or ErrNotFound.
func (s *ProductService) Get(ctx context.Context, code string) (types.Product, error) {
	return s.store.Products().Get(ctx, code)
}

// Create inserts a new product. Fails with DuplicateKeyError when the code
// exists.
func (s *ProductService) Create(ctx context.Context, p types.Product) (types.Product, error) {
	if err := p.Validate(); err != nil {
		return types.Product{}, err
	}
	if err := s.check.ProductUnique(ctx, p.ProductCode); err != nil {
		return types.Product{}, err
	}
	return s.store.Products().Create(ctx, p)
}

// Update replaces the product at code. A body code that differs from the
// addressed code fails with ErrKeyMismatch before storage is touched.
func (s *ProductService) Update(ctx context.Context, code string, p types.Product) error {
	if code != p.ProductCode {
		return types.ErrKeyMismatch
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return s.store.Products().Update(ctx, code, p)
}

// Delete removes the product. The storage boundary blocks the delete while
// invoice line items reference the product, unless cascading is configured.
func (s *ProductService) Delete(ctx context.Context, code string) error {
	return s.store.Products().Delete(ctx, code)
}

// Upsert atomically creates or replaces the product by its code, reporting
// whether a new row was created.
func (s *ProductService) Upsert(ctx context.Context, p types.Product) (types.Product, bool, error) {
	if err := p.Validate(); err != nil {
		return types.Product{}, false, err
	}
	return s.store.Products().Upsert(ctx, p)
}
