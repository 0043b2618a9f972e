package service

import (
	"context"

	"github.com/mesh-intelligence/orderdesk/internal/integrity"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// StateService implements the CRUD contract for states. The state code is
// caller-assigned, so create requires it present and unique, and the atomic
// upsert primitive is available.
type StateService struct {
	store types.Store
	check *integrity.Checker
}

// Descriptor reports the state service's capabilities.
func (s *StateService) Descriptor() Descriptor {
	return Descriptor{Name: "states", KeyMode: CallerAssigned, Upsert: true}
}

// List returns all states ordered by name.
func (s *StateService) List(ctx context.Context) ([]types.State, error) {
	return s.store.States().List(ctx)
}

// Get returns the state with the given code, or ErrNotFound.
func (s *StateService) Get(ctx context.Context, code string) (types.State, error) {
	return s.store.States().Get(ctx, code)
}

// Create inserts a new state. Fails with ErrInvalidEntity on missing
// fields and DuplicateKeyError when the code exists.
func (s *StateService) Create(ctx context.Context, st types.State) (types.State, error) {
	if err := st.Validate(); err != nil {
		return types.State{}, err
	}
	if err := s.check.StateUnique(ctx, st.StateCode); err != nil {
		return types.State{}, err
	}
	return s.store.States().Create(ctx, st)
}

// Update replaces the state at code. The identity is immutable: a body code
// that differs from the addressed code fails with ErrKeyMismatch before
// storage is touched.
func (s *StateService) Update(ctx context.Context, code string, st types.State) error {
	if code != st.StateCode {
		return types.ErrKeyMismatch
	}
	if err := st.Validate(); err != nil {
		return err
	}
	return s.store.States().Update(ctx, code, st)
}

// Delete removes the state. The storage boundary blocks the delete while
// customers reference the state, unless cascading is configured.
func (s *StateService) Delete(ctx context.Context, code string) error {
	return s.store.States().Delete(ctx, code)
}

// Upsert atomically creates or replaces the state by its code, reporting
// whether a new row was created.
func (s *StateService) Upsert(ctx context.Context, st types.State) (types.State, bool, error) {
	if err := st.Validate(); err != nil {
		return types.State{}, false, err
	}
	return s.store.States().Upsert(ctx, st)
}
