// Package service implements the per-entity CRUD services. Every service
// shares the uniform contract: list, get, create, update, delete, plus
// upsert where the entity's key is caller-assigned. Services are stateless
// per request; they validate through the integrity checker, then commit
// through the storage boundary, which reports conflicts as typed errors.
package service

import (
	"github.com/mesh-intelligence/orderdesk/internal/integrity"
	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// KeyMode declares how an entity type's primary key is assigned.
type KeyMode int

const (
	// ServerAssigned keys are allocated by the storage backend on create;
	// the submitted entity must not carry one.
	ServerAssigned KeyMode = iota
	// CallerAssigned keys are supplied by the caller and must be unique.
	CallerAssigned
)

// Descriptor describes an entity service's capabilities: how its key is
// assigned and whether the atomic upsert primitive is available.
type Descriptor struct {
	Name    string  `json:"name"`
	KeyMode KeyMode `json:"keyMode"`
	Upsert  bool    `json:"upsert"`
}

// Services bundles the five entity services over one store.
type Services struct {
	States    *StateService
	Customers *CustomerService
	Products  *ProductService
	Invoices  *InvoiceService
	LineItems *LineItemService
}

// New wires the entity services over the given store.
func New(store types.Store) *Services {
	check := integrity.NewChecker(store)
	return &Services{
		States:    &StateService{store: store, check: check},
		Customers: &CustomerService{store: store, check: check},
		Products:  &ProductService{store: store, check: check},
		Invoices:  &InvoiceService{store: store, check: check},
		LineItems: &LineItemService{store: store, check: check},
	}
}

// Descriptors lists the capability descriptors of all entity services.
func (s *Services) Descriptors() []Descriptor {
	return []Descriptor{
		s.States.Descriptor(),
		s.Customers.Descriptor(),
		s.Products.Descriptor(),
		s.Invoices.Descriptor(),
		s.LineItems.Descriptor(),
	}
}
