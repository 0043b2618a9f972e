package types

import (
	"errors"
	"time"
)

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Relationship names used by the cascade policy.
const (
	RelStateCustomers   = "state_customers"
	RelCustomerInvoices = "customer_invoices"
	RelInvoiceLineItems = "invoice_line_items"
	RelProductLineItems = "product_line_items"
)

// CascadePolicy maps a parent-child relationship to its delete behavior:
// true cascades the delete to children, false blocks the delete while
// children exist. Relationships absent from the map block.
type CascadePolicy map[string]bool

// Cascades reports whether deleting the parent of the named relationship
// removes its children.
func (p CascadePolicy) Cascades(relationship string) bool {
	return p[relationship]
}

// DefaultCascadePolicy blocks every parent delete while children exist,
// except invoice line items, which cannot outlive their invoice.
func DefaultCascadePolicy() CascadePolicy {
	return CascadePolicy{
		RelStateCustomers:   false,
		RelCustomerInvoices: false,
		RelInvoiceLineItems: true,
		RelProductLineItems: false,
	}
}

// Config holds backend selection and server parameters.
type Config struct {
	Backend        string        `json:"backend" yaml:"backend"`
	DataDir        string        `json:"data_dir" yaml:"data_dir"`
	ListenAddr     string        `json:"listen_addr" yaml:"listen_addr"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	SeedStates     bool          `json:"seed_states" yaml:"seed_states"`
	Cascade        CascadePolicy `json:"cascade" yaml:"cascade"`
}

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrTimeoutNegative   = errors.New("request timeout must not be negative")
	ErrCascadeUnknownRel = errors.New("unknown cascade relationship")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// knownRelationships lists the relationships a cascade policy may name.
var knownRelationships = map[string]bool{
	RelStateCustomers:   true,
	RelCustomerInvoices: true,
	RelInvoiceLineItems: true,
	RelProductLineItems: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.RequestTimeout < 0 {
		return ErrTimeoutNegative
	}
	for rel := range c.Cascade {
		if !knownRelationships[rel] {
			return ErrCascadeUnknownRel
		}
	}
	return nil
}
