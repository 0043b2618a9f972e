// The reconciliation protocol: decide create versus update for a submitted
// record without the caller tracking local save-state. The sequence probes
// existence with a get, then dispatches. Probe-then-act is not atomic
// across its two calls; a writer can slip in between, so the race-induced
// failures of the second step re-drive the whole sequence within the
// caller's retry budget. When the server advertises the atomic upsert for
// an entity, the reconciler uses that single call instead.
package client

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Outcome reports how a reconciled record was committed.
type Outcome int

const (
	// Created means the record did not exist and was created.
	Created Outcome = iota
	// Updated means the record existed and was replaced.
	Updated
)

// String renders the outcome for logs.
func (o Outcome) String() string {
	if o == Created {
		return "created"
	}
	return "updated"
}

// ReconcileOptions bounds the reconciliation sequence.
type ReconcileOptions struct {
	// Budget is the number of times the whole probe-then-act sequence may
	// be re-driven after a transient failure or a race-induced conflict.
	// Zero means a single attempt.
	Budget int
}

// retryable reports whether the error may resolve by re-driving the
// sequence: transient unavailability, or the two race shapes of the second
// step. The caller passes raced=true only for errors returned by the act
// step, where a duplicate key (create lost a race) or a vanished row
// (update lost a race) reflects another writer, not a permanent rejection.
func retryable(err error, raced bool) bool {
	if types.IsTransient(err) {
		return true
	}
	if !raced {
		return false
	}
	return errors.Is(err, types.ErrDuplicateKey) || errors.Is(err, types.ErrNotFound)
}

// reconcile drives probe-then-act for one record. The update closure
// receives the probed row so it can carry the observed row version into
// the write.
func reconcile[E any](
	ctx context.Context,
	opts ReconcileOptions,
	probe func(ctx context.Context) (E, error),
	create func(ctx context.Context) (E, error),
	update func(ctx context.Context, current E) (E, error),
) (E, Outcome, error) {
	var zero E
	var lastErr error

	for attempt := 0; attempt <= opts.Budget; attempt++ {
		current, err := probe(ctx)
		switch {
		case errors.Is(err, types.ErrNotFound):
			saved, err := create(ctx)
			if err == nil {
				return saved, Created, nil
			}
			if retryable(err, true) {
				lastErr = err
				continue
			}
			return zero, Created, err
		case err != nil:
			if retryable(err, false) {
				lastErr = err
				continue
			}
			return zero, Created, err
		}

		saved, err := update(ctx, current)
		if err == nil {
			return saved, Updated, nil
		}
		if retryable(err, true) {
			lastErr = err
			continue
		}
		return zero, Updated, err
	}
	return zero, Created, lastErr
}

// upsertWithBudget drives the atomic upsert path. The single call replaces
// the whole probe-then-act sequence, so only transient unavailability is
// re-driven, within the same budget the caller gave the fallback.
func upsertWithBudget[E any](
	ctx context.Context,
	opts ReconcileOptions,
	call func(ctx context.Context) (E, bool, error),
) (E, Outcome, error) {
	var zero E
	var lastErr error

	for attempt := 0; attempt <= opts.Budget; attempt++ {
		saved, created, err := call(ctx)
		if err == nil {
			return saved, upsertOutcome(created), nil
		}
		if !types.IsTransient(err) {
			return zero, Created, err
		}
		lastErr = err
	}
	return zero, Created, lastErr
}

// SaveState routes the submitted state to create or update by its code.
// Prefers the server's atomic upsert when advertised.
func (c *Client) SaveState(ctx context.Context, st types.State, opts ReconcileOptions) (types.State, Outcome, error) {
	if c.supportsUpsert(ctx, "states") {
		return upsertWithBudget(ctx, opts,
			func(ctx context.Context) (types.State, bool, error) {
				return c.UpsertState(ctx, st)
			})
	}
	return reconcile(ctx, opts,
		func(ctx context.Context) (types.State, error) {
			return c.GetState(ctx, st.StateCode)
		},
		func(ctx context.Context) (types.State, error) {
			return c.CreateState(ctx, st)
		},
		func(ctx context.Context, current types.State) (types.State, error) {
			next := st
			next.RowVersion = current.RowVersion
			if err := c.UpdateState(ctx, st.StateCode, next); err != nil {
				return types.State{}, err
			}
			next.RowVersion++
			return next, nil
		})
}

// SaveProduct routes the submitted product to create or update by its
// code. Prefers the server's atomic upsert when advertised.
func (c *Client) SaveProduct(ctx context.Context, p types.Product, opts ReconcileOptions) (types.Product, Outcome, error) {
	if c.supportsUpsert(ctx, "products") {
		return upsertWithBudget(ctx, opts,
			func(ctx context.Context) (types.Product, bool, error) {
				return c.UpsertProduct(ctx, p)
			})
	}
	return reconcile(ctx, opts,
		func(ctx context.Context) (types.Product, error) {
			return c.GetProduct(ctx, p.ProductCode)
		},
		func(ctx context.Context) (types.Product, error) {
			return c.CreateProduct(ctx, p)
		},
		func(ctx context.Context, current types.Product) (types.Product, error) {
			next := p
			next.RowVersion = current.RowVersion
			if err := c.UpdateProduct(ctx, p.ProductCode, next); err != nil {
				return types.Product{}, err
			}
			next.RowVersion++
			return next, nil
		})
}

// SaveCustomer routes the submitted customer to create or update. A
// customer without an id is always a create, since ids are
// server-assigned; a customer with one reconciles against the persisted
// row.
func (c *Client) SaveCustomer(ctx context.Context, cust types.Customer, opts ReconcileOptions) (types.Customer, Outcome, error) {
	if cust.CustomerID == 0 {
		saved, err := c.CreateCustomer(ctx, cust)
		return saved, Created, err
	}
	return reconcile(ctx, opts,
		func(ctx context.Context) (types.Customer, error) {
			return c.GetCustomer(ctx, cust.CustomerID)
		},
		func(ctx context.Context) (types.Customer, error) {
			// The id the caller submitted no longer exists; ids are never
			// reused, so recreating under it is impossible.
			return types.Customer{}, types.ErrNotFound
		},
		func(ctx context.Context, current types.Customer) (types.Customer, error) {
			next := cust
			next.RowVersion = current.RowVersion
			if err := c.UpdateCustomer(ctx, cust.CustomerID, next); err != nil {
				return types.Customer{}, err
			}
			next.RowVersion++
			return next, nil
		})
}

// SaveLineItem routes the submitted line item to create or update by its
// composite key.
func (c *Client) SaveLineItem(ctx context.Context, li types.InvoiceLineItem, opts ReconcileOptions) (types.InvoiceLineItem, Outcome, error) {
	return reconcile(ctx, opts,
		func(ctx context.Context) (types.InvoiceLineItem, error) {
			return c.GetLineItem(ctx, li.Key())
		},
		func(ctx context.Context) (types.InvoiceLineItem, error) {
			return c.CreateLineItem(ctx, li)
		},
		func(ctx context.Context, current types.InvoiceLineItem) (types.InvoiceLineItem, error) {
			next := li
			next.RowVersion = current.RowVersion
			if err := c.UpdateLineItem(ctx, li.Key(), next); err != nil {
				return types.InvoiceLineItem{}, err
			}
			next.RowVersion++
			return next, nil
		})
}

func upsertOutcome(created bool) Outcome {
	if created {
		return Created
	}
	return Updated
}
