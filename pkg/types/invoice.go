package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an invoice header row. InvoiceID is server-assigned on create
// and never reused; CustomerID must reference an existing Customer. The
// invoice total must equal product total + sales tax + shipping; the
// integrity engine enforces this at write time.
type Invoice struct {
	InvoiceID    int64           `json:"invoiceId"`
	CustomerID   int64           `json:"customerId"`
	InvoiceDate  time.Time       `json:"invoiceDate"`
	ProductTotal decimal.Decimal `json:"productTotal"`
	SalesTax     decimal.Decimal `json:"salesTax"`
	Shipping     decimal.Decimal `json:"shipping"`
	InvoiceTotal decimal.Decimal `json:"invoiceTotal"`
	RowVersion   int64           `json:"rowVersion"`
}

// Key returns the primary key of the invoice.
func (i *Invoice) Key() int64 { return i.InvoiceID }

// Validate checks that required fields are populated and amounts are
// non-negative. Returns ErrInvalidEntity on failure.
func (i *Invoice) Validate() error {
	if i.CustomerID == 0 || i.InvoiceDate.IsZero() {
		return ErrInvalidEntity
	}
	if i.ProductTotal.IsNegative() || i.SalesTax.IsNegative() ||
		i.Shipping.IsNegative() || i.InvoiceTotal.IsNegative() {
		return ErrInvalidEntity
	}
	return nil
}
