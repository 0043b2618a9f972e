package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItemKey is the composite primary key of an invoice line item.
type LineItemKey struct {
	InvoiceID   int64
	ProductCode string
}

// String renders the key for error messages and logs.
func (k LineItemKey) String() string {
	return fmt.Sprintf("%d/%s", k.InvoiceID, k.ProductCode)
}

// InvoiceLineItem is one line of an invoice, keyed by (invoice id, product
// code). Both parts of the key must reference existing rows. ItemTotal must
// equal UnitPrice multiplied by Quantity; the integrity engine enforces this
// at write time rather than recomputing it on read.
type InvoiceLineItem struct {
	InvoiceID   int64           `json:"invoiceId"`
	ProductCode string          `json:"productCode"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int64           `json:"quantity"`
	ItemTotal   decimal.Decimal `json:"itemTotal"`
	RowVersion  int64           `json:"rowVersion"`
}

// Key returns the composite primary key of the line item.
func (li *InvoiceLineItem) Key() LineItemKey {
	return LineItemKey{InvoiceID: li.InvoiceID, ProductCode: li.ProductCode}
}

// Validate checks that the key parts are populated and the quantity and
// amounts are sane. Returns ErrInvalidEntity on failure.
func (li *InvoiceLineItem) Validate() error {
	if li.InvoiceID == 0 || li.ProductCode == "" {
		return ErrInvalidEntity
	}
	if li.Quantity <= 0 || li.UnitPrice.IsNegative() || li.ItemTotal.IsNegative() {
		return ErrInvalidEntity
	}
	return nil
}
