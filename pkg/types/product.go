package types

import "github.com/shopspring/decimal"

// Product is a product row. The product code is the caller-assigned primary
// key; invoice line items reference products by this code.
type Product struct {
	ProductCode    string          `json:"productCode"`
	Description    string          `json:"description"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	OnHandQuantity int64           `json:"onHandQuantity"`
	RowVersion     int64           `json:"rowVersion"`
}

// Key returns the primary key of the product.
func (p *Product) Key() string { return p.ProductCode }

// Validate checks that required fields are populated and amounts are
// non-negative. Returns ErrInvalidEntity on failure.
func (p *Product) Validate() error {
	if p.ProductCode == "" || p.Description == "" {
		return ErrInvalidEntity
	}
	if p.UnitPrice.IsNegative() || p.OnHandQuantity < 0 {
		return ErrInvalidEntity
	}
	return nil
}
