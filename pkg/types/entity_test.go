package types

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStateValidate(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"complete state", State{StateCode: "OR", StateName: "Oregon"}, true},
		{"missing code", State{StateName: "Oregon"}, false},
		{"missing name", State{StateCode: "OR"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidEntity) {
				t.Fatalf("expected ErrInvalidEntity, got %v", err)
			}
		})
	}
}

func TestCustomerValidate(t *testing.T) {
	complete := Customer{
		Name:      "Vi Swenson",
		Address:   "105 NW 1st Ave",
		City:      "Portland",
		StateCode: "OR",
		ZipCode:   "97209",
	}

	if err := complete.Validate(); err != nil {
		t.Fatalf("complete customer should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Customer)
	}{
		{"missing name", func(c *Customer) { c.Name = "" }},
		{"missing address", func(c *Customer) { c.Address = "" }},
		{"missing city", func(c *Customer) { c.City = "" }},
		{"missing state code", func(c *Customer) { c.StateCode = "" }},
		{"missing zip code", func(c *Customer) { c.ZipCode = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := complete
			tt.mutate(&c)
			if !errors.Is(c.Validate(), ErrInvalidEntity) {
				t.Fatal("expected ErrInvalidEntity")
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		valid   bool
	}{
		{
			name:    "complete product",
			product: Product{ProductCode: "CS10", Description: "C# 2010", UnitPrice: decimal.NewFromFloat(54.50), OnHandQuantity: 4637},
			valid:   true,
		},
		{
			name:    "missing code",
			product: Product{Description: "C# 2010", UnitPrice: decimal.NewFromFloat(54.50)},
			valid:   false,
		},
		{
			name:    "missing description",
			product: Product{ProductCode: "CS10", UnitPrice: decimal.NewFromFloat(54.50)},
			valid:   false,
		},
		{
			name:    "negative unit price",
			product: Product{ProductCode: "CS10", Description: "C# 2010", UnitPrice: decimal.NewFromFloat(-1)},
			valid:   false,
		},
		{
			name:    "negative on-hand quantity",
			product: Product{ProductCode: "CS10", Description: "C# 2010", OnHandQuantity: -1},
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidEntity) {
				t.Fatalf("expected ErrInvalidEntity, got %v", err)
			}
		})
	}
}

func TestInvoiceValidate(t *testing.T) {
	complete := Invoice{
		CustomerID:   1,
		InvoiceDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ProductTotal: decimal.NewFromFloat(54.50),
		SalesTax:     decimal.NewFromFloat(4.13),
		Shipping:     decimal.NewFromFloat(5.00),
		InvoiceTotal: decimal.NewFromFloat(63.63),
	}

	if err := complete.Validate(); err != nil {
		t.Fatalf("complete invoice should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(inv *Invoice)
	}{
		{"missing customer id", func(inv *Invoice) { inv.CustomerID = 0 }},
		{"zero invoice date", func(inv *Invoice) { inv.InvoiceDate = time.Time{} }},
		{"negative product total", func(inv *Invoice) { inv.ProductTotal = decimal.NewFromFloat(-1) }},
		{"negative sales tax", func(inv *Invoice) { inv.SalesTax = decimal.NewFromFloat(-1) }},
		{"negative shipping", func(inv *Invoice) { inv.Shipping = decimal.NewFromFloat(-1) }},
		{"negative invoice total", func(inv *Invoice) { inv.InvoiceTotal = decimal.NewFromFloat(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := complete
			tt.mutate(&inv)
			if !errors.Is(inv.Validate(), ErrInvalidEntity) {
				t.Fatal("expected ErrInvalidEntity")
			}
		})
	}
}

func TestLineItemValidate(t *testing.T) {
	complete := InvoiceLineItem{
		InvoiceID:   1,
		ProductCode: "CS10",
		UnitPrice:   decimal.NewFromFloat(54.50),
		Quantity:    2,
		ItemTotal:   decimal.NewFromFloat(109.00),
	}

	if err := complete.Validate(); err != nil {
		t.Fatalf("complete line item should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(li *InvoiceLineItem)
	}{
		{"missing invoice id", func(li *InvoiceLineItem) { li.InvoiceID = 0 }},
		{"missing product code", func(li *InvoiceLineItem) { li.ProductCode = "" }},
		{"zero quantity", func(li *InvoiceLineItem) { li.Quantity = 0 }},
		{"negative quantity", func(li *InvoiceLineItem) { li.Quantity = -1 }},
		{"negative unit price", func(li *InvoiceLineItem) { li.UnitPrice = decimal.NewFromFloat(-1) }},
		{"negative item total", func(li *InvoiceLineItem) { li.ItemTotal = decimal.NewFromFloat(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := complete
			tt.mutate(&li)
			if !errors.Is(li.Validate(), ErrInvalidEntity) {
				t.Fatal("expected ErrInvalidEntity")
			}
		})
	}
}

func TestLineItemKeyString(t *testing.T) {
	key := LineItemKey{InvoiceID: 42, ProductCode: "VB10"}
	if got := key.String(); got != "42/VB10" {
		t.Errorf("String() = %q, want %q", got, "42/VB10")
	}
}
