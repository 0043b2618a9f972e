package types

// Customer is a customer row. CustomerID is server-assigned on create and
// never reused; StateCode must reference an existing State.
type Customer struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	StateCode  string `json:"stateCode"`
	ZipCode    string `json:"zipCode"`
	RowVersion int64  `json:"rowVersion"`
}

// Key returns the primary key of the customer.
func (c *Customer) Key() int64 { return c.CustomerID }

// Validate checks that required fields are populated.
// Returns ErrInvalidEntity on failure. The key is not checked here: it is
// absent before creation and populated after.
func (c *Customer) Validate() error {
	if c.Name == "" || c.Address == "" || c.City == "" || c.StateCode == "" || c.ZipCode == "" {
		return ErrInvalidEntity
	}
	return nil
}
