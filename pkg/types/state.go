package types

// State is a US state row. The two-letter state code is the caller-assigned
// primary key; customers reference states by this code.
type State struct {
	StateCode  string `json:"stateCode"`
	StateName  string `json:"stateName"`
	RowVersion int64  `json:"rowVersion"`
}

// Key returns the primary key of the state.
func (s *State) Key() string { return s.StateCode }

// Validate checks that required fields are populated.
// Returns ErrInvalidEntity on failure.
func (s *State) Validate() error {
	if s.StateCode == "" || s.StateName == "" {
		return ErrInvalidEntity
	}
	return nil
}
