// This file implements reference-data seeding on backend attach. When
// SeedStates is configured, the state collection is populated on first run
// so customer records have something to reference out of the box.
package sqlite

import "fmt"

// seededState is one state row inserted on first startup.
type seededState struct {
	code string
	name string
}

// seededStates lists the fifty US states plus DC.
var seededStates = []seededState{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"}, {"DE", "Delaware"},
	{"DC", "District of Columbia"}, {"FL", "Florida"}, {"GA", "Georgia"}, {"HI", "Hawaii"},
	{"ID", "Idaho"}, {"IL", "Illinois"}, {"IN", "Indiana"}, {"IA", "Iowa"},
	{"KS", "Kansas"}, {"KY", "Kentucky"}, {"LA", "Louisiana"}, {"ME", "Maine"},
	{"MD", "Maryland"}, {"MA", "Massachusetts"}, {"MI", "Michigan"}, {"MN", "Minnesota"},
	{"MS", "Mississippi"}, {"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"},
	{"NV", "Nevada"}, {"NH", "New Hampshire"}, {"NJ", "New Jersey"}, {"NM", "New Mexico"},
	{"NY", "New York"}, {"NC", "North Carolina"}, {"ND", "North Dakota"}, {"OH", "Ohio"},
	{"OK", "Oklahoma"}, {"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"},
	{"SC", "South Carolina"}, {"SD", "South Dakota"}, {"TN", "Tennessee"}, {"TX", "Texas"},
	{"UT", "Utah"}, {"VT", "Vermont"}, {"VA", "Virginia"}, {"WA", "Washington"},
	{"WV", "West Virginia"}, {"WI", "Wisconsin"}, {"WY", "Wyoming"},
}

// seedStates inserts the seeded states when the collection is empty.
// Re-attaching against an existing database is a no-op. The caller must
// hold b.mu.
func (b *Backend) seedStates() error {
	var count int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM states").Scan(&count); err != nil {
		return fmt.Errorf("counting states: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, st := range seededStates {
		if _, err := tx.Exec(
			"INSERT INTO states (state_code, state_name, row_version) VALUES (?, ?, 1)",
			st.code, st.name); err != nil {
			return fmt.Errorf("seeding state %s: %w", st.code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state seed: %w", err)
	}
	return nil
}
