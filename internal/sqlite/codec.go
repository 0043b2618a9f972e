package sqlite

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Money and timestamps are stored as TEXT: decimals in their canonical
// string form so no precision is lost to float conversion, timestamps as
// RFC 3339.

func encodeDecimal(d decimal.Decimal) string {
	return d.String()
}

func decodeDecimal(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", column, raw, err)
	}
	return d, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(column, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", column, raw, err)
	}
	return t, nil
}
