// market/contract.go
package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by the ledger and the provider.
const DateLayout = "2006-01-02"

// Contract is a single listed option as returned by the contract universe.
type Contract struct {
	Symbol     string // OCC symbol, e.g. SPY250117C00452000
	Underlying string
	Side       Side
	Strike     decimal.Decimal
	Expiration time.Time
}

// Distance is the absolute distance between the strike and ref.
func (c Contract) Distance(ref decimal.Decimal) decimal.Decimal {
	return c.Strike.Sub(ref).Abs()
}

// Print is a single reported trade for a symbol.
type Print struct {
	Price decimal.Decimal
	Size  int64
	Time  time.Time
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
