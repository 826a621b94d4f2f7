package journal

import (
	"fmt"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// record flattens a trade into Columns order. Open trades leave exit_price
// and pnl empty.
func record(t Trade) []string {
	exit, pnl := "", ""
	if t.Closed() {
		exit = t.ExitPrice.String()
		pnl = t.PnL.Decimal.StringFixed(PnLPlaces)
	}
	return []string{
		t.Key(),
		t.Side.String(),
		t.Symbol,
		t.Strike.String(),
		t.Expiry.Format(market.DateLayout),
		t.EntryPrice.String(),
		exit,
		pnl,
	}
}

// parseRecord is the inverse of record. fields must be in Columns order.
func parseRecord(fields []string) (Trade, error) {
	if len(fields) != len(Columns) {
		return Trade{}, fmt.Errorf("want %d fields, got %d", len(Columns), len(fields))
	}

	var (
		t   Trade
		err error
	)
	if t.Date, err = market.ParseDate(fields[0]); err != nil {
		return Trade{}, fmt.Errorf("date: %w", err)
	}
	if t.Side, err = market.ParseSide(fields[1]); err != nil {
		return Trade{}, fmt.Errorf("side: %w", err)
	}
	t.Symbol = fields[2]
	if t.Strike, err = decimal.NewFromString(fields[3]); err != nil {
		return Trade{}, fmt.Errorf("strike: %w", err)
	}
	if t.Expiry, err = market.ParseDate(fields[4]); err != nil {
		return Trade{}, fmt.Errorf("expiry: %w", err)
	}
	if t.EntryPrice, err = market.ParsePremium(fields[5]); err != nil {
		return Trade{}, fmt.Errorf("entry_price: %w", err)
	}
	if t.ExitPrice, err = market.ParsePremium(fields[6]); err != nil {
		return Trade{}, fmt.Errorf("exit_price: %w", err)
	}
	if fields[7] != "" {
		pnl, err := decimal.NewFromString(fields[7])
		if err != nil {
			return Trade{}, fmt.Errorf("pnl: %w", err)
		}
		t.PnL = decimal.NewNullDecimal(pnl)
	}
	return t, nil
}
