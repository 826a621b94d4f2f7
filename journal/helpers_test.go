package journal

import (
	"testing"
	"time"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := market.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// closedTrade builds a closed trade; an empty price is unpriced.
func closedTrade(date string, side market.Side, strike, entry, exit string) Trade {
	c := market.Contract{
		Symbol:     "SPY" + date + string(side[0]) + strike,
		Underlying: "SPY",
		Side:       side,
		Strike:     dec(strike),
		Expiration: day(date),
	}
	t := Open(day(date), side, c, premium(entry))
	t.Close(premium(exit))
	return t
}

func premium(s string) market.Premium {
	if s == "" {
		return market.Unpriced()
	}
	return market.Priced(dec(s))
}

// assertSameTrade compares trades by value; decimals may differ in
// representation while holding the same number.
func assertSameTrade(t *testing.T, want, got Trade) {
	t.Helper()
	assert.Equal(t, want.Key(), got.Key())
	assert.Equal(t, want.Side, got.Side)
	assert.Equal(t, want.Symbol, got.Symbol)
	assert.True(t, want.Strike.Equal(got.Strike), "strike %s != %s", want.Strike, got.Strike)
	assert.Equal(t, want.Expiry.Format(market.DateLayout), got.Expiry.Format(market.DateLayout))
	assert.Equal(t, want.EntryPrice.Priced, got.EntryPrice.Priced)
	assert.True(t, want.EntryPrice.Amount.Equal(got.EntryPrice.Amount), "entry %s != %s", want.EntryPrice.Amount, got.EntryPrice.Amount)
	assert.Equal(t, want.Closed(), got.Closed())
	if want.Closed() {
		assert.Equal(t, want.ExitPrice.Priced, got.ExitPrice.Priced)
		assert.True(t, want.ExitPrice.Amount.Equal(got.ExitPrice.Amount), "exit %s != %s", want.ExitPrice.Amount, got.ExitPrice.Amount)
		assert.True(t, want.PnL.Decimal.Equal(got.PnL.Decimal), "pnl %s != %s", want.PnL.Decimal, got.PnL.Decimal)
	}
}

func sampleLedger() *Ledger {
	return NewLedger(
		closedTrade("2024-06-03", market.Call, "528", "1.10", "1.45"),
		closedTrade("2024-06-04", market.Put, "525", "0.90", "0.12"),
		closedTrade("2024-06-05", market.Call, "531", "", "0.37"),
	)
}
