// journal/journal.go
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// PnLPlaces is the number of decimal places realized PnL is rounded to.
const PnLPlaces = 2

var (
	ErrNotFound      = errors.New("trade not found")
	ErrDuplicateDate = errors.New("a trade is already recorded for this date")
)

// Columns is the persisted layout of a trade, in order.
var Columns = []string{"date", "side", "symbol", "strike", "expiry", "entry_price", "exit_price", "pnl"}

// Trade is one simulated trade. There is at most one per calendar date.
//
// A trade is open until Close is called; while open ExitPrice is meaningless
// and PnL is null.
type Trade struct {
	Date       time.Time
	Side       market.Side
	Symbol     string
	Strike     decimal.Decimal
	Expiry     time.Time
	EntryPrice market.Premium
	ExitPrice  market.Premium
	PnL        decimal.NullDecimal
}

// Open starts a trade on date for the selected contract.
func Open(date time.Time, side market.Side, c market.Contract, entry market.Premium) Trade {
	return Trade{
		Date:       market.Day(date),
		Side:       side,
		Symbol:     c.Symbol,
		Strike:     c.Strike,
		Expiry:     c.Expiration,
		EntryPrice: entry,
	}
}

// Close records the exit and realizes PnL. Unpriced legs count as zero.
func (t *Trade) Close(exit market.Premium) {
	t.ExitPrice = exit
	t.PnL = decimal.NewNullDecimal(exit.Amount.Sub(t.EntryPrice.Amount).Round(PnLPlaces))
}

func (t Trade) Closed() bool { return t.PnL.Valid }

// Unpriced reports whether either leg of a closed trade had no print, which
// makes its PnL meaningless.
func (t Trade) Unpriced() bool {
	return !t.EntryPrice.Priced || (t.Closed() && !t.ExitPrice.Priced)
}

// Key is the idempotence key of the trade: its calendar date.
func (t Trade) Key() string { return t.Date.Format(market.DateLayout) }

// Store loads and saves the whole ledger.
type Store interface {
	Load() (*Ledger, error)
	Save(*Ledger) error
	Close() error
}
