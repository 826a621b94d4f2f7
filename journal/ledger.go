package journal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// Ledger is the ordered list of trades in the order they were appended.
type Ledger struct {
	trades []Trade
	index  map[string]int
}

func NewLedger(trades ...Trade) *Ledger {
	l := &Ledger{index: make(map[string]int)}
	for _, t := range trades {
		l.trades = append(l.trades, t)
		// older ledgers may hold duplicates; the first one wins lookups
		if _, ok := l.index[t.Key()]; !ok {
			l.index[t.Key()] = len(l.trades) - 1
		}
	}
	return l
}

func (l *Ledger) Len() int { return len(l.trades) }

// Trades returns a copy of the trades in ledger order.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Has reports whether a trade is recorded for the calendar date of day.
func (l *Ledger) Has(day time.Time) bool {
	_, ok := l.index[day.Format(market.DateLayout)]
	return ok
}

func (l *Ledger) Get(day time.Time) (Trade, bool) {
	i, ok := l.index[day.Format(market.DateLayout)]
	if !ok {
		return Trade{}, false
	}
	return l.trades[i], true
}

// Append adds t at the end. It refuses a second trade for the same date.
func (l *Ledger) Append(t Trade) error {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if _, ok := l.index[t.Key()]; ok {
		return fmt.Errorf("append %s: %w", t.Key(), ErrDuplicateDate)
	}
	l.trades = append(l.trades, t)
	l.index[t.Key()] = len(l.trades) - 1
	return nil
}

// Point is one trade's contribution to the equity curve.
type Point struct {
	Date       time.Time
	PnL        decimal.Decimal
	Cumulative decimal.Decimal
}

// Cumulative is the running sum of PnL in ledger order. Open trades add
// nothing but keep their point on the curve.
func (l *Ledger) Cumulative() []Point {
	out := make([]Point, 0, len(l.trades))
	sum := decimal.Zero
	for _, t := range l.trades {
		pnl := decimal.Zero
		if t.Closed() {
			pnl = t.PnL.Decimal
		}
		sum = sum.Add(pnl)
		out = append(out, Point{Date: t.Date, PnL: pnl, Cumulative: sum})
	}
	return out
}

// HasPnL reports whether at least one trade has been closed.
func (l *Ledger) HasPnL() bool {
	for _, t := range l.trades {
		if t.Closed() {
			return true
		}
	}
	return false
}

// Summary is a quick scorecard of the ledger.
type Summary struct {
	Trades   int
	Closed   int
	Wins     int
	Losses   int
	Unpriced int
	Calls    int
	Puts     int
	NetPnL   decimal.Decimal
	First    time.Time
	Last     time.Time
}

func (s Summary) WinRate() float64 {
	if s.Closed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Closed)
}

func (l *Ledger) Summary() Summary {
	s := Summary{Trades: len(l.trades), NetPnL: decimal.Zero}
	for i, t := range l.trades {
		if i == 0 {
			s.First = t.Date
		}
		s.Last = t.Date

		switch t.Side {
		case market.Call:
			s.Calls++
		case market.Put:
			s.Puts++
		}
		if t.Unpriced() {
			s.Unpriced++
		}
		if !t.Closed() {
			continue
		}
		s.Closed++
		s.NetPnL = s.NetPnL.Add(t.PnL.Decimal)
		switch t.PnL.Decimal.Sign() {
		case 1:
			s.Wins++
		case -1:
			s.Losses++
		}
	}
	return s
}
