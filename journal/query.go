package journal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/coinflip/market"
)

// GetTrade returns the trade recorded on day.
func (s *SQLiteStore) GetTrade(day time.Time) (Trade, error) {
	key := day.Format(market.DateLayout)
	trades, err := s.query(selectTrades+` WHERE date = ? ORDER BY seq ASC`, key)
	if err != nil {
		return Trade{}, err
	}
	if len(trades) == 0 {
		return Trade{}, fmt.Errorf("trade %s: %w", key, ErrNotFound)
	}
	return trades[0], nil
}

// ListBetween returns trades dated within [start, end), oldest first.
func (s *SQLiteStore) ListBetween(start, end time.Time) ([]Trade, error) {
	return s.query(selectTrades+`
		WHERE date >= ? AND date < ?
		ORDER BY date ASC, seq ASC`,
		start.Format(market.DateLayout), end.Format(market.DateLayout))
}

// Between filters an in-memory ledger the same way ListBetween does.
func (l *Ledger) Between(start, end time.Time) []Trade {
	lo, hi := start.Format(market.DateLayout), end.Format(market.DateLayout)
	var out []Trade
	for _, t := range l.trades {
		if k := t.Key(); k >= lo && k < hi {
			out = append(out, t)
		}
	}
	return out
}
