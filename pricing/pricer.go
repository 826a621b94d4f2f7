package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/coinflip/broker"
	"github.com/rustyeddy/coinflip/market"
)

// Pricer prices option contracts from their most recent print.
//
// A failed lookup or an empty window yields an unpriced premium rather than
// aborting the caller. The error is still returned so it can be logged.
type Pricer struct {
	history broker.TradeHistory
	now     func() time.Time
}

func NewPricer(h broker.TradeHistory) *Pricer {
	return &Pricer{history: h, now: time.Now}
}

// WithClock replaces the wall clock used to anchor lookback windows.
func (p *Pricer) WithClock(now func() time.Time) *Pricer {
	p.now = now
	return p
}

// Last returns the price of the newest print for symbol in the trailing window
// ending now.
func (p *Pricer) Last(ctx context.Context, symbol string, window time.Duration) (market.Premium, error) {
	if window <= 0 {
		return market.Unpriced(), fmt.Errorf("lookback window must be positive, got %s", window)
	}

	end := p.now()
	prints, err := p.history.RecentTrades(ctx, symbol, end.Add(-window), end)
	if err != nil {
		return market.Unpriced(), fmt.Errorf("recent trades %s: %w", symbol, err)
	}
	if len(prints) == 0 {
		return market.Unpriced(), nil
	}
	return market.Priced(prints[len(prints)-1].Price), nil
}

// Entry prices a contract at the open.
func (p *Pricer) Entry(ctx context.Context, c market.Contract, window time.Duration) (market.Premium, error) {
	return p.Last(ctx, c.Symbol, window)
}

// Exit prices a contract at the close, after the holding interval.
func (p *Pricer) Exit(ctx context.Context, c market.Contract, window time.Duration) (market.Premium, error) {
	return p.Last(ctx, c.Symbol, window)
}
