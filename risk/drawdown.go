// Package risk measures the equity curve of the ledger. It reports; it
// never limits what the strategy trades.
package risk

import (
	"github.com/rustyeddy/coinflip/journal"
	"github.com/shopspring/decimal"
)

// Drawdown is the largest peak to trough fall of cumulative PnL.
type Drawdown struct {
	Amount decimal.Decimal // positive, zero when the curve never falls
	Peak   journal.Point
	Trough journal.Point
}

// MaxDrawdown scans the cumulative curve. The curve starts from a flat
// zero peak so an opening loss counts as a drawdown.
func MaxDrawdown(points []journal.Point) Drawdown {
	var (
		dd   Drawdown
		peak journal.Point
	)
	for _, p := range points {
		if p.Cumulative.GreaterThan(peak.Cumulative) {
			peak = p
		}
		if fall := peak.Cumulative.Sub(p.Cumulative); fall.GreaterThan(dd.Amount) {
			dd = Drawdown{Amount: fall, Peak: peak, Trough: p}
		}
	}
	return dd
}

// Streaks returns the longest runs of consecutive winning and losing
// trades. Flat trades break both.
func Streaks(points []journal.Point) (wins, losses int) {
	var w, l int
	for _, p := range points {
		switch p.PnL.Sign() {
		case 1:
			w, l = w+1, 0
		case -1:
			w, l = 0, l+1
		default:
			w, l = 0, 0
		}
		wins = max(wins, w)
		losses = max(losses, l)
	}
	return wins, losses
}

// Expectancy is mean PnL per closed trade.
func Expectancy(s journal.Summary) decimal.Decimal {
	if s.Closed == 0 {
		return decimal.Zero
	}
	return s.NetPnL.Div(decimal.NewFromInt(int64(s.Closed))).Round(journal.PnLPlaces)
}
