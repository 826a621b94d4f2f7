package sim

import (
	"time"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// Session options for Seeded.
type Session struct {
	Underlying string
	Price      decimal.Decimal // underlying last trade
	Step       decimal.Decimal // strike spacing
	Strikes    int             // strikes each side of the money
	Now        time.Time
}

var printOffsets = []time.Duration{-50 * time.Minute, -25 * time.Minute, -5 * time.Minute}

// Seeded builds a market for one session: the underlying priced at
// s.Price, a same-day strike ladder around it and a few prints per
// contract within the last hour. Premiums decay with distance from the
// money so nearer strikes are dearer.
func Seeded(s Session) *Market {
	if s.Step.IsZero() {
		s.Step = decimal.NewFromInt(1)
	}
	if s.Strikes <= 0 {
		s.Strikes = 10
	}
	expiry := market.Day(s.Now)
	center := s.Price.Div(s.Step).Round(0).Mul(s.Step)

	m := NewMarket()
	m.SetPrice(s.Underlying, s.Price)
	contracts := Ladder(s.Underlying, expiry, center, s.Step, s.Strikes)
	m.AddContracts(contracts...)

	floor := decimal.RequireFromString("0.05")
	for _, c := range contracts {
		base := decimal.NewFromInt(2).Sub(c.Distance(s.Price).Mul(decimal.RequireFromString("0.25")))
		if base.LessThan(floor) {
			base = floor
		}
		for i, off := range printOffsets {
			drift := decimal.New(int64(i*3), -2) // +0.00, +0.03, +0.06
			m.AddPrints(c.Symbol, market.Print{
				Price: base.Add(drift).Round(2),
				Size:  int64(1 + i),
				Time:  s.Now.Add(off),
			})
		}
	}
	return m
}
