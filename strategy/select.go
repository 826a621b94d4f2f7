// strategy/select.go
package strategy

import (
	"errors"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// ErrNoContract means no contract qualified for today's trade.
var ErrNoContract = errors.New("no out-of-the-money contract")

// IsOTM reports whether strike is out of the money for side at ref.
// At-the-money is never OTM.
func IsOTM(side market.Side, strike, ref decimal.Decimal) bool {
	switch side {
	case market.Call:
		return strike.GreaterThan(ref)
	case market.Put:
		return strike.LessThan(ref)
	default:
		return false
	}
}

// ForUnderlying drops contracts written on other underlyings, keeping order.
func ForUnderlying(contracts []market.Contract, underlying string) []market.Contract {
	out := make([]market.Contract, 0, len(contracts))
	for _, c := range contracts {
		if c.Underlying == underlying {
			out = append(out, c)
		}
	}
	return out
}

// FilterOTM keeps the contracts that are out of the money for side at ref,
// in input order.
func FilterOTM(contracts []market.Contract, side market.Side, ref decimal.Decimal) []market.Contract {
	out := make([]market.Contract, 0, len(contracts))
	for _, c := range contracts {
		if IsOTM(side, c.Strike, ref) {
			out = append(out, c)
		}
	}
	return out
}

// SelectOTM returns the OTM contract whose strike is nearest ref. Ties go to
// the contract that appears first in contracts. The bool is false when no
// contract is OTM.
func SelectOTM(contracts []market.Contract, side market.Side, ref decimal.Decimal) (market.Contract, bool) {
	var (
		best     market.Contract
		bestDist decimal.Decimal
		found    bool
	)
	for _, c := range contracts {
		if !IsOTM(side, c.Strike, ref) {
			continue
		}
		d := c.Distance(ref)
		// strictly less keeps the first of equal distances
		if !found || d.LessThan(bestDist) {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}
