package broker

import (
	"context"
	"time"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// PriceOracle returns the last traded price of an underlying.
type PriceOracle interface {
	LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// ContractUniverse lists the option contracts of one side expiring on a date.
// Implementations may return contracts for other underlyings.
type ContractUniverse interface {
	ListContracts(ctx context.Context, underlying string, side market.Side, expiration time.Time) ([]market.Contract, error)
}

// TradeHistory returns prints for a symbol within [start, end], oldest first.
type TradeHistory interface {
	RecentTrades(ctx context.Context, symbol string, start, end time.Time) ([]market.Print, error)
}

// Provider is everything one simulated trade needs from the market.
type Provider interface {
	PriceOracle
	ContractUniverse
	TradeHistory
}
