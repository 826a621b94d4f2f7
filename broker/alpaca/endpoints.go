package alpaca

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	tradeapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

// LatestPrice returns the price of the most recent trade of symbol.
func (c *Client) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	trade, err := c.data.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{
		Feed: marketdata.Feed(c.feed),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest trade %s: %w", symbol, err)
	}
	if trade == nil || trade.Price <= 0 {
		return decimal.Zero, fmt.Errorf("latest trade %s: no price", symbol)
	}
	return decimal.NewFromFloat(trade.Price), nil
}

// ListContracts returns the option contracts of one side expiring on
// expiration. The SDK follows page tokens. Contracts that cannot be mapped
// are skipped and logged at debug.
func (c *Client) ListContracts(ctx context.Context, underlying string, side market.Side, expiration time.Time) ([]market.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listed, err := c.trading.GetOptionContracts(tradeapi.GetOptionContractsRequest{
		UnderlyingSymbols: underlying,
		ExpirationDate:    civil.DateOf(expiration),
		Type:              tradeapi.OptionType(side.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("list contracts %s: %w", underlying, err)
	}

	out := make([]market.Contract, 0, len(listed))
	for _, oc := range listed {
		ct, err := toContract(oc)
		if err != nil {
			log.Debug().Err(err).Str("symbol", oc.Symbol).Str("underlying", underlying).Msg("skipping unmappable contract")
			continue
		}
		out = append(out, ct)
	}
	return out, nil
}

func toContract(oc tradeapi.OptionContract) (market.Contract, error) {
	side, err := market.ParseSide(string(oc.Type))
	if err != nil {
		return market.Contract{}, fmt.Errorf("contract %s: %w", oc.Symbol, err)
	}
	exp, err := market.ParseDate(oc.ExpirationDate.String())
	if err != nil {
		return market.Contract{}, fmt.Errorf("contract %s expiration %q: %w", oc.Symbol, oc.ExpirationDate.String(), err)
	}
	if !oc.StrikePrice.IsPositive() {
		return market.Contract{}, fmt.Errorf("contract %s: strike %s", oc.Symbol, oc.StrikePrice)
	}
	return market.Contract{
		Symbol:     oc.Symbol,
		Underlying: oc.UnderlyingSymbol,
		Side:       side,
		Strike:     oc.StrikePrice,
		Expiration: exp,
	}, nil
}

// RecentTrades returns the option prints of symbol in [start, end], oldest
// first. The SDK follows page tokens.
func (c *Client) RecentTrades(ctx context.Context, symbol string, start, end time.Time) ([]market.Print, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trades, err := c.data.GetOptionTrades(symbol, marketdata.GetOptionTradesRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("option trades %s: %w", symbol, err)
	}

	out := make([]market.Print, 0, len(trades))
	for _, t := range trades {
		out = append(out, market.Print{
			Price: decimal.NewFromFloat(t.Price),
			Size:  int64(t.Size),
			Time:  t.Timestamp,
		})
	}
	return out, nil
}
