// Package sim is an in-memory option market. It backs dry runs and tests
// of the trading loop without network access.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
)

var ErrNoPrice = errors.New("no price")

// Op names a provider call that can be made to fail.
type Op string

const (
	OpLatestPrice   Op = "latest_price"
	OpListContracts Op = "list_contracts"
	OpRecentTrades  Op = "recent_trades"
)

// Market holds underlying prices, listed contracts and option prints.
// It is safe for concurrent use.
type Market struct {
	mu        sync.Mutex
	prices    map[string]decimal.Decimal
	contracts []market.Contract
	prints    map[string][]market.Print
	failures  map[Op]error
	calls     map[Op]int
}

func NewMarket() *Market {
	return &Market{
		prices:   make(map[string]decimal.Decimal),
		prints:   make(map[string][]market.Print),
		failures: make(map[Op]error),
		calls:    make(map[Op]int),
	}
}

func (m *Market) SetPrice(symbol string, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

func (m *Market) AddContracts(cs ...market.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts = append(m.contracts, cs...)
}

// AddPrints records prints for symbol, keeping them oldest first.
func (m *Market) AddPrints(symbol string, ps ...market.Print) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append(m.prints[symbol], ps...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })
	m.prints[symbol] = all
}

// Fail makes every later call of op return err. A nil err clears it.
func (m *Market) Fail(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls reports how many times op has been invoked.
func (m *Market) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *Market) enter(op Op) error {
	m.calls[op]++
	return m.failures[op]
}

func (m *Market) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpLatestPrice); err != nil {
		return decimal.Zero, err
	}
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	p, ok := m.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("latest trade %s: %w", symbol, ErrNoPrice)
	}
	return p, nil
}

// ListContracts filters by side and expiration date only, like the live
// API it may return contracts of other underlyings.
func (m *Market) ListContracts(ctx context.Context, underlying string, side market.Side, expiration time.Time) ([]market.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpListContracts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day := expiration.Format(market.DateLayout)
	var out []market.Contract
	for _, c := range m.contracts {
		if c.Side == side && c.Expiration.Format(market.DateLayout) == day {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Market) RecentTrades(ctx context.Context, symbol string, start, end time.Time) ([]market.Print, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpRecentTrades); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []market.Print
	for _, p := range m.prints[symbol] {
		if p.Time.Before(start) || p.Time.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// OCCSymbol formats an OCC option symbol, e.g. SPY240607C00452000.
func OCCSymbol(underlying string, expiration time.Time, side market.Side, strike decimal.Decimal) string {
	right := "C"
	if side == market.Put {
		right = "P"
	}
	milli := strike.Shift(3).Round(0).IntPart()
	return fmt.Sprintf("%s%s%s%08d", strings.ToUpper(underlying), expiration.Format("060102"), right, milli)
}

// Ladder lists calls and puts at every step from center-n*step to
// center+n*step.
func Ladder(underlying string, expiration time.Time, center, step decimal.Decimal, n int) []market.Contract {
	var out []market.Contract
	for i := -n; i <= n; i++ {
		strike := center.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if !strike.IsPositive() {
			continue
		}
		for _, side := range []market.Side{market.Call, market.Put} {
			out = append(out, market.Contract{
				Symbol:     OCCSymbol(underlying, expiration, side, strike),
				Underlying: underlying,
				Side:       side,
				Strike:     strike,
				Expiration: expiration,
			})
		}
	}
	return out
}
