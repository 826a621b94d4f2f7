// Package sim runs one day of the coin flip strategy against a provider
// and folds the result into the ledger.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/coinflip/broker"
	"github.com/rustyeddy/coinflip/journal"
	"github.com/rustyeddy/coinflip/market"
	"github.com/rustyeddy/coinflip/pricing"
	"github.com/rustyeddy/coinflip/strategy"
	"github.com/shopspring/decimal"
)

// Flipper chooses the side of the day's trade.
type Flipper interface {
	Flip() market.Side
}

// Options configures an Engine. Zero durations fall back to the defaults
// below, except Hold where zero means price the exit right away.
type Options struct {
	Underlying    string
	EntryLookback time.Duration
	ExitLookback  time.Duration
	Hold          time.Duration
	Calendar      *market.Calendar
}

const (
	DefaultEntryLookback = time.Hour
	DefaultExitLookback  = 30 * time.Minute
)

type Engine struct {
	provider broker.Provider
	store    journal.Store
	pricer   *pricing.Pricer
	flipper  Flipper
	opts     Options
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	log      zerolog.Logger
}

func NewEngine(p broker.Provider, store journal.Store, opts Options) *Engine {
	if opts.Underlying == "" {
		opts.Underlying = "SPY"
	}
	if opts.EntryLookback <= 0 {
		opts.EntryLookback = DefaultEntryLookback
	}
	if opts.ExitLookback <= 0 {
		opts.ExitLookback = DefaultExitLookback
	}
	if opts.Calendar == nil {
		opts.Calendar = &market.Calendar{Location: time.UTC}
	}

	e := &Engine{
		provider: p,
		store:    store,
		flipper:  strategy.NewCoinFlip(0),
		opts:     opts,
		sleep:    sleepCtx,
		log:      zerolog.Nop(),
	}
	e.pricer = pricing.NewPricer(p)
	e.WithClock(time.Now)
	return e
}

// WithClock replaces the wall clock for both the calendar guard and the
// pricing windows.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	e.pricer.WithClock(now)
	return e
}

func (e *Engine) WithFlipper(f Flipper) *Engine {
	e.flipper = f
	return e
}

func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.log = l
	return e
}

// WithSleeper replaces the wait between entry and exit pricing.
func (e *Engine) WithSleeper(sleep func(ctx context.Context, d time.Duration) error) *Engine {
	e.sleep = sleep
	return e
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Skip says why a run recorded no trade.
type Skip string

const (
	SkipNone          Skip = ""
	SkipClosedMarket  Skip = "market closed"
	SkipAlreadyTraded Skip = "already traded today"
	SkipNoPrice       Skip = "underlying price unavailable"
	SkipNoContracts   Skip = "contract list unavailable"
	SkipNoContract    Skip = "no out-of-the-money contract"
)

// Result is the outcome of one UpdateTrades call. Ledger is always set when
// the error is nil; Trade is set only when a trade was recorded.
type Result struct {
	Ledger  *journal.Ledger
	Trade   *journal.Trade
	Skipped Skip
}

// UpdateTrades loads the ledger and, on a trading day with no trade yet,
// flips for a side, selects the nearest OTM same-day contract, prices its
// entry and exit and persists the closed trade.
//
// Provider failures never produce an error: they are logged and either
// skip the day or leave a leg unpriced. Errors come from the store or from
// ctx being cancelled during the hold.
func (e *Engine) UpdateTrades(ctx context.Context) (Result, error) {
	ledger, err := e.store.Load()
	if err != nil {
		return Result{}, fmt.Errorf("load ledger: %w", err)
	}
	res := Result{Ledger: ledger}

	cal := e.opts.Calendar
	today := cal.Today(e.now())
	log := e.log.With().Str("date", today.Format(market.DateLayout)).Logger()

	if !cal.IsTradingDay(today) {
		log.Info().Str("weekday", today.Weekday().String()).Msg("not a trading day, skipping")
		res.Skipped = SkipClosedMarket
		return res, nil
	}
	if ledger.Has(today) {
		log.Info().Msg("trade already recorded for today, skipping")
		res.Skipped = SkipAlreadyTraded
		return res, nil
	}

	side := e.flipper.Flip()
	log = log.With().Str("side", side.String()).Logger()
	log.Info().Msg("flipped a coin")

	price, err := e.provider.LatestPrice(ctx, e.opts.Underlying)
	if err != nil {
		log.Warn().Err(err).Str("underlying", e.opts.Underlying).Msg("fetch underlying price")
		res.Skipped = SkipNoPrice
		return res, nil
	}

	contract, skip := e.selectContract(ctx, log, side, price, today)
	if skip != SkipNone {
		res.Skipped = skip
		return res, nil
	}
	log = log.With().Str("symbol", contract.Symbol).Str("strike", contract.Strike.String()).Logger()
	log.Info().Msg("selected contract")

	entry, err := e.pricer.Entry(ctx, contract, e.opts.EntryLookback)
	e.logPremium(log, "entry", entry, err)
	trade := journal.Open(today, side, contract, entry)

	if e.opts.Hold > 0 {
		log.Debug().Dur("hold", e.opts.Hold).Msg("holding")
		if err := e.sleep(ctx, e.opts.Hold); err != nil {
			return res, fmt.Errorf("hold %s: %w", contract.Symbol, err)
		}
	}

	exit, err := e.pricer.Exit(ctx, contract, e.opts.ExitLookback)
	e.logPremium(log, "exit", exit, err)
	trade.Close(exit)

	if err := ledger.Append(trade); err != nil {
		return res, fmt.Errorf("append trade: %w", err)
	}
	if err := e.store.Save(ledger); err != nil {
		return res, fmt.Errorf("save ledger: %w", err)
	}

	log.Info().
		Str("entry", entry.String()).
		Str("exit", exit.String()).
		Str("pnl", trade.PnL.Decimal.StringFixed(journal.PnLPlaces)).
		Msg("trade recorded")
	res.Trade = &trade
	return res, nil
}

func (e *Engine) selectContract(ctx context.Context, log zerolog.Logger, side market.Side, price decimal.Decimal, today time.Time) (market.Contract, Skip) {
	listed, err := e.provider.ListContracts(ctx, e.opts.Underlying, side, today)
	if err != nil {
		log.Warn().Err(err).Msg("list contracts")
		return market.Contract{}, SkipNoContracts
	}

	contracts := strategy.ForUnderlying(listed, e.opts.Underlying)
	otm := strategy.FilterOTM(contracts, side, price)
	log.Debug().
		Str("price", price.String()).
		Int("listed", len(listed)).
		Int("underlying", len(contracts)).
		Int("otm", len(otm)).
		Msg("evaluated contracts")

	if len(contracts) == 0 && len(listed) > 0 {
		log.Debug().Strs("sample_underlyings", sampleUnderlyings(listed, 5)).Msg("no contracts for underlying")
	}
	for i, c := range contracts {
		if i == 5 {
			break
		}
		log.Debug().Str("symbol", c.Symbol).Str("strike", c.Strike.String()).
			Bool("otm", strategy.IsOTM(side, c.Strike, price)).Msg("candidate")
	}

	contract, ok := strategy.SelectOTM(contracts, side, price)
	if !ok {
		log.Info().Str("price", price.String()).Msg("no out-of-the-money contract, skipping")
		return market.Contract{}, SkipNoContract
	}
	return contract, SkipNone
}

func (e *Engine) logPremium(log zerolog.Logger, leg string, p market.Premium, err error) {
	switch {
	case err != nil:
		log.Warn().Err(err).Str("leg", leg).Msg("price leg, recording as unpriced")
	case !p.Priced:
		log.Warn().Str("leg", leg).Msg("no prints in lookback window, recording as unpriced")
	default:
		log.Debug().Str("leg", leg).Str("premium", p.String()).Msg("priced")
	}
}

func sampleUnderlyings(cs []market.Contract, n int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range cs {
		if _, ok := seen[c.Underlying]; ok {
			continue
		}
		seen[c.Underlying] = struct{}{}
		out = append(out, c.Underlying)
		if len(out) == n {
			break
		}
	}
	return out
}
