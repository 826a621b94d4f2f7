package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	bsim "github.com/rustyeddy/coinflip/broker/sim"
	"github.com/rustyeddy/coinflip/journal"
	"github.com/rustyeddy/coinflip/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSide market.Side

func (f fixedSide) Flip() market.Side { return market.Side(f) }

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.t = c.t.Add(d)
	return nil
}

var newYork = mustLocation("America/New_York")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Friday 2024-06-07 11:00 in New York.
var friday = time.Date(2024, 6, 7, 11, 0, 0, 0, newYork)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func listed(underlying string, side market.Side, strike string) market.Contract {
	exp := market.Day(friday)
	return market.Contract{
		Symbol:     bsim.OCCSymbol(underlying, exp, side, dec(strike)),
		Underlying: underlying,
		Side:       side,
		Strike:     dec(strike),
		Expiration: exp,
	}
}

type fixture struct {
	market *bsim.Market
	store  *journal.CSVStore
	clock  *clock
	engine *Engine
}

func newFixture(t *testing.T, side market.Side, hold time.Duration) *fixture {
	t.Helper()
	cal, err := market.NewCalendar("America/New_York", []string{"2024-06-19"})
	require.NoError(t, err)

	f := &fixture{
		market: bsim.NewMarket(),
		store:  journal.NewCSV(filepath.Join(t.TempDir(), "data", "trades.csv")),
		clock:  &clock{t: friday},
	}
	f.market.SetPrice("SPY", dec("450.00"))
	f.market.AddContracts(
		listed("SPY", market.Call, "448"),
		listed("SPY", market.Call, "452"),
		listed("SPY", market.Call, "460"),
		listed("SPY", market.Put, "448"),
		listed("SPY", market.Put, "452"),
	)

	f.engine = NewEngine(f.market, f.store, Options{
		Underlying: "SPY",
		Hold:       hold,
		Calendar:   cal,
	}).WithClock(f.clock.Now).WithSleeper(f.clock.Sleep).WithFlipper(fixedSide(side))
	return f
}

func (f *fixture) print(c market.Contract, price string, at time.Time) {
	f.market.AddPrints(c.Symbol, market.Print{Price: dec(price), Size: 1, Time: at})
}

func TestUpdateTrades_RecordsNearestOTMCall(t *testing.T) {
	f := newFixture(t, market.Call, 30*time.Minute)
	c452 := listed("SPY", market.Call, "452")
	f.print(c452, "1.10", friday.Add(-40*time.Minute))
	f.print(c452, "1.20", friday.Add(-10*time.Minute))
	f.print(c452, "1.55", friday.Add(20*time.Minute))

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Trade)
	assert.Equal(t, SkipNone, res.Skipped)

	tr := *res.Trade
	assert.Equal(t, "2024-06-07", tr.Key())
	assert.Equal(t, market.Call, tr.Side)
	assert.Equal(t, c452.Symbol, tr.Symbol)
	assert.True(t, dec("452").Equal(tr.Strike))
	assert.Equal(t, "1.2", tr.EntryPrice.String())
	assert.Equal(t, "1.55", tr.ExitPrice.String())
	assert.Equal(t, "0.35", tr.PnL.Decimal.StringFixed(2))

	reloaded, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	assert.True(t, reloaded.Has(friday))
}

func TestUpdateTrades_RecordsNearestOTMPut(t *testing.T) {
	f := newFixture(t, market.Put, 0)
	c448 := listed("SPY", market.Put, "448")
	f.print(c448, "0.80", friday.Add(-5*time.Minute))

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Trade)
	assert.Equal(t, c448.Symbol, res.Trade.Symbol)
	// no hold: both legs see the same print
	assert.Equal(t, "0.00", res.Trade.PnL.Decimal.StringFixed(2))
}

func TestUpdateTrades_NonTradingDays(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"saturday", time.Date(2024, 6, 8, 11, 0, 0, 0, newYork)},
		{"sunday", time.Date(2024, 6, 9, 11, 0, 0, 0, newYork)},
		{"holiday", time.Date(2024, 6, 19, 11, 0, 0, 0, newYork)},
		// 01:00 UTC Saturday is still Friday in New York.
		{"friday evening utc", time.Date(2024, 6, 8, 1, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, market.Call, 0)
			f.clock.t = tt.now

			res, err := f.engine.UpdateTrades(context.Background())
			require.NoError(t, err)

			if tt.name == "friday evening utc" {
				assert.Equal(t, SkipNone, res.Skipped)
				return
			}
			assert.Equal(t, SkipClosedMarket, res.Skipped)
			assert.Nil(t, res.Trade)
			assert.Equal(t, 0, res.Ledger.Len())
			assert.Equal(t, 0, f.market.Calls(bsim.OpLatestPrice))
			_, statErr := os.Stat(f.store.Path())
			assert.True(t, os.IsNotExist(statErr), "ledger must not be written")
		})
	}
}

func TestUpdateTrades_AlreadyTradedToday(t *testing.T) {
	f := newFixture(t, market.Call, 0)

	_, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)

	f.clock.t = friday.Add(3 * time.Hour)
	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SkipAlreadyTraded, res.Skipped)
	assert.Equal(t, 1, res.Ledger.Len())
	assert.Equal(t, 1, f.market.Calls(bsim.OpLatestPrice))
}

func TestUpdateTrades_MissingLedgerStartsEmpty(t *testing.T) {
	f := newFixture(t, market.Call, 0)
	_, err := os.Stat(f.store.Path())
	require.True(t, os.IsNotExist(err))

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Ledger.Len())
	assert.FileExists(t, f.store.Path())
}

func TestUpdateTrades_NoPrintsRecordsSentinel(t *testing.T) {
	f := newFixture(t, market.Call, 0)

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Trade)

	tr := res.Trade
	assert.False(t, tr.EntryPrice.Priced)
	assert.False(t, tr.ExitPrice.Priced)
	assert.True(t, tr.Closed())
	assert.True(t, tr.Unpriced())
	assert.True(t, tr.PnL.Decimal.IsZero())

	raw, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), ",0,0,0.00\n")
}

func TestUpdateTrades_ProviderFailures(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		op   bsim.Op
		skip Skip
	}{
		{"latest price", bsim.OpLatestPrice, SkipNoPrice},
		{"list contracts", bsim.OpListContracts, SkipNoContracts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, market.Call, 0)
			f.market.Fail(tt.op, boom)

			res, err := f.engine.UpdateTrades(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.skip, res.Skipped)
			assert.Nil(t, res.Trade)
			assert.Equal(t, 0, res.Ledger.Len())
		})
	}
}

func TestUpdateTrades_TradeHistoryFailureStillRecords(t *testing.T) {
	f := newFixture(t, market.Call, 0)
	f.market.Fail(bsim.OpRecentTrades, errors.New("timeout"))

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Trade)
	assert.True(t, res.Trade.Unpriced())
	assert.Equal(t, 2, f.market.Calls(bsim.OpRecentTrades))
}

func TestUpdateTrades_NoOTMContract(t *testing.T) {
	f := newFixture(t, market.Call, 0)
	f.market.SetPrice("SPY", dec("470"))

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SkipNoContract, res.Skipped)
	assert.Equal(t, 0, res.Ledger.Len())
}

func TestUpdateTrades_IgnoresOtherUnderlyings(t *testing.T) {
	f := newFixture(t, market.Call, 0)
	qqq := listed("QQQ", market.Call, "451")
	f.market.AddContracts(qqq)

	res, err := f.engine.UpdateTrades(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Trade)
	assert.NotEqual(t, qqq.Symbol, res.Trade.Symbol)
	assert.True(t, dec("452").Equal(res.Trade.Strike))
}

func TestUpdateTrades_HoldCancelled(t *testing.T) {
	f := newFixture(t, market.Call, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.engine.WithSleeper(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})

	_, err := f.engine.UpdateTrades(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

type failingStore struct {
	loadErr, saveErr error
}

func (s failingStore) Load() (*journal.Ledger, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return journal.NewLedger(), nil
}

func (s failingStore) Save(*journal.Ledger) error { return s.saveErr }
func (s failingStore) Close() error               { return nil }

func TestUpdateTrades_PersistenceErrors(t *testing.T) {
	disk := errors.New("disk full")

	for _, store := range []failingStore{{loadErr: disk}, {saveErr: disk}} {
		f := newFixture(t, market.Call, 0)
		e := NewEngine(f.market, store, Options{Calendar: f.engine.opts.Calendar}).
			WithClock(f.clock.Now).WithFlipper(fixedSide(market.Call))

		_, err := e.UpdateTrades(context.Background())
		assert.ErrorIs(t, err, disk)
	}
}
