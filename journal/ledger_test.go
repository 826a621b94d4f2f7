package journal

import (
	"errors"
	"testing"

	"github.com/rustyeddy/coinflip/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
		exit  string
		pnl   string
	}{
		{"profit", "1.10", "1.45", "0.35"},
		{"loss", "0.90", "0.12", "-0.78"},
		{"rounded", "1.0", "1.126", "0.13"},
		{"unpriced_entry", "", "0.37", "0.37"},
		{"unpriced_exit", "0.37", "", "-0.37"},
		{"both_unpriced", "", "", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := closedTrade("2024-06-03", market.Call, "528", tt.entry, tt.exit)
			require.True(t, tr.Closed())
			assert.True(t, tr.PnL.Decimal.Equal(dec(tt.pnl)), "pnl = %s, want %s", tr.PnL.Decimal, tt.pnl)
			assert.Equal(t, tt.entry == "" || tt.exit == "", tr.Unpriced())
		})
	}
}

func TestOpenTradeHasNoPnL(t *testing.T) {
	t.Parallel()

	tr := Open(day("2024-06-03"), market.Put, market.Contract{Symbol: "P", Strike: dec("500")}, market.Priced(dec("1")))
	assert.False(t, tr.Closed())
	assert.False(t, tr.PnL.Valid)
	assert.False(t, tr.Unpriced())
}

func TestLedgerAppendIsIdempotentByDate(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	require.NoError(t, l.Append(closedTrade("2024-06-03", market.Call, "528", "1", "2")))
	assert.True(t, l.Has(day("2024-06-03")))
	assert.False(t, l.Has(day("2024-06-04")))

	err := l.Append(closedTrade("2024-06-03", market.Put, "520", "1", "2"))
	assert.True(t, errors.Is(err, ErrDuplicateDate))
	assert.Equal(t, 1, l.Len())

	got, ok := l.Get(day("2024-06-03"))
	require.True(t, ok)
	assert.Equal(t, market.Call, got.Side)
}

func TestZeroLedgerAppend(t *testing.T) {
	t.Parallel()

	var l Ledger
	assert.False(t, l.Has(day("2024-06-03")))
	require.NoError(t, l.Append(closedTrade("2024-06-03", market.Call, "528", "1", "2")))
	assert.True(t, l.Has(day("2024-06-03")))
}

func TestLedgerCumulative(t *testing.T) {
	t.Parallel()

	l := NewLedger(
		closedTrade("2024-06-03", market.Call, "528", "1", "4"),
		closedTrade("2024-06-04", market.Put, "525", "2", "1"),
		closedTrade("2024-06-05", market.Call, "531", "1", "3"),
	)

	points := l.Cumulative()
	require.Len(t, points, 3)
	for i, want := range []string{"3", "2", "4"} {
		assert.True(t, points[i].Cumulative.Equal(dec(want)), "point %d = %s, want %s", i, points[i].Cumulative, want)
	}
	assert.Equal(t, "2024-06-05", points[2].Date.Format(market.DateLayout))
}

func TestLedgerCumulativeSkipsOpenTrades(t *testing.T) {
	t.Parallel()

	open := Open(day("2024-06-04"), market.Put, market.Contract{Symbol: "P", Strike: dec("525")}, market.Priced(dec("1")))
	l := NewLedger(
		closedTrade("2024-06-03", market.Call, "528", "1", "4"),
		open,
	)

	points := l.Cumulative()
	require.Len(t, points, 2)
	assert.True(t, points[1].PnL.IsZero())
	assert.True(t, points[1].Cumulative.Equal(dec("3")))
	assert.True(t, l.HasPnL())
	assert.False(t, NewLedger(open).HasPnL())
	assert.False(t, NewLedger().HasPnL())
}

func TestLedgerSummary(t *testing.T) {
	t.Parallel()

	s := sampleLedger().Summary()
	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 3, s.Closed)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Unpriced)
	assert.Equal(t, 2, s.Calls)
	assert.Equal(t, 1, s.Puts)
	assert.True(t, s.NetPnL.Equal(dec("-0.06")), "net = %s", s.NetPnL)
	assert.InDelta(t, 2.0/3.0, s.WinRate(), 1e-9)
	assert.Equal(t, "2024-06-03", s.First.Format(market.DateLayout))
	assert.Equal(t, "2024-06-05", s.Last.Format(market.DateLayout))

	assert.Zero(t, NewLedger().Summary().WinRate())
}

func TestLedgerBetween(t *testing.T) {
	t.Parallel()

	got := sampleLedger().Between(day("2024-06-04"), day("2024-06-05"))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-06-04", got[0].Key())
}

func TestNewLedgerKeepsLegacyDuplicates(t *testing.T) {
	t.Parallel()

	l := NewLedger(
		closedTrade("2024-06-03", market.Call, "528", "1", "2"),
		closedTrade("2024-06-03", market.Put, "520", "1", "2"),
	)
	assert.Equal(t, 2, l.Len())
	got, _ := l.Get(day("2024-06-03"))
	assert.Equal(t, market.Call, got.Side)
}
