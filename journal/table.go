package journal

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// WriteTable prints the ledger with its running PnL as a text table.
func WriteTable(w io.Writer, l *Ledger) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Date", "Side", "Symbol", "Strike", "Entry", "Exit", "PnL", "Cum PnL")

	points := l.Cumulative()
	for i, t := range l.trades {
		exit, pnl := "-", "-"
		if t.Closed() {
			exit = fixed(t.ExitPrice, "n/a")
			pnl = t.PnL.Decimal.StringFixed(PnLPlaces)
		}
		if err := table.Append(
			strconv.Itoa(i+1),
			t.Key(),
			strings.ToUpper(t.Side.String()),
			t.Symbol,
			t.Strike.StringFixed(2),
			fixed(t.EntryPrice, "n/a"),
			exit,
			pnl,
			points[i].Cumulative.StringFixed(PnLPlaces),
		); err != nil {
			return err
		}
	}

	return table.Render()
}
