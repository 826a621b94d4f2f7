package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/coinflip/journal"
	"github.com/rustyeddy/coinflip/market"
	"github.com/rustyeddy/coinflip/risk"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade ledger",
	Long: `Query and display trades recorded in the ledger.

Subcommands:
  list     - Print trades as org-mode entries
  table    - Print trades as a table with cumulative PnL
  show     - Print the trade recorded on a date
  summary  - Print win/loss statistics

Examples:
  coinflip journal list --from 2024-06-01 --to 2024-07-01
  coinflip journal table
  coinflip journal show 2024-06-07
  coinflip journal summary`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print trades as org-mode entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print trades as a table",
	Args:  cobra.NoArgs,
	RunE:  runJournalTable,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <YYYY-MM-DD>",
	Short: "Print the trade recorded on a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print win/loss statistics",
	Args:  cobra.NoArgs,
	RunE:  runJournalSummary,
}

var (
	journalFrom string
	journalTo   string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalTableCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalSummaryCmd)

	journalListCmd.Flags().StringVar(&journalFrom, "from", "", "first date to include (YYYY-MM-DD)")
	journalListCmd.Flags().StringVar(&journalTo, "to", "", "first date to exclude (YYYY-MM-DD)")
}

func runJournalList(cmd *cobra.Command, args []string) error {
	store, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	var trades []journal.Trade
	if journalFrom == "" && journalTo == "" {
		l, err := store.Load()
		if err != nil {
			return fmt.Errorf("load ledger: %w", err)
		}
		trades = l.Trades()
	} else {
		start, end, err := parseRange(journalFrom, journalTo)
		if err != nil {
			return err
		}
		trades, err = between(store, start, end)
		if err != nil {
			return err
		}
	}

	if len(trades) == 0 {
		fmt.Println("No trades found")
		return nil
	}
	fmt.Print(journal.FormatTradesOrg(trades))
	return nil
}

func runJournalTable(cmd *cobra.Command, args []string) error {
	l, err := loadLedger(appConfig)
	if err != nil {
		return err
	}
	return journal.WriteTable(os.Stdout, l)
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	day, err := market.ParseDate(args[0])
	if err != nil {
		return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}

	store, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	var t journal.Trade
	if db, ok := store.(*journal.SQLiteStore); ok {
		t, err = db.GetTrade(day)
	} else {
		t, err = getTrade(store, day)
	}
	if errors.Is(err, journal.ErrNotFound) {
		fmt.Printf("No trade recorded on %s\n", args[0])
		return nil
	}
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(t))
	return nil
}

func runJournalSummary(cmd *cobra.Command, args []string) error {
	l, err := loadLedger(appConfig)
	if err != nil {
		return err
	}

	s := l.Summary()
	out, err := journal.FormatSummaryOrg(appConfig.Strategy.Underlying, s)
	if err != nil {
		return err
	}
	fmt.Print(out)

	points := l.Cumulative()
	dd := risk.MaxDrawdown(points)
	wins, losses := risk.Streaks(points)
	fmt.Printf("- Expectancy: %s\n", risk.Expectancy(s).StringFixed(journal.PnLPlaces))
	fmt.Printf("- Max drawdown: %s", dd.Amount.StringFixed(journal.PnLPlaces))
	if dd.Amount.IsPositive() {
		fmt.Printf(" (%s to %s)", dd.Peak.Date.Format(market.DateLayout), dd.Trough.Date.Format(market.DateLayout))
	}
	fmt.Println()
	fmt.Printf("- Longest streaks: %d wins, %d losses\n", wins, losses)
	return nil
}

func getTrade(store journal.Store, day time.Time) (journal.Trade, error) {
	l, err := store.Load()
	if err != nil {
		return journal.Trade{}, fmt.Errorf("load ledger: %w", err)
	}
	t, ok := l.Get(day)
	if !ok {
		return journal.Trade{}, journal.ErrNotFound
	}
	return t, nil
}

func between(store journal.Store, start, end time.Time) ([]journal.Trade, error) {
	if db, ok := store.(*journal.SQLiteStore); ok {
		return db.ListBetween(start, end)
	}
	l, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return l.Between(start, end), nil
}

// parseRange turns optional --from/--to flags into a half-open date range.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	var err error
	if from != "" {
		if start, err = market.ParseDate(from); err != nil {
			return start, end, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if end, err = market.ParseDate(to); err != nil {
			return start, end, fmt.Errorf("--to: %w", err)
		}
	}
	return start, end, nil
}
