package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/coinflip/broker"
	"github.com/rustyeddy/coinflip/broker/alpaca"
	bsim "github.com/rustyeddy/coinflip/broker/sim"
	"github.com/rustyeddy/coinflip/chart"
	"github.com/rustyeddy/coinflip/config"
	"github.com/rustyeddy/coinflip/internal/id"
	"github.com/rustyeddy/coinflip/journal"
	"github.com/rustyeddy/coinflip/sim"
	"github.com/rustyeddy/coinflip/strategy"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Record today's coin flip trade and redraw the chart",
	Long: `Run loads the ledger and, if today is a trading day without a trade yet,
flips a coin for call or put, selects the nearest out-of-the-money contract
expiring today, prices the entry and exit and appends the trade. The chart
is then regenerated from the whole ledger.

Provider failures are logged and leave the ledger untouched; the command
still exits 0. Ledger or chart write failures exit 1.

With --dry-run an in-memory market replaces the provider and the ledger is
not written.

Examples:
  coinflip run
  coinflip run -c coinflip.yaml --log-level debug
  coinflip run --dry-run --price 512.40`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runDryRun  bool
	runNoChart bool
	runPrice   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "use an in-memory market and do not write the ledger or chart")
	runCmd.Flags().BoolVar(&runNoChart, "no-chart", false, "skip chart generation")
	runCmd.Flags().StringVar(&runPrice, "price", "450", "dry-run: underlying price")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	runID := id.New()
	logger := log.With().Str("run_id", runID).Logger()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cal := cfg.TradingCalendar()
	var provider broker.Provider
	if runDryRun {
		price, err := decimal.NewFromString(runPrice)
		if err != nil {
			return fmt.Errorf("--price: %w", err)
		}
		provider = bsim.Seeded(bsim.Session{
			Underlying: cfg.Strategy.Underlying,
			Price:      price,
			Now:        time.Now().In(cal.Location),
		})
		store = readOnly{store}
		logger.Info().Str("price", price.String()).Msg("dry run against in-memory market")
	} else {
		provider = newProvider(cfg)
	}

	engine := sim.NewEngine(provider, store, sim.Options{
		Underlying:    cfg.Strategy.Underlying,
		EntryLookback: cfg.EntryLookback(),
		ExitLookback:  cfg.ExitLookback(),
		Hold:          cfg.Hold(),
		Calendar:      cal,
	}).WithLogger(logger).WithFlipper(strategy.NewCoinFlip(cfg.Strategy.Seed))

	res, err := engine.UpdateTrades(cmd.Context())
	if err != nil {
		return err
	}

	if res.Trade != nil {
		fmt.Println(journal.FormatTradeOrg(*res.Trade))
	} else {
		logger.Info().Str("reason", string(res.Skipped)).Msg("no trade recorded")
	}

	if runNoChart || runDryRun {
		return nil
	}
	wrote, err := chart.WriteFile(cfg.Chart.Output, res.Ledger, cfg.Chart.Title)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if wrote {
		logger.Info().Str("path", cfg.Chart.Output).Int("trades", res.Ledger.Len()).Msg("chart written")
	} else {
		logger.Info().Msg("no closed trades, chart skipped")
	}
	return nil
}

func newProvider(cfg *config.Config) *alpaca.Client {
	p := cfg.Provider
	if p.KeyID == "" || p.SecretKey == "" {
		log.Warn().Msg("ALPACA_API_KEY / ALPACA_SECRET_KEY not set, provider calls will fail")
	}
	return alpaca.NewClient(p.KeyID, p.SecretKey).
		WithURLs(p.TradingURL, p.DataURL).
		WithFeed(p.Feed).
		WithRate(p.RatePerSec).
		WithTimeout(cfg.Timeout())
}

// readOnly discards saves so a dry run never touches the real ledger.
type readOnly struct {
	journal.Store
}

func (readOnly) Save(*journal.Ledger) error { return nil }
