package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/coinflip/config"
	"github.com/rustyeddy/coinflip/internal/logx"
	"github.com/rustyeddy/coinflip/journal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coinflip",
	Short: "A coin flip options trading simulation",
	Long: `Coinflip simulates a deliberately uninformed options strategy.

Once per trading day it flips a coin for call or put, picks the nearest
out-of-the-money contract expiring that day, prices the entry and exit from
recent prints and appends the result to a trade ledger. The cumulative PnL
is rendered as an HTML chart.

Run it from a scheduler once a day:
  coinflip run -c coinflip.yaml`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile   string
	logLevel  string
	logFormat string

	appConfig *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "coinflip.yaml", "config file (defaults are used when it does not exist)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (text, json)")
}

// setup loads the configuration and the logger before any subcommand.
// config subcommands handle their own files and skip it.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Parent() == configCmd {
		logx.Setup(logLevel, logFormat)
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logx.Setup(cfg.Log.Level, cfg.Log.Format)
	appConfig = cfg
	return nil
}

// openStore opens the ledger store named by the journal section.
func openStore(cfg *config.Config) (journal.Store, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Journal.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		s, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return s, nil
	default:
		log.Debug().Str("path", cfg.Journal.TradesFile).Msg("using csv ledger")
		return journal.NewCSV(cfg.Journal.TradesFile), nil
	}
}

func loadLedger(cfg *config.Config) (*journal.Ledger, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	l, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return l, nil
}
