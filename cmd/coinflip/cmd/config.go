package cmd

import (
	"fmt"

	"github.com/rustyeddy/coinflip/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

API keys are not stored in the file; set ALPACA_API_KEY and
ALPACA_SECRET_KEY in the environment or a .env file.

Examples:
  coinflip config init -o coinflip.yaml
  coinflip config validate -f coinflip.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "coinflip.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  coinflip run -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Underlying: %s (entry lookback %s, exit lookback %s, hold %s)\n",
		cfg.Strategy.Underlying, cfg.EntryLookback(), cfg.ExitLookback(), cfg.Hold())
	fmt.Printf("  Calendar: %s, %d holidays\n", cfg.Calendar.Timezone, len(cfg.Calendar.Holidays))
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	fmt.Printf("  Chart: %s\n", cfg.Chart.Output)
	fmt.Printf("  Credentials: %v\n", cfg.Provider.KeyID != "" && cfg.Provider.SecretKey != "")
	return nil
}
