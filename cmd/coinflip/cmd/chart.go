package cmd

import (
	"fmt"

	"github.com/rustyeddy/coinflip/chart"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Redraw the cumulative PnL chart from the ledger",
	Long: `Chart regenerates the HTML chart from the ledger without contacting the
provider. Nothing is written when the ledger has no closed trades.

Example:
  coinflip chart -o /tmp/index.html`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

var chartOutput string

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output file (default from config)")
}

func runChart(cmd *cobra.Command, args []string) error {
	l, err := loadLedger(appConfig)
	if err != nil {
		return err
	}

	out := appConfig.Chart.Output
	if chartOutput != "" {
		out = chartOutput
	}

	wrote, err := chart.WriteFile(out, l, appConfig.Chart.Title)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if !wrote {
		fmt.Println("No closed trades, chart not written")
		return nil
	}
	fmt.Printf("✓ Chart written: %s (%d trades)\n", out, l.Len())
	return nil
}
