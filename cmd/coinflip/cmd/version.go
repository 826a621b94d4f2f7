package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the coinflip CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coinflip version %s\n", version)
		fmt.Println("A coin flip options trading simulation")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
