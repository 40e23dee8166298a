package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "remedy",
	Short: "remedy — classify CI failures and drive fix-validate loops",
	Long: `remedy runs a project's validation pipeline (format, lint, type-check,
build, tests), classifies failures out of raw tool output, and retries
with backoff after fixes are applied.

All state is stored in ~/.remedy/ (SQLite for run history, JSON for
run artifacts).`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}
