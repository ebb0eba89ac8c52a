package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nx-gov/canister-metrics/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nxgov-metrics",
	Short: "Canister metrics exporter",
	Long: `nxgov-metrics exposes the stable memory, wasm memory and cycles balance
of a canister as Prometheus gauges.

Every scrape reads the counters afresh; nothing is stored or aggregated.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
