package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"nx-gov/canister-metrics/pkg/cli"
	"nx-gov/canister-metrics/pkg/config"
)

var dumpFlags struct {
	stub bool
	body bool
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print one metrics response",
	Long: `Build a single metrics response and print it: status line, headers, a
blank line, then the body.

Examples:
  # Dump using the configured counters
  nxgov-metrics dump -c metrics.yaml

  # Dump zero memory sizes, body only
  nxgov-metrics dump --stub --body-only`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().BoolVar(&dumpFlags.stub, "stub", false, "use the stub counter reader")
	dumpCmd.Flags().BoolVar(&dumpFlags.body, "body-only", false, "print only the body")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dumpFlags.stub {
		cfg.Counters.Mode = config.CountersModeStub
	}

	p, err := newPipeline(&cfg.Counters)
	if err != nil {
		return err
	}

	resp := p.builder.BuildMetricsResponse()
	out := cmd.OutOrStdout()

	if !dumpFlags.body {
		fmt.Fprintf(out, "%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
		for _, h := range resp.Headers {
			fmt.Fprintf(out, "%s: %s\n", h.Name, h.Value)
		}
		fmt.Fprintln(out)
	}
	if _, err := out.Write(resp.Body); err != nil {
		return cli.NewCommandError("dump", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &cli.CommandError{
			Command: "dump",
			Code:    cli.ExitEncodeFailed,
			Err:     fmt.Errorf("%s", resp.Body),
		}
	}
	return nil
}
