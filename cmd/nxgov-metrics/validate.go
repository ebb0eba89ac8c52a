package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nx-gov/canister-metrics/pkg/cli"
	"nx-gov/canister-metrics/pkg/config"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the configuration (file, defaults and NXGOV_* environment overrides)
and report every validation error.

Examples:
  nxgov-metrics validate -c metrics.yaml
  nxgov-metrics validate -c metrics.yaml --output json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text or json")
}

// validationReport is the result of the validate command.
type validationReport struct {
	Config string        `json:"config"`
	Valid  bool          `json:"valid"`
	Errors []fieldReport `json:"errors,omitempty"`
}

type fieldReport struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (r validationReport) String() string {
	name := r.Config
	if name == "" {
		name = "<defaults>"
	}
	if r.Valid {
		return fmt.Sprintf("✓ Configuration valid: %s", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✗ Configuration invalid: %s", name)
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "\n  - %s: %s", e.Field, e.Message)
	}
	return sb.String()
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return err
	}

	report := validationReport{Config: cfgFile, Valid: true}

	_, loadErr := config.LoadConfigWithEnvOverrides(cfgFile)
	if loadErr != nil {
		report.Valid = false

		var verr config.ValidationError
		if errors.As(loadErr, &verr) {
			for _, fe := range verr.Errors {
				report.Errors = append(report.Errors, fieldReport{Field: fe.Field, Message: fe.Message})
			}
		} else {
			report.Errors = []fieldReport{{Field: "config", Message: loadErr.Error()}}
		}
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if !report.Valid {
		return cli.NewConfigError("config", fmt.Sprintf("%d validation error(s)", len(report.Errors)))
	}
	return nil
}
