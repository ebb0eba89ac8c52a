package main

import (
	"fmt"
	"io"
	"os"

	"nx-gov/canister-metrics/pkg/cli"
	"nx-gov/canister-metrics/pkg/config"
	"nx-gov/canister-metrics/pkg/counters"
	"nx-gov/canister-metrics/pkg/response"
	"nx-gov/canister-metrics/pkg/telemetry/logging"
)

// pipeline is the read → encode → respond chain plus the balance it reads.
type pipeline struct {
	balance *counters.StaticBalance
	reader  counters.Reader
	builder *response.Builder
}

func newPipeline(cfg *config.CountersConfig) (*pipeline, error) {
	initial, err := counters.ParseBalance(cfg.CyclesBalance)
	if err != nil {
		return nil, cli.NewConfigError("counters.cycles_balance", err.Error())
	}

	balance := counters.NewStaticBalance(initial)
	reader, err := counters.New(cfg, balance)
	if err != nil {
		return nil, cli.NewConfigError("counters.mode", err.Error())
	}

	return &pipeline{
		balance: balance,
		reader:  reader,
		builder: response.NewBuilder(reader),
	}, nil
}

// loadConfig reads the configuration named by --config, or defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug.
func newLogger(cfg *config.LoggingConfig, w io.Writer) (*logging.Logger, error) {
	level := cfg.Level
	if verbose {
		level = "debug"
	}
	if w == nil {
		w = os.Stderr
	}

	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
		Writer:    w,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", fmt.Sprint(err))
	}
	return logger, nil
}
