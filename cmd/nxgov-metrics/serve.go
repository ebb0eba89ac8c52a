package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"nx-gov/canister-metrics/pkg/cli"
	"nx-gov/canister-metrics/pkg/config"
	"nx-gov/canister-metrics/pkg/counters"
	"nx-gov/canister-metrics/pkg/heartbeat"
	"nx-gov/canister-metrics/pkg/server"
	"nx-gov/canister-metrics/pkg/telemetry/health"
	"nx-gov/canister-metrics/pkg/telemetry/logging"
	"nx-gov/canister-metrics/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	stub          bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve canister metrics over HTTP",
	Long: `Start the HTTP server exposing the canister metrics.

Examples:
  # Serve with defaults on 127.0.0.1:9090
  nxgov-metrics serve

  # Serve a config file and listen on all interfaces
  nxgov-metrics serve -c metrics.yaml --listen 0.0.0.0:9090

  # Serve zero memory sizes (off-platform)
  nxgov-metrics serve --stub

Send SIGHUP to reload the configuration file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.stub, "stub", false, "use the stub counter reader")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("config", err.Error())
	}
	cfg := config.GetConfig()

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.stub {
		cfg.Counters.Mode = config.CountersModeStub
	}

	logger, err := newLogger(&cfg.Telemetry.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.SetDefault()

	p, err := newPipeline(&cfg.Counters)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.SelfMetrics, nil)

	checker := health.New(2 * time.Second)
	checker.RegisterCheck("config", func(ctx context.Context) error {
		if config.GetConfig() == nil {
			return fmt.Errorf("configuration not loaded")
		}
		return nil
	})

	if cfg.Heartbeat.Enabled {
		beat := heartbeat.New(p.builder, collector, cfg.Heartbeat.Schedule)
		if err := beat.Start(ctx); err != nil {
			return cli.NewConfigError("heartbeat.schedule", err.Error())
		}
		defer beat.Stop()
		checker.RegisterCheck("heartbeat", beat.Check)
	}

	reloader := &reloader{logger: logger, balance: p.balance, collector: collector}
	go reloader.watchSignals(ctx)

	if cfg.Watch.Enabled && cfgFile != "" {
		w := config.NewWatcher(cfgFile, cfg.Watch.Debounce, logger.Slog(), reloader.apply)
		w.OnError = func(error) { collector.RecordConfigReload(false) }
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("config watcher stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(cfg, p.builder, collector, checker, server.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	slog.Info("nxgov-metrics starting",
		"version", Version,
		"config", cfgFile,
		"counters_mode", cfg.Counters.Mode,
		"heartbeat", cfg.Heartbeat.Enabled,
		"watch", cfg.Watch.Enabled && cfgFile != "",
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// reloader applies the parts of a new configuration that can change while
// serving: log level and cycles balance. Everything else needs a restart.
type reloader struct {
	logger    *logging.Logger
	balance   *counters.StaticBalance
	collector *metrics.Collector
}

func (r *reloader) apply(cfg *config.Config) {
	if !verbose {
		if err := r.logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			r.logger.Warn("ignoring reloaded log level", "error", err)
		}
	}

	balance, err := counters.ParseBalance(cfg.Counters.CyclesBalance)
	if err != nil {
		r.logger.Warn("ignoring reloaded cycles balance", "error", err)
		r.collector.RecordConfigReload(false)
		return
	}
	r.balance.Set(balance)

	r.collector.RecordConfigReload(true)
	r.logger.Info("configuration applied",
		"log_level", cfg.Telemetry.Logging.Level,
		"cycles_balance", balance.String(),
	)
}

func (r *reloader) watchSignals(ctx context.Context) {
	hup, stop := cli.ReloadSignals()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			path := config.Path()
			if path == "" {
				r.logger.Info("SIGHUP ignored, no config file")
				continue
			}
			cfg, err := config.ReloadConfig(path)
			if err != nil {
				r.logger.Error("config reload failed, keeping current configuration", "error", err)
				r.collector.RecordConfigReload(false)
				continue
			}
			r.apply(cfg)
		}
	}
}
