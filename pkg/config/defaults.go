package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress      = "127.0.0.1:9090"
	DefaultReadTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 10 * time.Second
	DefaultIdleTimeout        = 60 * time.Second
	DefaultShutdownTimeout    = 15 * time.Second
	DefaultMetricsPath        = "/metrics"
	DefaultRateLimitPerSecond = 10

	// Counter defaults
	DefaultCountersMode  = CountersModeHost
	DefaultPageSize      = uint64(65536)
	DefaultCyclesBalance = "0"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultSelfMetricsPath      = "/metrics/exporter"
	DefaultSelfMetricsNamespace = "nxgov_exporter"

	// Heartbeat defaults
	DefaultHeartbeatSchedule = "@every 1m"

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond
)

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field of cfg with its default.
// Fields that are already set are left untouched.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = DefaultMetricsPath
	}
	if cfg.Server.RateLimitPerSecond == 0 {
		cfg.Server.RateLimitPerSecond = DefaultRateLimitPerSecond
	}

	// Counter defaults
	if cfg.Counters.Mode == "" {
		cfg.Counters.Mode = DefaultCountersMode
	}
	if cfg.Counters.PageSize == 0 {
		cfg.Counters.PageSize = DefaultPageSize
	}
	if cfg.Counters.CyclesBalance == "" {
		cfg.Counters.CyclesBalance = DefaultCyclesBalance
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.SelfMetrics.Path == "" {
		cfg.Telemetry.SelfMetrics.Path = DefaultSelfMetricsPath
	}
	if cfg.Telemetry.SelfMetrics.Namespace == "" {
		cfg.Telemetry.SelfMetrics.Namespace = DefaultSelfMetricsNamespace
	}

	// Heartbeat defaults
	if cfg.Heartbeat.Schedule == "" {
		cfg.Heartbeat.Schedule = DefaultHeartbeatSchedule
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
