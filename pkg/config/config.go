package config

import "time"

// Config is the root configuration structure for the canister metrics exporter.
// It contains the serving shell, counter source, telemetry, heartbeat and
// config-watch sections.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, the metrics path, and scrape rate limiting.
	Server ServerConfig `yaml:"server"`

	// Counters selects and configures the source of the raw counter values.
	Counters CountersConfig `yaml:"counters"`

	// Telemetry contains logging and exporter self-metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Heartbeat configures the scheduled self-check of the metrics pipeline.
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`

	// Watch controls hot reloading of the configuration file.
	Watch WatchConfig `yaml:"watch"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:9090", "0.0.0.0:9090").
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight scrapes
	// during graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MetricsPath is the route serving the canister metrics.
	// Default: "/metrics"
	MetricsPath string `yaml:"metrics_path"`

	// RateLimitPerSecond caps scrapes per client IP on the metrics route.
	// 0 disables the limit.
	// Default: 10
	RateLimitPerSecond int `yaml:"rate_limit_per_second"`
}

// Counter source modes.
const (
	// CountersModeHost reads memory sizes from the hosting process.
	CountersModeHost = "host"

	// CountersModeStub reports zero memory sizes; used off-platform and in tests.
	CountersModeStub = "stub"
)

// CountersConfig contains configuration for the counter reader.
type CountersConfig struct {
	// Mode selects the reader strategy: "host" or "stub".
	// Default: "host"
	Mode string `yaml:"mode"`

	// StableMemoryPath is the file backing the durable stable-memory region.
	// An empty path or a missing file reports zero stable memory.
	StableMemoryPath string `yaml:"stable_memory_path"`

	// PageSize is the granularity memory sizes are reported in.
	// Default: 65536 (one Wasm page)
	PageSize uint64 `yaml:"page_size"`

	// CyclesBalance is the initial cycles balance as a decimal string.
	// Values beyond 64 bits are accepted.
	// Default: "0"
	CyclesBalance string `yaml:"cycles_balance"`
}

// TelemetryConfig contains configuration for observability of the exporter itself.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// SelfMetrics contains configuration for the exporter's own Prometheus metrics.
	SelfMetrics SelfMetricsConfig `yaml:"self_metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// SelfMetricsConfig contains configuration for exporter self-metrics.
type SelfMetricsConfig struct {
	// Enabled controls whether self-metrics are collected and served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the route serving self-metrics.
	// Default: "/metrics/exporter"
	Path string `yaml:"path"`

	// Namespace prefixes all self-metric names.
	// Default: "nxgov_exporter"
	Namespace string `yaml:"namespace"`
}

// IsEnabled reports whether self-metrics are enabled. A nil value means the
// default (enabled).
func (c SelfMetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// HeartbeatConfig contains configuration for the scheduled pipeline self-check.
type HeartbeatConfig struct {
	// Enabled controls whether the heartbeat runs.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression (standard five fields or a descriptor
	// such as "@every 1m").
	// Default: "@every 1m"
	Schedule string `yaml:"schedule"`
}

// WatchConfig contains configuration for config file hot reload.
type WatchConfig struct {
	// Enabled turns on watching the config file for changes.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Debounce is the quiet period after the last change before reloading.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}
