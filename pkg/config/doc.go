// Package config provides configuration management for the canister metrics
// exporter.
//
// Configuration is read from a YAML file, completed with defaults, overridden
// by environment variables and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention NXGOV_SECTION_FIELD:
//
//   - NXGOV_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - NXGOV_COUNTERS_MODE overrides counters.mode
//   - NXGOV_COUNTERS_CYCLES_BALANCE overrides counters.cycles_balance
//   - NXGOV_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Singleton
//
// The serving process initializes a process-wide configuration once and
// reads it through GetConfig. Watcher reloads it when the file changes and
// swaps it in only if the new file validates.
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:9090"
//	  metrics_path: "/metrics"
//
//	counters:
//	  mode: "host"
//	  stable_memory_path: "/var/lib/canister/stable.bin"
//	  cycles_balance: "3000000000000"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
//	heartbeat:
//	  enabled: true
//	  schedule: "@every 1m"
package config
