package config

import (
	"fmt"
	"math/big"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateCounters(&cfg.Counters)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry, &cfg.Server)...)
	errs = append(errs, validateHeartbeat(&cfg.Heartbeat)...)

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	if !strings.HasPrefix(cfg.MetricsPath, "/") {
		errs = append(errs, FieldError{
			Field:   "server.metrics_path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.RateLimitPerSecond < 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit_per_second",
			Message: "rate limit must be non-negative",
		})
	}

	return errs
}

func validateCounters(cfg *CountersConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case CountersModeHost, CountersModeStub:
	default:
		errs = append(errs, FieldError{
			Field:   "counters.mode",
			Message: fmt.Sprintf("invalid counters mode %q: must be 'host' or 'stub'", cfg.Mode),
		})
	}

	if cfg.PageSize == 0 {
		errs = append(errs, FieldError{
			Field:   "counters.page_size",
			Message: "page size must be positive",
		})
	}

	if cfg.CyclesBalance != "" {
		b, ok := new(big.Int).SetString(cfg.CyclesBalance, 10)
		if !ok {
			errs = append(errs, FieldError{
				Field:   "counters.cycles_balance",
				Message: fmt.Sprintf("invalid cycles balance %q: must be a decimal integer", cfg.CyclesBalance),
			})
		} else if b.Sign() < 0 {
			errs = append(errs, FieldError{
				Field:   "counters.cycles_balance",
				Message: "cycles balance must be non-negative",
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig, server *ServerConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.SelfMetrics.IsEnabled() {
		if !strings.HasPrefix(cfg.SelfMetrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.self_metrics.path",
				Message: "self-metrics path must start with /",
			})
		} else if cfg.SelfMetrics.Path == server.MetricsPath {
			errs = append(errs, FieldError{
				Field:   "telemetry.self_metrics.path",
				Message: "self-metrics path must differ from server.metrics_path",
			})
		}
	}

	return errs
}

func validateHeartbeat(cfg *HeartbeatConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return []FieldError{{
			Field:   "heartbeat.schedule",
			Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
		}}
	}

	return nil
}
