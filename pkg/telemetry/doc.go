// Package telemetry groups the exporter's observability of itself.
//
//   - logging: slog-based structured logging with a runtime-adjustable level
//   - metrics: Prometheus self-metrics in a private registry
//   - health: liveness, readiness and version endpoints
//
// None of these touch the canister payload served on the metrics path.
package telemetry
