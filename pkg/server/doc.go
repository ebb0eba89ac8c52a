// Package server provides the HTTP server that exposes the canister metrics.
//
// # Routes
//
//   - GET <metrics_path> (default /metrics): canister metrics, rate limited per client IP
//   - GET <self_metrics.path> (default /metrics/exporter): exporter self-metrics
//   - GET /health: liveness probe
//   - GET /ready: readiness probe (heartbeat result when enabled)
//   - GET /version: build information
//
// HEAD is accepted wherever GET is. Other methods get 405 from the router.
//
// # Middleware Chain
//
// Requests pass through, outermost first:
//  1. Recovery: turns panics into a plain 500
//  2. RequestID: reuses or generates X-Request-ID
//  3. Logging: one structured line per request
//
// # Graceful Shutdown
//
// Start blocks until its context is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests for up to server.shutdown_timeout:
//
//	srv := server.NewServer(cfg, builder, collector, checker, buildInfo)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
package server
