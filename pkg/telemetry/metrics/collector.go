package metrics

import (
	"net/http"
	"time"

	"nx-gov/canister-metrics/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the exporter's self-metrics. They live in a private registry
// and never appear in the canister payload.
//
// All Record methods are no-ops when self-metrics are disabled, so callers
// need no nil checks beyond the *Collector itself.
type Collector struct {
	config   *config.SelfMetricsConfig
	registry *prometheus.Registry

	scrapeMetrics  *ScrapeMetrics
	processMetrics *ProcessMetrics
}

// NewCollector creates a collector. If registry is nil a fresh registry is
// created; the process and Go runtime collectors are registered on it.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.SelfMetrics, nil)
//	router.Handle(cfg.Telemetry.SelfMetrics.Path, collector.Handler())
func NewCollector(cfg *config.SelfMetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultSelfMetricsNamespace
	}

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
		collectors.NewGoCollector(),
	)

	return &Collector{
		config:         cfg,
		registry:       registry,
		scrapeMetrics:  NewScrapeMetrics(cfg.Namespace, registry),
		processMetrics: NewProcessMetrics(cfg.Namespace, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.IsEnabled()
}

// RecordScrape records one metrics response.
//
// Parameters:
//   - statusCode: HTTP status of the response (200 or 500)
//   - duration: time spent building the response
//   - payloadBytes: body length
func (c *Collector) RecordScrape(statusCode int, duration time.Duration, payloadBytes int) {
	if !c.enabled() {
		return
	}
	c.scrapeMetrics.Record(statusCode, duration, payloadBytes)
}

// RecordRateLimited records a scrape rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	if !c.enabled() {
		return
	}
	c.scrapeMetrics.rateLimited.Inc()
}

// RecordHeartbeat records a heartbeat run and whether it succeeded.
func (c *Collector) RecordHeartbeat(ok bool) {
	if !c.enabled() {
		return
	}
	c.processMetrics.RecordHeartbeat(ok)
}

// RecordConfigReload records a configuration reload attempt.
func (c *Collector) RecordConfigReload(ok bool) {
	if !c.enabled() {
		return
	}
	c.processMetrics.RecordReload(ok)
}

// Registry returns the registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the self-metrics. When self-metrics are disabled it
// responds 404.
func (c *Collector) Handler() http.Handler {
	if !c.enabled() {
		return http.NotFoundHandler()
	}
	return c.handler()
}
