package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScrapeMetrics tracks canister metrics responses.
//
// Metrics:
//   - <ns>_scrapes_total: responses by status code
//   - <ns>_scrape_duration_seconds: time to build a response
//   - <ns>_payload_bytes: size of the last successful payload
//   - <ns>_scrapes_rate_limited_total: scrapes rejected by the rate limiter
type ScrapeMetrics struct {
	scrapesTotal   *prometheus.CounterVec
	scrapeDuration prometheus.Histogram
	payloadBytes   prometheus.Gauge
	rateLimited    prometheus.Counter
}

// NewScrapeMetrics creates and registers scrape metrics.
func NewScrapeMetrics(namespace string, registry *prometheus.Registry) *ScrapeMetrics {
	sm := &ScrapeMetrics{
		scrapesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scrapes_total",
				Help:      "Total number of canister metrics responses by status code",
			},
			[]string{"code"},
		),

		scrapeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scrape_duration_seconds",
				Help:      "Time spent reading counters and encoding the payload",
				// 50µs to ~100ms
				Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
			},
		),

		payloadBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "payload_bytes",
				Help:      "Size of the last successful canister metrics payload in bytes",
			},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scrapes_rate_limited_total",
				Help:      "Total number of scrapes rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(
		sm.scrapesTotal,
		sm.scrapeDuration,
		sm.payloadBytes,
		sm.rateLimited,
	)

	return sm
}

// Record records a single response.
func (sm *ScrapeMetrics) Record(statusCode int, duration time.Duration, payloadBytes int) {
	sm.scrapesTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	sm.scrapeDuration.Observe(duration.Seconds())

	if statusCode == 200 {
		sm.payloadBytes.Set(float64(payloadBytes))
	}
}
