package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProcessMetrics tracks background activity of the exporter process.
type ProcessMetrics struct {
	heartbeats    *prometheus.CounterVec
	lastHeartbeat prometheus.Gauge
	reloads       *prometheus.CounterVec
}

// NewProcessMetrics creates and registers process metrics.
func NewProcessMetrics(namespace string, registry *prometheus.Registry) *ProcessMetrics {
	pm := &ProcessMetrics{
		heartbeats: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "heartbeats_total",
				Help:      "Total number of heartbeat self-checks by result",
			},
			[]string{"result"},
		),
		lastHeartbeat: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_heartbeat_success_timestamp_seconds",
				Help:      "Unix time of the last successful heartbeat",
			},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of configuration reload attempts by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(pm.heartbeats, pm.lastHeartbeat, pm.reloads)
	return pm
}

// RecordHeartbeat records a heartbeat result.
func (pm *ProcessMetrics) RecordHeartbeat(ok bool) {
	pm.heartbeats.WithLabelValues(result(ok)).Inc()
	if ok {
		pm.lastHeartbeat.SetToCurrentTime()
	}
}

// RecordReload records a reload result.
func (pm *ProcessMetrics) RecordReload(ok bool) {
	pm.reloads.WithLabelValues(result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
