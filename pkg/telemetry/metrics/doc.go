// Package metrics provides the exporter's own Prometheus metrics.
//
// These describe the exporter process, not the canister: how many scrapes it
// served and with what status, how long encoding took, heartbeat and reload
// outcomes, plus the standard process and Go runtime collectors. They are
// served from a separate route (default /metrics/exporter) out of a private
// registry, so the canister payload keeps its fixed three-gauge shape.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.SelfMetrics, nil)
//	collector.RecordScrape(200, 120*time.Microsecond, 612)
//	collector.RecordHeartbeat(true)
//
// # Metrics
//
//	nxgov_exporter_scrapes_total{code="200"}
//	nxgov_exporter_scrape_duration_seconds
//	nxgov_exporter_payload_bytes
//	nxgov_exporter_scrapes_rate_limited_total
//	nxgov_exporter_heartbeats_total{result="success"}
//	nxgov_exporter_last_heartbeat_success_timestamp_seconds
//	nxgov_exporter_config_reloads_total{result="failure"}
package metrics
