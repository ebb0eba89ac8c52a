package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nx-gov/canister-metrics/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig(enabled bool) *config.SelfMetricsConfig {
	return &config.SelfMetricsConfig{
		Enabled:   &enabled,
		Path:      "/metrics/exporter",
		Namespace: "test",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig(true)
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.Registry() != registry {
		t.Error("collector registry not set correctly")
	}
	if collector.config != cfg {
		t.Error("collector config not set correctly")
	}
}

func TestCollector_DefaultNamespace(t *testing.T) {
	cfg := &config.SelfMetricsConfig{}
	NewCollector(cfg, nil)

	if cfg.Namespace != config.DefaultSelfMetricsNamespace {
		t.Errorf("expected default namespace, got %q", cfg.Namespace)
	}
}

func TestCollector_RecordScrape(t *testing.T) {
	collector := NewCollector(testConfig(true), nil)

	collector.RecordScrape(200, 100*time.Microsecond, 612)
	collector.RecordScrape(200, 200*time.Microsecond, 640)
	collector.RecordScrape(500, 50*time.Microsecond, 40)

	sm := collector.scrapeMetrics
	if got := testutil.ToFloat64(sm.scrapesTotal.WithLabelValues("200")); got != 2 {
		t.Errorf("scrapes{code=200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(sm.scrapesTotal.WithLabelValues("500")); got != 1 {
		t.Errorf("scrapes{code=500} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sm.payloadBytes); got != 640 {
		t.Errorf("payload_bytes = %v, want 640 (failures must not overwrite)", got)
	}
	if got := testutil.CollectAndCount(sm.scrapeDuration); got != 1 {
		t.Errorf("expected 1 duration series, got %d", got)
	}
}

func TestCollector_RecordHeartbeatAndReload(t *testing.T) {
	collector := NewCollector(testConfig(true), nil)

	collector.RecordHeartbeat(true)
	collector.RecordHeartbeat(false)
	collector.RecordConfigReload(false)
	collector.RecordRateLimited()

	pm := collector.processMetrics
	if got := testutil.ToFloat64(pm.heartbeats.WithLabelValues("success")); got != 1 {
		t.Errorf("heartbeats{success} = %v", got)
	}
	if got := testutil.ToFloat64(pm.heartbeats.WithLabelValues("failure")); got != 1 {
		t.Errorf("heartbeats{failure} = %v", got)
	}
	if got := testutil.ToFloat64(pm.lastHeartbeat); got <= 0 {
		t.Errorf("last heartbeat timestamp not set: %v", got)
	}
	if got := testutil.ToFloat64(pm.reloads.WithLabelValues("failure")); got != 1 {
		t.Errorf("reloads{failure} = %v", got)
	}
	if got := testutil.ToFloat64(collector.scrapeMetrics.rateLimited); got != 1 {
		t.Errorf("rate limited = %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	collector := NewCollector(testConfig(false), nil)

	collector.RecordScrape(200, time.Millisecond, 10)
	collector.RecordHeartbeat(true)

	if got := testutil.ToFloat64(collector.scrapeMetrics.scrapesTotal.WithLabelValues("200")); got != 0 {
		t.Errorf("disabled collector recorded scrape: %v", got)
	}

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/exporter", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled handler status = %d, want 404", rec.Code)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var collector *Collector
	collector.RecordScrape(200, time.Millisecond, 1)
	collector.RecordHeartbeat(true)
	collector.RecordConfigReload(true)
	collector.RecordRateLimited()
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(true), nil)
	collector.RecordScrape(200, time.Millisecond, 100)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/exporter", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"test_scrapes_total", "test_payload_bytes", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Errorf("self-metrics missing %s", name)
		}
	}
	if strings.Contains(body, "nx_gov_") {
		t.Error("self-metrics must not include canister gauges")
	}
}
