package metrics

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCatalogMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)
	m.IncProductCreated()
	m.IncProductCreated()
	m.IncValidationFailure("product")
	m.IncIdentifierRetry("product_code")
	m.IncOrderCreated()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := plainCounter(t, mfs, "catalog_products_created_total"); got != 2 {
		t.Fatalf("expected 2 products created, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "catalog_validation_failures_total", "entity", "product"); err != nil || got != 1 {
		t.Fatalf("expected validation failure=1, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "catalog_identifier_retries_total", "sequence", "product_code"); err != nil || got != 1 {
		t.Fatalf("expected retry=1, got %f err=%v", got, err)
	}
	if got := plainCounter(t, mfs, "orders_created_total"); got != 1 {
		t.Fatalf("expected 1 order created, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var c *CatalogMetrics
	c.IncProductCreated()
	c.IncValidationFailure("")
	NewCatalogMetrics(nil).IncOrderCreated()

	var h *HTTPMetrics
	h.Observe("GET", "/x", 200, time.Millisecond)
	NewHTTPMetrics(nil).Observe("GET", "/x", 200, time.Millisecond)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/products/{id}", 200, 20*time.Millisecond)
	m.Observe("GET", "/api/products/{id}", 404, 5*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "404"); err != nil || got != 1 {
		t.Fatalf("expected one 404, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "unmatched"); err != nil || got != 1 {
		t.Fatalf("expected unmatched route label, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "http_status_category_total", "category", "5xx"); err != nil || got != 1 {
		t.Fatalf("expected one 5xx, got %f err=%v", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "status", "200"); err != nil || got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f err=%v", got, err)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCatalogMetrics(reg).IncProductCreated()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "catalog_products_created_total 1") {
		t.Fatalf("expected counter in exposition, got %s", body)
	}
}

func plainCounter(t *testing.T, mfs []*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		t.Fatalf("metric %q not found", name)
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	total := 0.0
	found := false
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			total += metric.GetCounter().GetValue()
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return total, nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, lp := range labels {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
