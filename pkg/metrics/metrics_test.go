package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncInFlight()
	m.ObserveRequest("post", "/api/v1/checkout/submit", 201, 120*time.Millisecond)
	m.DecInFlight()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/checkout/submit")
	if err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
	if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCheckoutMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncSubmission("confirmed")
	m.IncSubmission("confirmed")
	m.IncCouponApply("rejected")
	m.IncQuoteFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_submissions_total", "outcome", "confirmed"); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected submissions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_coupon_applies_total", "result", "rejected"); err != nil {
		t.Fatalf("fetch coupon applies: %v", err)
	} else if got != 1 {
		t.Fatalf("expected coupon applies=1, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewCheckoutMetrics(nil)
	m.IncSubmission("confirmed")
	m.IncQuoteFailure()

	h := NewHTTPMetrics(nil)
	h.ObserveRequest("get", "/", 200, time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
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
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
