package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBackendMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackendMetrics(reg)

	m.Observe("cart.get", 200, 20*time.Millisecond)
	m.Observe("cart.get", 200, 30*time.Millisecond)
	m.Observe("orders.create", 0, time.Second)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "bookbean_backend_requests_total", map[string]string{"operation": "cart.get", "status": "200"}); err != nil {
		t.Fatalf("fetch cart.get: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 cart.get calls, got %v", got)
	}
	if got, err := counterValue(mfs, "bookbean_backend_requests_total", map[string]string{"operation": "orders.create", "status": "transport_error"}); err != nil {
		t.Fatalf("fetch orders.create: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transport error counted, got %v", got)
	}
}

func TestCheckoutMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.OrderSubmitted("created")
	m.CouponPreviewed("rejected")
	m.CouponPreviewed("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := counterValue(mfs, "bookbean_checkout_orders_total", map[string]string{"outcome": "created"}); err != nil || got != 1 {
		t.Fatalf("expected one created order, got %v (%v)", got, err)
	}
	if got, err := counterValue(mfs, "bookbean_coupon_previews_total", map[string]string{"outcome": "unknown"}); err != nil || got != 1 {
		t.Fatalf("expected empty outcome normalized, got %v (%v)", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewBackendMetrics(nil).Observe("x", 200, time.Millisecond)
	NewCheckoutMetrics(nil).OrderSubmitted("created")
	var m *BackendMetrics
	m.Observe("x", 500, time.Millisecond)
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %s %v not found", name, labels)
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok {
			if v != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
