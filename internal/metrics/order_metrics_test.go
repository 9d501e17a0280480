package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewOrderMetrics_Collectors(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if metrics.ordersCancelled == nil {
		t.Error("ordersCancelled counter should not be nil")
	}
	if metrics.statusUpdates == nil {
		t.Error("statusUpdates counter should not be nil")
	}
	if metrics.stockConflicts == nil {
		t.Error("stockConflicts counter should not be nil")
	}
	if metrics.failedRequests == nil {
		t.Error("failedRequests counter vec should not be nil")
	}
	if metrics.createDuration == nil {
		t.Error("createDuration histogram should not be nil")
	}
	if metrics.cancelDuration == nil {
		t.Error("cancelDuration histogram should not be nil")
	}
}

func TestOrderMetrics_Counters(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderCreated(10 * time.Millisecond)
	metrics.RecordOrderCreated(20 * time.Millisecond)
	metrics.RecordStockConflict()
	metrics.RecordFailure("validation")

	created := &dto.Metric{}
	if err := metrics.ordersCreated.Write(created); err != nil {
		t.Fatalf("write ordersCreated: %v", err)
	}
	if got := created.GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 created orders, got %v", got)
	}

	conflicts := &dto.Metric{}
	if err := metrics.stockConflicts.Write(conflicts); err != nil {
		t.Fatalf("write stockConflicts: %v", err)
	}
	if got := conflicts.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 stock conflict, got %v", got)
	}

	failed := &dto.Metric{}
	if err := metrics.failedRequests.WithLabelValues("validation").Write(failed); err != nil {
		t.Fatalf("write failedRequests: %v", err)
	}
	if got := failed.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 failed request, got %v", got)
	}
}

func TestOrderMetrics_ReRegistrationReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordStatusUpdate()
	second.RecordStatusUpdate()

	metric := &dto.Metric{}
	if err := first.statusUpdates.Write(metric); err != nil {
		t.Fatalf("write statusUpdates: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Fatalf("re-registration should reuse the same counter, got %v", got)
	}
}
