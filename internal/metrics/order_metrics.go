package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики ядра обработки заказов.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	ordersCancelled prometheus.Counter
	statusUpdates   prometheus.Counter
	stockConflicts  prometheus.Counter
	failedRequests  *prometheus.CounterVec

	// Гистограммы времени выполнения
	createDuration prometheus.Histogram
	cancelDuration prometheus.Histogram
}

// NewOrderMetrics создаёт метрики ядра заказов в default registry.
// Повторная регистрация переиспользует существующие коллекторы.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_cancelled_total",
			Help: "Total number of orders cancelled with stock restitution",
		}),
		statusUpdates: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_order_status_updates_total",
			Help: "Total number of explicit order status updates",
		}),
		stockConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_stock_conflicts_total",
			Help: "Total number of order creations rejected by the conditional stock decrement",
		}),
		failedRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fulfillment_order_requests_failed_total",
			Help: "Total number of failed order operations grouped by error kind",
		}, []string{"kind"}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_order_create_duration_seconds",
			Help:    "Duration of order creation including the store transaction",
			Buckets: prometheus.DefBuckets,
		}),
		cancelDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_order_cancel_duration_seconds",
			Help:    "Duration of order cancellation including stock restitution",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordOrderCreated учитывает успешное создание заказа.
func (m *OrderMetrics) RecordOrderCreated(duration time.Duration) {
	m.ordersCreated.Inc()
	m.createDuration.Observe(duration.Seconds())
}

// RecordOrderCancelled учитывает успешную отмену заказа.
func (m *OrderMetrics) RecordOrderCancelled(duration time.Duration) {
	m.ordersCancelled.Inc()
	m.cancelDuration.Observe(duration.Seconds())
}

// RecordStatusUpdate учитывает явное обновление статуса.
func (m *OrderMetrics) RecordStatusUpdate() {
	m.statusUpdates.Inc()
}

// RecordStockConflict учитывает отказ условного декремента.
func (m *OrderMetrics) RecordStockConflict() {
	m.stockConflicts.Inc()
}

// RecordFailure учитывает неуспешную операцию по виду ошибки.
func (m *OrderMetrics) RecordFailure(kind string) {
	m.failedRequests.WithLabelValues(kind).Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
