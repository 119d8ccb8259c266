package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FulfillmentMetrics содержит метрики workflow оформления заказов.
type FulfillmentMetrics struct {
	// Счётчики исходов
	ordersCreated prometheus.Counter
	ordersFailed  *prometheus.CounterVec

	// Счётчики опций
	optionsAttached prometheus.Counter
	optionsSkipped  *prometheus.CounterVec

	// Гистограммы
	fulfillmentDuration prometheus.Histogram
	orderTotalMinor     prometheus.Histogram

	// Gauge для активных оформлений
	activeFulfillments prometheus.Gauge
}

// NewFulfillmentMetrics создаёт метрики на DefaultRegisterer.
func NewFulfillmentMetrics() *FulfillmentMetrics {
	return newFulfillmentMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newFulfillmentMetricsWithRegisterer(registerer prometheus.Registerer) *FulfillmentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &FulfillmentMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "showroom_orders_created_total",
			Help: "Total number of orders successfully created",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "showroom_orders_failed_total",
			Help: "Total number of order creations failed, by failure kind",
		}, []string{"reason"}),
		optionsAttached: registerCounter(registerer, prometheus.CounterOpts{
			Name: "showroom_order_options_attached_total",
			Help: "Total number of options attached to ordered cars",
		}),
		optionsSkipped: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "showroom_order_options_skipped_total",
			Help: "Total number of requested options skipped, by skip reason",
		}, []string{"reason"}),
		fulfillmentDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "showroom_order_fulfillment_duration_seconds",
			Help:    "Duration of order fulfillment workflow invocations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		orderTotalMinor: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "showroom_order_total_price_minor",
			Help:    "Distribution of order totals in minor currency units",
			Buckets: prometheus.ExponentialBuckets(100_000, 4, 8),
		}),
		activeFulfillments: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "showroom_active_fulfillments",
			Help: "Number of fulfillment workflow invocations currently in flight",
		}),
	}
}

// RecordOrderCreated фиксирует успешное оформление заказа.
func (m *FulfillmentMetrics) RecordOrderCreated(totalMinor int64) {
	m.ordersCreated.Inc()
	m.orderTotalMinor.Observe(float64(totalMinor))
}

// RecordOrderFailed фиксирует неудачное оформление с указанием причины.
func (m *FulfillmentMetrics) RecordOrderFailed(reason string) {
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// RecordOptionAttached увеличивает счётчик установленных опций.
func (m *FulfillmentMetrics) RecordOptionAttached() {
	m.optionsAttached.Inc()
}

// RecordOptionSkipped увеличивает счётчик пропущенных опций с указанием причины.
func (m *FulfillmentMetrics) RecordOptionSkipped(reason string) {
	m.optionsSkipped.WithLabelValues(reason).Inc()
}

// RecordFulfillmentDuration записывает время оформления заказа.
func (m *FulfillmentMetrics) RecordFulfillmentDuration(duration time.Duration) {
	m.fulfillmentDuration.Observe(duration.Seconds())
}

// RecordFulfillmentStarted увеличивает количество активных оформлений.
func (m *FulfillmentMetrics) RecordFulfillmentStarted() {
	m.activeFulfillments.Inc()
}

// RecordFulfillmentFinished уменьшает количество активных оформлений.
func (m *FulfillmentMetrics) RecordFulfillmentFinished() {
	m.activeFulfillments.Dec()
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

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
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
