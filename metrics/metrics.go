// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/facade-admin/cascade"
)

const namespace = "facade_admin"

var (
	requestBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}
	stepBuckets    = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5}
)

// Metrics holds every collector. It implements cascade.Observer.
type Metrics struct {
	cascadeOutcomes *prometheus.CounterVec
	cascadeSteps    *prometheus.HistogramVec
	removedRows     *prometheus.CounterVec
	requestTotal    *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
}

var _ cascade.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg. Collectors that
// are already registered are reused.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cascadeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "outcomes_total",
			Help:      "Cascading project deletes by terminal outcome",
		}, []string{"kind"}),
		cascadeSteps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "step_duration_seconds",
			Help:      "Duration of discovery and delete steps",
			Buckets:   stepBuckets,
		}, []string{"step", "result"}),
		removedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "removed_rows_total",
			Help:      "Dependent rows removed by cascading deletes",
		}, []string{"entity"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   requestBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.cascadeOutcomes = registerCounter(reg, m.cascadeOutcomes)
	m.cascadeSteps = registerHistogram(reg, m.cascadeSteps)
	m.removedRows = registerCounter(reg, m.removedRows)
	m.requestTotal = registerCounter(reg, m.requestTotal)
	m.requestLatency = registerHistogram(reg, m.requestLatency)
	return m
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
	}
	return h
}

// StepFinished records the duration of one cascade step.
func (m *Metrics) StepFinished(step string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cascadeSteps.WithLabelValues(step, result).Observe(elapsed.Seconds())
}

// OutcomeRecorded counts a terminal outcome and the rows it removed.
func (m *Metrics) OutcomeRecorded(kind string, removed cascade.Counts) {
	m.cascadeOutcomes.WithLabelValues(kind).Inc()
	if removed.Panels > 0 {
		m.removedRows.WithLabelValues(cascade.StagePanels).Add(float64(removed.Panels))
	}
	if removed.Facades > 0 {
		m.removedRows.WithLabelValues(cascade.StageFacades).Add(float64(removed.Facades))
	}
	if removed.Buildings > 0 {
		m.removedRows.WithLabelValues(cascade.StageBuildings).Add(float64(removed.Buildings))
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(elapsed.Seconds())
}
