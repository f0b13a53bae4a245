// Package metrics collects Prometheus metrics for dispatch and compensation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records mediator dispatches and unit-of-work outcomes.
type Collector struct {
	dispatches    *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	compensations *prometheus.CounterVec
	rollbackFail  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersvc_dispatch_total",
			Help: "Dispatched commands and queries by kind and outcome.",
		}, []string{"kind", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "usersvc_dispatch_duration_seconds",
			Help:    "Handler latency by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersvc_uow_compensations_total",
			Help: "Units of work closed as compensated, by whether a rollback ran.",
		}, []string{"rollback"}),
		rollbackFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usersvc_uow_rollback_failures_total",
			Help: "Repository rollbacks that returned an error.",
		}),
	}
	reg.MustRegister(c.dispatches, c.latency, c.compensations, c.rollbackFail)
	return c
}

func (c *Collector) RecordDispatch(kind, outcome string, d time.Duration) {
	c.dispatches.WithLabelValues(kind, outcome).Inc()
	c.latency.WithLabelValues(kind).Observe(d.Seconds())
}

func (c *Collector) RecordCompensation(rolledBack bool) {
	label := "false"
	if rolledBack {
		label = "true"
	}
	c.compensations.WithLabelValues(label).Inc()
}

func (c *Collector) RecordRollbackFailure() {
	c.rollbackFail.Inc()
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
