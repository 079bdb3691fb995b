// Package metrics exposes Prometheus instrumentation for the alerting
// engine and the notification scheduler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and the engine's counters.
type Metrics struct {
	registry *prometheus.Registry

	RulesEvaluated   prometheus.Counter
	AlertsFired      *prometheus.CounterVec
	DispatchFailures *prometheus.CounterVec
	ScheduleFires    prometheus.Counter
	EvaluationErrors prometheus.Counter
}

// New creates the metrics set on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		RulesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fundwatch_rules_evaluated_total",
			Help: "Number of rule evaluations performed by the monitor.",
		}),
		AlertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundwatch_alerts_fired_total",
			Help: "Number of alerts fired, by rule priority.",
		}, []string{"priority"}),
		DispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundwatch_dispatch_failures_total",
			Help: "Number of alert action deliveries that failed, by channel.",
		}, []string{"channel"}),
		ScheduleFires: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fundwatch_schedule_fires_total",
			Help: "Number of scheduled notifications sent.",
		}),
		EvaluationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fundwatch_evaluation_errors_total",
			Help: "Number of rule evaluations aborted by a storage error.",
		}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RulesEvaluated,
		m.AlertsFired,
		m.DispatchFailures,
		m.ScheduleFires,
		m.EvaluationErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
