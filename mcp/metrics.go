package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for the task service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	executions  *prometheus.HistogramVec
}

// MustNewMetrics registers the service collectors on reg, reusing collectors
// that are already registered.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewer",
			Subsystem: "service",
			Name:      "requests_total",
			Help:      "Task service requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewer",
			Subsystem: "service",
			Name:      "task_transitions_total",
			Help:      "Task status transitions by target status.",
		}, []string{"status"}),
		executions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reviewer",
			Subsystem: "service",
			Name:      "execution_duration_seconds",
			Help:      "Wall time of execute_review by final status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}

	m.requests = register(reg, m.requests)
	m.transitions = register(reg, m.transitions)
	m.executions = register(reg, m.executions)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *Metrics) observeRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) observeTransition(status TaskStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) observeExecution(status TaskStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(string(status)).Observe(d.Seconds())
}
