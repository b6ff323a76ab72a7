package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Action outcomes recorded by richdraft_actions_total.
const (
	OutcomeApplied   = "applied"
	OutcomeUnhandled = "unhandled"
	OutcomeRejected  = "rejected"
)

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "richdraft_actions_total",
			Help: "Reducer actions processed, by action and outcome.",
		}, []string{"action", "outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "richdraft_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(m.actions, m.requests)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeAction(action, outcome string) {
	m.actions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

