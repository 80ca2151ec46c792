package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics counts dispatches per request type and outcome. Each instance has
// its own registry so tests do not collide on the default one.
type Metrics struct {
	registry   *prometheus.Registry
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skill",
			Name:      "dispatch_total",
			Help:      "Dispatched requests by request type and outcome.",
		}, []string{"type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skill",
			Name:      "dispatch_duration_seconds",
			Help:      "Time from receiving a request to having its response.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}

	m.registry.MustRegister(m.dispatches, m.duration)
	return m
}

// Observe records one dispatch of requestType that started at start.
func (m *Metrics) Observe(requestType string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	m.dispatches.WithLabelValues(requestType, outcome).Inc()
	m.duration.WithLabelValues(requestType).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
