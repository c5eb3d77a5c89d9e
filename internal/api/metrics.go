package api

import (
	"context"
	"net/http"

	"github.com/harunnryd/verblume/internal/gateway"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the API and gateway collectors on a private registry, so
// several servers can live in one process.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	exhaustedTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verblume_http_requests_total",
				Help: "HTTP requests served, by route and status code",
			},
			[]string{"route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verblume_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"route"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verblume_gateway_retries_total",
				Help: "Generation calls retried after a transient failure",
			},
			[]string{"op"},
		),
		exhaustedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verblume_gateway_exhausted_total",
				Help: "Generation calls that failed after the whole attempt budget",
			},
			[]string{"op"},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.retriesTotal, m.exhaustedTotal)
	return m
}

func (m *Metrics) OnRetry(_ context.Context, op string, _ gateway.RetryState, _ error) {
	m.retriesTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) OnExhausted(_ context.Context, op string, _ int, _ error) {
	m.exhaustedTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ gateway.Observer = (*Metrics)(nil)
