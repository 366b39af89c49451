package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the application metrics.
type Collector struct {
	// Inbound API metrics.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Outbound Open-Meteo metrics.
	UpstreamRequestDuration *prometheus.HistogramVec
	UpstreamErrorsTotal     *prometheus.CounterVec
}

// NewCollector registers and returns the metric set. Tests pass their own
// Registerer to avoid collisions on the default registry.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of weather operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Weather operation duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"operation"},
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Open-Meteo request duration in seconds by endpoint",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),
		UpstreamErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_errors_total",
				Help:      "Total number of failed Open-Meteo requests by endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

// ObserveRequest records one completed service operation.
func (c *Collector) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(operation, outcome).Inc()
	c.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveUpstream records one outbound Open-Meteo call.
func (c *Collector) ObserveUpstream(endpoint string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	if err != nil {
		c.UpstreamErrorsTotal.WithLabelValues(endpoint).Inc()
	}
}
