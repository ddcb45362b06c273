package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes as recorded on bridge_requests_total.
const (
	OutcomeOK                  = "ok"
	OutcomeInvalid             = "invalid_request"
	OutcomeUpstreamError       = "upstream_error"
	OutcomeUpstreamTimeout     = "upstream_timeout"
	OutcomeUpstreamUnavailable = "upstream_unavailable"
)

// Collector tracks bridge request outcomes and upstream latency.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

func NewCollector(registry prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_requests_total",
				Help: "Completion requests handled, by outcome.",
			},
			[]string{"outcome"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bridge_request_duration_seconds",
				Help:    "End-to-end completion request duration.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	registry.MustRegister(c.requestsTotal, c.requestDuration)
	return c
}

func (c *Collector) RecordRequest(outcome string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(outcome).Inc()
	c.requestDuration.Observe(duration.Seconds())
}
