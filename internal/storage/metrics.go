package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const kindOK = "OK"

// Metrics counts upstream calls by HTTP method and outcome kind.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the upstream collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vsmcp",
				Name:      "upstream_requests_total",
				Help:      "Upstream API requests by method and result kind.",
			},
			[]string{"method", "kind"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vsmcp",
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream API round trip latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) observe(method string, start time.Time, err error) {
	if m == nil {
		return
	}
	kind := kindOK
	if err != nil {
		kind = string(KindOf(err))
	}
	m.requests.WithLabelValues(method, kind).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
