package buddy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes recorded in the requests counter.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeTimeout   = "timeout"
	outcomeProtocol  = "protocol_error"
	outcomeDecode    = "decode_error"
)

// Metrics counts Buddy requests per endpoint and outcome.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "buddyctl_requests_total",
			Help: "Buddy requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buddyctl_request_duration_seconds",
			Help:    "Buddy request latency from send to full response",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) observe(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, outcome).Inc()
	m.Duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
