package sdk

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments API dispatches. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketing",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by resource group, method and response status.",
		}, []string{"group", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ticketing",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request latency by resource group.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"group"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(group, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(group, method, status).Inc()
	m.duration.WithLabelValues(group).Observe(elapsed.Seconds())
}
