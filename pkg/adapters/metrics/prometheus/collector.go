package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records webhook and pipelines API metrics
type Collector struct {
	triggers           *prometheus.CounterVec
	downstreamRequests *prometheus.CounterVec
	downstreamDuration prometheus.Histogram
	tokenReads         *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		triggers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kfp_webhook_triggers_total",
				Help: "Total number of trigger requests by outcome",
			},
			[]string{"outcome"},
		),
		downstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kfp_webhook_downstream_requests_total",
				Help: "Total number of run creation calls by response code",
			},
			[]string{"code"},
		),
		downstreamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kfp_webhook_downstream_duration_seconds",
				Help:    "Run creation call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		tokenReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kfp_webhook_token_reads_total",
				Help: "Total number of outbound token file reads by result",
			},
			[]string{"result"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kfp_webhook_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kfp_webhook_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// RecordTrigger counts a finished trigger
func (c *Collector) RecordTrigger(outcome string) {
	c.triggers.WithLabelValues(outcome).Inc()
}

// ObserveDownstream records one run creation call. code is the HTTP status
// or "error" for transport failures.
func (c *Collector) ObserveDownstream(code string, duration time.Duration) {
	c.downstreamRequests.WithLabelValues(code).Inc()
	c.downstreamDuration.Observe(duration.Seconds())
}

// RecordTokenRead counts a token file read
func (c *Collector) RecordTokenRead(result string) {
	c.tokenReads.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records a served HTTP request
func (c *Collector) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, status).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}
