// Package prom exposes the session and request metrics through Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
)

// Config configures the Prometheus sink.
type Config struct {
	// Namespace prefixes every metric (default "lingua").
	Namespace string
	// Registry receives the collectors. Default: a fresh registry.
	Registry prometheus.Registerer
	// Buckets for duration histograms. Default: prometheus.DefBuckets.
	Buckets []float64
}

// Sink maps the shared metric names onto typed Prometheus collectors.
// Names it does not know are dropped.
type Sink struct {
	edgeDecisions  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	authResolves   *prometheus.CounterVec
	authDuration   *prometheus.HistogramVec
	syncResults    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

var _ statsd.Sink = (*Sink)(nil)

// NewSink registers the collectors with cfg.Registry.
func NewSink(cfg Config) *Sink {
	ns := cfg.Namespace
	if ns == "" {
		ns = "lingua"
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	factory := promauto.With(reg)

	return &Sink{
		edgeDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "edge_decisions_total",
			Help:      "Edge redirect filter outcomes by action and rule",
		}, []string{"action", "rule"}),

		guardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "guard_decisions_total",
			Help:      "Route guard evaluations by state and whether a redirect was issued",
		}, []string{"state", "redirect"}),

		authResolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "auth_resolves_total",
			Help:      "Profile resolutions by result",
		}, []string{"result", "error_class"}),

		authDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "auth_resolve_duration_seconds",
			Help:      "Profile resolution latency in seconds",
			Buckets:   buckets,
		}, []string{"result"}),

		syncResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "session_syncs_total",
			Help:      "External session sync attempts by result",
		}, []string{"result", "error_class"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Served HTTP requests by method and status class",
		}, []string{"method", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   buckets,
		}, []string{"method"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "active_sessions",
			Help:      "Sessions held in the in-process registry",
		}),
	}
}

func labels(tags map[string]string, names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = tags[n]
	}
	return out
}

// Count implements statsd.Sink.
func (s *Sink) Count(name string, value int64, tags map[string]string) {
	var vec *prometheus.CounterVec
	var lv []string
	switch name {
	case metrics.EdgeDecision:
		vec, lv = s.edgeDecisions, labels(tags, "action", "rule")
	case metrics.GuardDecision:
		vec, lv = s.guardDecisions, labels(tags, "state", "redirect")
	case metrics.AuthResolve:
		vec, lv = s.authResolves, labels(tags, "result", "error_class")
	case metrics.SyncResult:
		vec, lv = s.syncResults, labels(tags, "result", "error_class")
	case metrics.HTTPRequest:
		vec, lv = s.httpRequests, labels(tags, "method", "status")
	default:
		return
	}
	vec.WithLabelValues(lv...).Add(float64(value))
}

// Gauge implements statsd.Sink.
func (s *Sink) Gauge(name string, value float64, _ map[string]string) {
	if name == metrics.SessionsActive {
		s.activeSessions.Set(value)
	}
}

// Timing implements statsd.Sink.
func (s *Sink) Timing(name string, value time.Duration, tags map[string]string) {
	switch name {
	case metrics.AuthResolveDuration:
		s.authDuration.WithLabelValues(labels(tags, "result")...).Observe(value.Seconds())
	case metrics.HTTPRequestDuration:
		s.httpDuration.WithLabelValues(labels(tags, "method")...).Observe(value.Seconds())
	}
}
