package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/credential-service/internal/domain"
)

// Metrics holds the Prometheus collectors for the HTTP layer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	verdicts *prometheus.CounterVec
}

// NewMetrics creates and registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credential_http_requests_total",
			Help: "Total number of HTTP requests, labeled by path, method and status",
		}, []string{"path", "method", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credential_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credential_http_errors_total",
			Help: "Total number of HTTP error responses, labeled by error code",
		}, []string{"path", "method", "code"}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credential_verdicts_total",
			Help: "Total number of verification verdicts issued, labeled by verdict",
		}, []string{"verdict"}),
	}
}

// RecordRequest counts a completed request and observes its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordVerdict counts an issued verdict.
func (m *Metrics) RecordVerdict(verdict domain.Verdict) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(string(verdict)).Inc()
}

// MetricsHandler serves the collectors in gatherer in the Prometheus text format.
func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
