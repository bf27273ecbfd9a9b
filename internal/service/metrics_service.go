package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation on a private
// registry so tests can build isolated instances.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	createdTotal    prometheus.Counter
	decisionsTotal  *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	createdTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "suspensions_created_total",
		Help: "Total number of suspension records created",
	})

	decisionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_decisions_total",
		Help: "Total number of approval decisions by outcome",
	}, []string{"decision"})

	registry.MustRegister(requestDuration, requestTotal, createdTotal, decisionsTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		createdTotal:    createdTotal,
		decisionsTotal:  decisionsTotal,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	code := strconv.Itoa(status)
	s.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, code).Inc()
}

// IncSuspensionCreated counts a stored record.
func (s *MetricsService) IncSuspensionCreated() {
	if s == nil {
		return
	}
	s.createdTotal.Inc()
}

// IncApprovalDecision counts one approve/reject outcome.
func (s *MetricsService) IncApprovalDecision(decision string) {
	if s == nil {
		return
	}
	s.decisionsTotal.WithLabelValues(decision).Inc()
}
