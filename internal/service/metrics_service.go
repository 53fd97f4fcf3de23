package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the registrar.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	enrollments     *prometheus.CounterVec
	gradesRecorded  *prometheus.CounterVec
	backups         *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
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

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_operations_total",
		Help: "Enrollment operations by outcome",
	}, []string{"result"})

	gradesRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grades_recorded_total",
		Help: "Recorded grades by letter",
	}, []string{"grade"})

	backups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "data_backups_total",
		Help: "Backup jobs by outcome",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enrollments, gradesRecorded, backups, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		enrollments:     enrollments,
		gradesRecorded:  gradesRecorded,
		backups:         backups,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveEnrollment counts an enrollment operation outcome.
func (m *MetricsService) ObserveEnrollment(result string) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(result).Inc()
}

// ObserveGradeRecorded counts a recorded grade by letter.
func (m *MetricsService) ObserveGradeRecorded(grade string) {
	if m == nil {
		return
	}
	m.gradesRecorded.WithLabelValues(grade).Inc()
}

// ObserveBackup counts a backup job outcome.
func (m *MetricsService) ObserveBackup(result string) {
	if m == nil {
		return
	}
	m.backups.WithLabelValues(result).Inc()
}
