package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codepet/classroom-sync-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the import
// pipeline and the HTTP surface.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	importsTotal        *prometheus.CounterVec
	importDuration      prometheus.Histogram
	mergeWarnings       *prometheus.CounterVec
	recordsCreated      *prometheus.CounterVec
	submissionVersions  prometheus.Counter
	enrollmentsArchived prometheus.Counter
}

// NewMetricsService registers collectors on a private registry so tests can
// construct multiple instances without collisions.
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

	importsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_imports_total",
		Help: "Total snapshot import runs by outcome",
	}, []string{"status"})

	importDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_import_duration_seconds",
		Help:    "End-to-end duration of one snapshot import run",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	mergeWarnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "merge_warnings_total",
		Help: "Non-fatal reconciliation anomalies by code",
	}, []string{"code"})

	recordsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "merge_records_created_total",
		Help: "Records created by reconciliation, by entity",
	}, []string{"entity"})

	submissionVersions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "submission_versions_total",
		Help: "New submission versions written by imports",
	})

	enrollmentsArchived := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_archived_total",
		Help: "Enrollments archived after students left rosters",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, importsTotal, importDuration,
		mergeWarnings, recordsCreated, submissionVersions, enrollmentsArchived, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:            registry,
		handler:             handler,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		importsTotal:        importsTotal,
		importDuration:      importDuration,
		mergeWarnings:       mergeWarnings,
		recordsCreated:      recordsCreated,
		submissionVersions:  submissionVersions,
		enrollmentsArchived: enrollmentsArchived,
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
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveImport records the outcome of one import run.
func (m *MetricsService) ObserveImport(status models.ImportStatus, duration time.Duration) {
	if m == nil {
		return
	}
	m.importsTotal.WithLabelValues(string(status)).Inc()
	m.importDuration.Observe(duration.Seconds())
}

// ObserveMerge records the shape of one applied merge result.
func (m *MetricsService) ObserveMerge(result models.MergeResult) {
	if m == nil {
		return
	}
	counts := result.Counts()
	m.recordsCreated.WithLabelValues("classroom").Add(float64(counts.ClassroomsCreated))
	m.recordsCreated.WithLabelValues("assignment").Add(float64(counts.AssignmentsCreated))
	m.recordsCreated.WithLabelValues("enrollment").Add(float64(counts.EnrollmentsCreated))
	m.recordsCreated.WithLabelValues("grade").Add(float64(counts.GradesCreated))
	m.submissionVersions.Add(float64(counts.SubmissionsCreated))
	m.enrollmentsArchived.Add(float64(counts.EnrollmentsArchived))
	for _, warning := range result.Warnings {
		m.mergeWarnings.WithLabelValues(warning.Code).Inc()
	}
}
