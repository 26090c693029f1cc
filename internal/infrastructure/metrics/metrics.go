// Package metrics exposes Prometheus collectors for HTTP traffic,
// transfers and access log archiving.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockscope/internal/domain/accesslog"
	"stockscope/internal/domain/transfer"
)

const namespace = "stockscope"

// Metrics holds the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	transfer *prometheus.CounterVec
	archived *prometheus.CounterVec
	archives *prometheus.CounterVec
}

var (
	_ transfer.Recorder         = (*Metrics)(nil)
	_ accesslog.ArchiveRecorder = (*Metrics)(nil)
)

// New registers the collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		transfer: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "operations_total",
			Help:      "Transfer operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access_log",
			Name:      "archived_entries_total",
			Help:      "Access log entries copied into tenant archives.",
		}, []string{"tenant"}),
		archives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access_log",
			Name:      "archive_runs_total",
			Help:      "Archive runs by tenant and outcome.",
		}, []string{"tenant", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.transfer, m.archived, m.archives,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one HTTP request. route is the matched pattern,
// not the raw path.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveTransfer implements transfer.Recorder.
func (m *Metrics) ObserveTransfer(op string, err error) {
	m.transfer.WithLabelValues(op, outcome(err)).Inc()
}

// ObserveArchived implements accesslog.ArchiveRecorder.
func (m *Metrics) ObserveArchived(tenantID string, inserted int64, err error) {
	m.archives.WithLabelValues(tenantID, outcome(err)).Inc()
	if err == nil && inserted > 0 {
		m.archived.WithLabelValues(tenantID).Add(float64(inserted))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
