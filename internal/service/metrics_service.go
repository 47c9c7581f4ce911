package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the reconciliation loops. It satisfies the panel and
// dispatch observer interfaces.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	pollDuration    *prometheus.HistogramVec
	pollErrors      *prometheus.CounterVec
	snapshotChecks  *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	staleDrops      *prometheus.CounterVec
	actionTotal     *prometheus.CounterVec
	actionDuration  *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
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

	pollDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "panel_poll_duration_seconds",
		Help:    "Duration of panel poll cycles",
		Buckets: prometheus.DefBuckets,
	}, []string{"panel"})

	pollErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "panel_poll_errors_total",
		Help: "Failed panel poll cycles",
	}, []string{"panel"})

	snapshotChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "panel_snapshot_checks_total",
		Help: "Snapshot comparisons by outcome",
	}, []string{"panel", "outcome"})

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "panel_render_duration_seconds",
		Help:    "Duration of fragment renders",
		Buckets: prometheus.DefBuckets,
	}, []string{"panel"})

	staleDrops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "panel_stale_drops_total",
		Help: "Fetch results discarded because a newer cycle superseded them",
	}, []string{"panel"})

	actionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actions_dispatched_total",
		Help: "Relayed portal actions by outcome",
	}, []string{"action", "outcome"})

	actionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "action_dispatch_duration_seconds",
		Help:    "Duration of relayed portal actions",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, pollDuration, pollErrors,
		snapshotChecks, renderDuration, staleDrops, actionTotal, actionDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		pollDuration:    pollDuration,
		pollErrors:      pollErrors,
		snapshotChecks:  snapshotChecks,
		renderDuration:  renderDuration,
		staleDrops:      staleDrops,
		actionTotal:     actionTotal,
		actionDuration:  actionDuration,
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

// ObservePollTick implements panel.Observer.
func (m *MetricsService) ObservePollTick(panel string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.pollDuration.WithLabelValues(panel).Observe(duration.Seconds())
	if err != nil {
		m.pollErrors.WithLabelValues(panel).Inc()
	}
}

// ObserveSnapshot implements panel.Observer.
func (m *MetricsService) ObserveSnapshot(panel string, changed bool) {
	if m == nil {
		return
	}
	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	m.snapshotChecks.WithLabelValues(panel, outcome).Inc()
}

// ObserveRender implements panel.Observer.
func (m *MetricsService) ObserveRender(panel string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(panel).Observe(duration.Seconds())
}

// ObserveStaleDrop implements panel.Observer.
func (m *MetricsService) ObserveStaleDrop(panel string) {
	if m == nil {
		return
	}
	m.staleDrops.WithLabelValues(panel).Inc()
}

// ObserveDispatch implements dispatch.Observer.
func (m *MetricsService) ObserveDispatch(action string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.actionTotal.WithLabelValues(action, outcome).Inc()
	m.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}
