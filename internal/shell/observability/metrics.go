package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "shell"

// Metrics holds the shell's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	resolutionsTotal    *prometheus.CounterVec
	transitionsTotal    *prometheus.CounterVec
	guardRedirectsTotal *prometheus.CounterVec
	logoutsTotal        *prometheus.CounterVec
}

// NewMetrics registers the shell collectors plus the Go and process collectors
// on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		resolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "route_resolutions_total",
			Help:      "Router resolutions, by outcome.",
		}, []string{"outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "navigation_transitions_total",
			Help:      "Selector choices, by transition mode.",
		}, []string{"mode"}),
		guardRedirectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "auth_guard_redirects_total",
			Help:      "Protected views redirected to sign-in, by reason.",
		}, []string{"reason"}),
		logoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "logouts_total",
			Help:      "Logout requests, by whether a token was cleared.",
		}, []string{"cleared"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.resolutionsTotal,
		m.transitionsTotal,
		m.guardRedirectsTotal,
		m.logoutsTotal,
	)
	return m
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request under its chi route pattern.
func (m *Metrics) ObserveRequest(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// ObserveResolution counts a router outcome.
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveTransition counts a selector choice by navigation mode, including no-ops.
func (m *Metrics) ObserveTransition(mode string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(mode).Inc()
}

// ObserveGuardRedirect counts visitors sent to sign-in by the auth guard.
func (m *Metrics) ObserveGuardRedirect(reason string) {
	if m == nil {
		return
	}
	m.guardRedirectsTotal.WithLabelValues(reason).Inc()
}

// ObserveLogout counts logouts; cleared is false when no token was stored.
func (m *Metrics) ObserveLogout(cleared bool) {
	if m == nil {
		return
	}
	m.logoutsTotal.WithLabelValues(strconv.FormatBool(cleared)).Inc()
}
