// Package metrics provides Prometheus metrics for the batting stats server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Player mutation results
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultMissing = "missing"
	ResultError   = "error"
)

// Manager owns the server's Prometheus collectors
type Manager struct {
	namespace         string
	histogramBuckets  []float64
	enabled           bool
	runtimeCollectors bool
	registry          *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	logins              *prometheus.CounterVec
	playerMutations     *prometheus.CounterVec
}

// NewManager creates a metrics manager. Unless WithRegistry is given, it
// registers on a fresh registry rather than the global default.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bstats",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method"},
	)

	m.logins = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome (created, authenticated, rejected)",
		},
		[]string{"outcome"},
	)

	m.playerMutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "players",
			Name:      "mutations_total",
			Help:      "Player record mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// Enabled reports whether recording is on
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Registry returns the registry the metrics live on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest counts a finished request and observes its duration
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordLogin counts a login attempt by outcome
func (m *Manager) RecordLogin(outcome string) {
	if !m.enabled {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordPlayerMutation counts a create, update or delete by result
func (m *Manager) RecordPlayerMutation(operation, result string) {
	if !m.enabled {
		return
	}
	m.playerMutations.WithLabelValues(operation, result).Inc()
}
