// Package metrics exposes Prometheus metrics for the event registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/eventdesk/internal/domain/event"
)

// Mutation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeConflict  = "conflict"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

// Manager owns the registry and every collector. A nil *Manager is a no-op.
type Manager struct {
	registry *prometheus.Registry

	mutations    *prometheus.CounterVec
	eventsStored prometheus.Gauge
	reminders    *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		if namespace != "" {
			o.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for request latency.
func WithHistogramBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// NewManager creates a Manager on a private registry.
func NewManager(opts ...Option) *Manager {
	o := options{namespace: "eventdesk", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&o)
	}

	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		mutations: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "registry",
			Name:      "mutations_total",
			Help:      "Event add/edit/delete attempts by outcome",
		}, []string{"op", "outcome"}),
		eventsStored: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Subsystem: "registry",
			Name:      "events",
			Help:      "Number of events currently stored",
		}),
		reminders: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "reminders",
			Name:      "deliveries_total",
			Help:      "Per-event reminder deliveries by outcome",
		}, []string{"outcome"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   o.buckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveMutation counts one registry mutation attempt.
func (m *Manager) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, Outcome(err)).Inc()
}

// SetEventCount records the current registry size.
func (m *Manager) SetEventCount(n int) {
	if m == nil {
		return
	}
	m.eventsStored.Set(float64(n))
}

// ObserveReminder counts one per-event reminder delivery.
func (m *Manager) ObserveReminder(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.reminders.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency by chi route pattern.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Outcome classifies a registry error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, event.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, event.ErrDuplicateKey):
		return OutcomeDuplicate
	case errors.Is(err, event.ErrInvalidFormat), errors.Is(err, event.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, event.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
