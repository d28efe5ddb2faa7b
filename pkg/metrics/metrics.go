// Package metrics exposes Prometheus metrics for the marketplace API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Manager owns the service's collectors. A nil *Manager records nothing,
// so components can be built without metrics in tests.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	profileViews        *prometheus.CounterVec
	profileCompletion   prometheus.Histogram
	profileUnlocks      *prometheus.CounterVec
	completionBackfills prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry registers collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// WithBuckets sets the latency histogram buckets (seconds).
func WithBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "board_champions",
		subsystem: "api",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.profileViews = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_views_total",
		Help:      "Candidate profile views served, by viewer class and detail level",
	}, []string{"viewer_class", "detail"})

	m.profileCompletion = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_completion_percentage",
		Help:      "Overall completion percentage computed on profile writes",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	m.profileUnlocks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_unlocks_total",
		Help:      "Profile unlock attempts by outcome",
	}, []string{"outcome"})

	m.completionBackfills = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completion_backfill_updates_total",
		Help:      "Profiles whose cached completion flag was corrected by a backfill",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.buckets,
	}, []string{"route", "method"})
}

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordProfileView counts one served profile.
func (m *Manager) RecordProfileView(viewerClass string, fullDetails bool) {
	if m == nil {
		return
	}
	detail := "redacted"
	if fullDetails {
		detail = "full"
	}
	m.profileViews.WithLabelValues(viewerClass, detail).Inc()
}

func (m *Manager) ObserveCompletion(percentage int) {
	if m == nil {
		return
	}
	m.profileCompletion.Observe(float64(percentage))
}

// RecordUnlock counts an unlock attempt; outcome is "charged",
// "already_unlocked", "insufficient_credits" or "error".
func (m *Manager) RecordUnlock(outcome string) {
	if m == nil {
		return
	}
	m.profileUnlocks.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordBackfill(updated int) {
	if m == nil || updated <= 0 {
		return
	}
	m.completionBackfills.Add(float64(updated))
}

// Push sends the registry to a Prometheus Pushgateway under job, replacing
// what the job pushed before. Batch commands call it once before exiting.
func (m *Manager) Push(ctx context.Context, gatewayURL, job string) error {
	if m == nil || gatewayURL == "" {
		return nil
	}
	return push.New(gatewayURL, job).Gatherer(m.registry).PushContext(ctx)
}

func (m *Manager) RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
