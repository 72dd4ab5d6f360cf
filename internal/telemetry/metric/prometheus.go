package metric

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "liftlog"

// Token rejection reasons.
const (
	RejectMalformed = "malformed"
	RejectUnknown   = "unknown"
	RejectExpired   = "expired"
	RejectOrphaned  = "orphaned"
)

// Registry holds all application metrics.
// All recording methods are safe to call on a nil *Registry.
type Registry struct {
	reg *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestsLimited prometheus.Counter

	// Auth metrics
	TokensIssued    prometheus.Counter
	TokensRevoked   prometheus.Counter
	TokenRejections *prometheus.CounterVec
	LoginFailures   prometheus.Counter

	// Domain metrics
	UsersRegistered prometheus.Counter
}

// NewRegistry creates a new metrics registry with Go and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"method", "route"}),
		RequestsLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_tokens_issued_total",
			Help:      "Access tokens issued.",
		}),
		TokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_tokens_revoked_total",
			Help:      "Access tokens revoked.",
		}),
		TokenRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_token_rejections_total",
			Help:      "Bearer tokens that failed to authenticate.",
		}, []string{"reason"}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Access token requests with invalid credentials.",
		}),
		UsersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "User accounts created.",
		}),
	}

	r.reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.RequestsLimited,
		r.TokensIssued,
		r.TokensRevoked,
		r.TokenRejections,
		r.LoginFailures,
		r.UsersRegistered,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RateLimited records a request rejected by the rate limiter.
func (r *Registry) RateLimited() {
	if r != nil {
		r.RequestsLimited.Inc()
	}
}

// TokenIssued records an issued access token.
func (r *Registry) TokenIssued() {
	if r != nil {
		r.TokensIssued.Inc()
	}
}

// TokenRevoked records a revoked access token.
func (r *Registry) TokenRevoked() {
	if r != nil {
		r.TokensRevoked.Inc()
	}
}

// TokenRejected records a failed bearer authentication.
func (r *Registry) TokenRejected(reason string) {
	if r != nil {
		r.TokenRejections.WithLabelValues(reason).Inc()
	}
}

// LoginFailed records a credential check failure.
func (r *Registry) LoginFailed() {
	if r != nil {
		r.LoginFailures.Inc()
	}
}

// UserRegistered records a created account.
func (r *Registry) UserRegistered() {
	if r != nil {
		r.UsersRegistered.Inc()
	}
}
