package httpserver

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/core/service"
	"github.com/liftlog/liftlog-go/internal/server/httpserver/handler"
	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
	"github.com/liftlog/liftlog-go/pkg/cmap"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds client supplied request ids.
const maxRequestIDLen = 64

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost one.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID assigns every request an id and attaches the logger to the
// request context. A well-formed incoming X-Request-ID is kept.
func RequestID(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if !validRequestID(requestID) {
				requestID = ulid.Make().String()
			}
			w.Header().Set(HeaderRequestID, requestID)

			ctx := logger.WithLogger(r.Context(), log)
			ctx = logger.WithRequestID(ctx, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}

// Recover turns a panic into a 500 envelope.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.L(r.Context()).Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
					)
					handler.FromError(domain.ErrInternal).Write(w, r)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request count and latency per route pattern.
func Metrics(reg *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recordStatus(w)

			next.ServeHTTP(rec, r)

			reg.ObserveRequest(r.Method, routeLabel(r), rec.status, time.Since(start))
		})
	}
}

// routeLabel keeps metric cardinality bounded: it is the matched pattern,
// never the raw path.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	// Patterns carry the method, which already has its own label.
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

// RateLimitConfig configures the per-client limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP. Zero disables
	// limiting.
	RequestsPerSecond float64

	// Burst is the bucket size. Values below 1 use RequestsPerSecond rounded up.
	Burst int

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration

	Metrics *metric.Registry
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimit applies a token bucket per client IP.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = int(math.Ceil(cfg.RequestsPerSecond))
	}
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	clients := cmap.New[string, *clientLimiter]()
	var lastSweep atomic.Int64
	lastSweep.Store(time.Now().UnixNano())

	newLimiter := func() *clientLimiter {
		return &clientLimiter{lim: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			sweepIdle(clients, &lastSweep, now, idle)

			cl, _ := clients.GetOrCompute(clientIP(r, cfg.TrustProxy), newLimiter)
			cl.lastSeen.Store(now.UnixNano())

			res := cl.lim.ReserveN(now, 1)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)
				cfg.Metrics.RateLimited()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				handler.FromError(domain.ErrRateLimited).Write(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// sweepIdle drops buckets unused for longer than idle. At most one caller
// sweeps per idle period.
func sweepIdle(clients *cmap.Map[string, *clientLimiter], lastSweep *atomic.Int64, now time.Time, idle time.Duration) {
	last := lastSweep.Load()
	if now.UnixNano()-last < int64(idle) {
		return
	}
	if !lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-idle).UnixNano()
	clients.DeleteFunc(func(_ string, cl *clientLimiter) bool {
		return cl.lastSeen.Load() < cutoff
	})
}

type auditKey struct{}

// auditRecord collects values set by inner middlewares for the audit line.
type auditRecord struct {
	userID string
}

// Audit writes one log line per request.
func Audit() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recordStatus(w)
			audit := &auditRecord{}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), auditKey{}, audit)))

			attrs := []any{
				"method", r.Method,
				"route", routeLabel(r),
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if audit.userID != "" {
				attrs = append(attrs, "user_id", audit.userID)
			}

			log := logger.L(r.Context())
			switch {
			case rec.status >= 500:
				log.Error("request completed with error", attrs...)
			case rec.status >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// Auth resolves the bearer token into the calling user. Rejections are
// written as envelopes and the handler is not called.
func Auth(tokens *service.TokenService, reg *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := extractBearerToken(r.Header)
			if err != nil {
				if domain.IsDomainError(err, domain.ErrAuthMalformed.Code) {
					reg.TokenRejected(metric.RejectMalformed)
				}
				handler.WriteError(w, r, err)
				return
			}

			user, err := tokens.Authenticate(r.Context(), raw)
			if err != nil {
				handler.WriteError(w, r, err)
				return
			}

			userID := user.ID.String()
			if audit, ok := r.Context().Value(auditKey{}).(*auditRecord); ok {
				audit.userID = userID
			}
			ctx := handler.WithUser(r.Context(), user)
			ctx = logger.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the token of an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive; the token must be a single
// non-empty word.
func extractBearerToken(h http.Header) (string, error) {
	values := h.Values("Authorization")
	if len(values) == 0 {
		return "", domain.ErrAuthMissing
	}
	if len(values) > 1 {
		return "", domain.ErrAuthMalformed
	}

	scheme, tok, ok := strings.Cut(values[0], " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || tok == "" {
		return "", domain.ErrAuthMalformed
	}
	if strings.ContainsAny(tok, " \t\r\n") {
		return "", domain.ErrAuthMalformed
	}
	return tok, nil
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// clientIP extracts the client IP from the request. Forwarding headers are
// only honoured behind a trusted proxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	// net.SplitHostPort handles bracketed IPv6 addresses like [::1]:8080.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
