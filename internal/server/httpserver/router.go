package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/liftlog/liftlog-go/internal/core/service"
	"github.com/liftlog/liftlog-go/internal/server/httpserver/handler"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the API routes.
	Handler *handler.Handler

	// Tokens authenticates protected routes.
	Tokens *service.TokenService

	// Metrics receives request metrics and is exposed on GET /metrics.
	// Nil disables both.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// RateLimit configures the per-client limiter.
	RateLimit RateLimitConfig

	// EnableAudit enables one log line per request.
	EnableAudit bool
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Every route gets Recover -> RequestID -> Metrics -> RateLimit -> Audit;
// protected routes add Auth last. Unmatched requests, including known paths
// with the wrong method, get a 404 envelope.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	rl := cfg.RateLimit
	if rl.Metrics == nil {
		rl.Metrics = cfg.Metrics
	}

	base := []Middleware{
		Recover(),
		RequestID(log),
		Metrics(cfg.Metrics),
		RateLimit(rl),
	}
	if cfg.EnableAudit {
		base = append(base, Audit())
	}
	protected := append(base[:len(base):len(base)], Auth(cfg.Tokens, cfg.Metrics))

	mux := http.NewServeMux()
	for _, route := range cfg.Handler.Routes() {
		chain := protected
		if route.Public {
			chain = base
		}
		mux.Handle(route.Pattern, Chain(route.Handler, chain...))
	}

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover()))
	}

	mux.Handle("/", Chain(http.HandlerFunc(handler.NotFound), base...))

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		EnableAudit: true,
	}
}
