package localserver

import (
	"context"
	"net/http"
	"time"

	"github.com/liftlog/liftlog-go/internal/infra/buildinfo"
	"github.com/liftlog/liftlog-go/internal/server/httpserver/handler"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
)

const pingTimeout = 2 * time.Second

// Status is the body of GET /status.
type Status struct {
	Version   string  `json:"version"`
	Commit    string  `json:"commit"`
	GoVersion string  `json:"go_version"`
	Uptime    float64 `json:"uptime_seconds"`
	Store     string  `json:"store"`
}

// HandlerConfig configures NewHandler.
type HandlerConfig struct {
	// Store is pinged for every status request. Nil reports "unknown".
	Store handler.Pinger

	// Metrics is served on GET /metrics when set.
	Metrics *metric.Registry

	// Started is the process start time.
	Started time.Time
}

// NewHandler returns the mux for the local socket.
func NewHandler(cfg HandlerConfig) http.Handler {
	if cfg.Started.IsZero() {
		cfg.Started = time.Now()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		info := buildinfo.Get()
		st := Status{
			Version:   info.Version,
			Commit:    info.Commit,
			GoVersion: info.GoVersion,
			Uptime:    time.Since(cfg.Started).Seconds(),
			Store:     storeStatus(r.Context(), cfg.Store),
		}
		handler.Success("", st, http.StatusOK).Write(w, r)
	})
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
	mux.HandleFunc("/", handler.NotFound)
	return mux
}

func storeStatus(ctx context.Context, p handler.Pinger) string {
	if p == nil {
		return "unknown"
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "unreachable: " + err.Error()
	}
	return "ok"
}
