package command

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/liftlog/liftlog-go/internal/core/service"
	"github.com/liftlog/liftlog-go/internal/infra/buildinfo"
	"github.com/liftlog/liftlog-go/internal/infra/confloader"
	"github.com/liftlog/liftlog-go/internal/infra/shutdown"
	"github.com/liftlog/liftlog-go/internal/infra/tlscert"
	"github.com/liftlog/liftlog-go/internal/server/config"
	"github.com/liftlog/liftlog-go/internal/server/httpserver"
	"github.com/liftlog/liftlog-go/internal/server/httpserver/handler"
	"github.com/liftlog/liftlog-go/internal/server/localserver"
	"github.com/liftlog/liftlog-go/internal/storage/memory"
	"github.com/liftlog/liftlog-go/internal/storage/postgres"
	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
)

// ServeCommand returns the serve command. It is also the default action.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API server",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	started := time.Now()
	loader := newLoader(c)
	cfg, err := config.Load(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.EffectiveLevel()
	logCfg.Format = cfg.Log.Format
	logCfg.Output = os.Stdout
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting liftlog-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", config.Sanitize(cfg))

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	repos, err := openRepositories(ctx, &cfg.Database, log)
	if err != nil {
		return err
	}

	var reg *metric.Registry
	if cfg.HTTP.Metrics {
		reg = metric.Global()
	}

	router := newRouter(cfg, repos, reg, log)
	srv := httpserver.New(cfg.HTTP.Addr, router, httpserver.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	sh := shutdown.NewHandler(cfg.HTTP.ShutdownTimeout)
	sh.OnShutdown(func(context.Context) error {
		log.Info("closing store")
		return repos.Close()
	})

	if cfg.HTTP.TLSCertFile != "" {
		certs, err := tlscert.NewReloader(cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile, tlscert.WithLogger(log))
		if err != nil {
			_ = repos.Close()
			return err
		}
		if err := certs.Watch(); err != nil {
			log.Warn("certificate reload disabled", "error", err)
		}
		sh.OnShutdown(func(context.Context) error { return certs.Close() })
		srv.UseTLS(certs.TLSConfig())
	}
	sh.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return srv.Shutdown(ctx)
	})

	if path := cfg.HTTP.LocalSocket; path != "" {
		local := localserver.New(path, localserver.NewHandler(localserver.HandlerConfig{
			Store:   repos.Pinger,
			Metrics: reg,
			Started: started,
		}))
		if err := local.Listen(); err != nil {
			_ = repos.Close()
			return fmt.Errorf("local socket: %w", err)
		}
		sh.OnShutdown(local.Shutdown)
		go func() {
			log.Info("local status socket listening", "path", path)
			if err := local.Serve(); err != nil {
				log.Error("local socket error", "error", err)
			}
		}()
	}

	if path := loader.FilePath(); path != "" {
		w, err := watchLogLevel(loader, path, log)
		if err != nil {
			log.Warn("config file watcher disabled", "error", err)
		} else {
			sh.OnShutdown(func(context.Context) error { return w.Stop() })
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTP.Addr, "tls", cfg.HTTP.TLSCertFile != "")
		if err := srv.ListenAndServe(); err != nil {
			log.Error("HTTP server error", "error", err)
			serveErr <- err
			cancel()
		}
	}()

	if err := sh.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
	}
	log.Info("server stopped gracefully")
	return nil
}

// repositories is the store backing the services.
type repositories struct {
	Users     service.UserRepository
	Tokens    service.TokenRepository
	Exercises service.ExerciseRepository
	Sessions  service.SessionRepository
	Instances service.InstanceRepository
	Sets      service.SetRepository

	Pinger handler.Pinger
	Close  func() error
}

// openRepositories selects the in-memory store for memory:// URLs and
// PostgreSQL otherwise. PostgreSQL is migrated first when configured.
func openRepositories(ctx context.Context, cfg *config.DatabaseSection, log *slog.Logger) (*repositories, error) {
	if config.IsMemoryURL(cfg.URL) {
		log.Warn("using the in-memory store, data is lost on exit")
		m := memory.New()
		return &repositories{
			Users:     m,
			Tokens:    m,
			Exercises: m,
			Sessions:  m,
			Instances: m,
			Sets:      m,
			Pinger:    m,
			Close:     m.Close,
		}, nil
	}

	log.Info("connecting to PostgreSQL")
	db, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectTimeout:  cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MigrateOnStart {
		log.Info("running migrations")
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	s := postgres.NewStore(db)
	return &repositories{
		Users:     s.Users,
		Tokens:    s.Tokens,
		Exercises: s.Exercises,
		Sessions:  s.Sessions,
		Instances: s.Instances,
		Sets:      s.Sets,
		Pinger:    s,
		Close:     s.Close,
	}, nil
}

// newRouter wires services, handlers and middleware.
func newRouter(cfg *config.ServerConfig, repos *repositories, reg *metric.Registry, log *slog.Logger) http.Handler {
	tokens := service.NewTokenService(repos.Tokens, repos.Users, &service.TokenServiceConfig{Metrics: reg})
	h := handler.New(handler.Services{
		Users:     service.NewUserService(repos.Users, reg),
		Tokens:    tokens,
		Exercises: service.NewExerciseService(repos.Exercises),
		Sessions:  service.NewSessionService(repos.Sessions, repos.Instances),
		Instances: service.NewInstanceService(repos.Instances, repos.Sessions, repos.Exercises),
		Sets:      service.NewSetService(repos.Sets),
		Store:     repos.Pinger,
	})

	rc := httpserver.DefaultRouterConfig()
	rc.Handler = h
	rc.Tokens = tokens
	rc.Metrics = reg
	rc.Logger = log
	rc.RateLimit.RequestsPerSecond = cfg.HTTP.RateLimit
	rc.RateLimit.Burst = cfg.HTTP.RateBurst
	rc.RateLimit.TrustProxy = cfg.HTTP.TrustProxy
	rc.EnableAudit = cfg.HTTP.Audit
	return httpserver.NewRouter(rc)
}

// watchLogLevel reloads the configuration when the file changes and applies
// a changed log level. Other settings need a restart.
func watchLogLevel(loader *confloader.Loader, path string, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := config.Load(loader)
		if err != nil {
			log.Warn("ignoring invalid configuration change", "error", err)
			return
		}
		level := cfg.Log.EffectiveLevel()
		if level != logger.GetLevel() {
			logger.SetLevel(level)
			log.Info("log level changed", "level", level)
		}
	})
	w.StartAsync()
	return w, nil
}
