package config

import "time"

// ServerConfig is the root configuration for liftlog-server.
type ServerConfig struct {
	HTTP     HTTPSection     `koanf:"http"`
	Database DatabaseSection `koanf:"database"`
	Log      LogSection      `koanf:"log"`
}

// HTTPSection configures the HTTP server.
type HTTPSection struct {
	// Addr is the listen address, "host:port".
	Addr string `koanf:"addr"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the sustained requests/second per client IP. 0 disables.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// TrustProxy takes client IPs from X-Forwarded-For.
	TrustProxy bool `koanf:"trust_proxy"`

	// Audit writes one log line per request.
	Audit bool `koanf:"audit"`

	// Metrics exposes GET /metrics.
	Metrics bool `koanf:"metrics"`

	// TLSCertFile and TLSKeyFile enable HTTPS. The pair is reloaded when
	// either file changes.
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// LocalSocket is a Unix socket path for the local status endpoint.
	// Empty disables it.
	LocalSocket string `koanf:"local_socket"`
}

// DatabaseSection configures the store.
type DatabaseSection struct {
	// URL is a postgres:// connection URL, or "memory://" for the
	// in-process store.
	URL string `koanf:"url"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `koanf:"migrate_on_start"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// Debug forces the debug level.
	Debug bool `koanf:"debug"`
}

// EffectiveLevel returns the level to log at.
func (l LogSection) EffectiveLevel() string {
	if l.Debug {
		return "debug"
	}
	return l.Level
}
