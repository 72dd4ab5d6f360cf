package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimit       = 50
	DefaultRateBurst       = 100

	DefaultMaxOpenConns   = 10
	DefaultMaxIdleConns   = 5
	DefaultConnectTimeout = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// MemoryURL selects the in-process store.
	MemoryURL = "memory://"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		HTTP: HTTPSection{
			Addr:            DefaultHTTPAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			RateLimit:       DefaultRateLimit,
			RateBurst:       DefaultRateBurst,
			Audit:           true,
			Metrics:         true,
		},
		Database: DatabaseSection{
			MaxOpenConns:   DefaultMaxOpenConns,
			MaxIdleConns:   DefaultMaxIdleConns,
			ConnectTimeout: DefaultConnectTimeout,
			MigrateOnStart: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
