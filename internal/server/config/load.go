package config

import (
	"github.com/liftlog/liftlog-go/internal/infra/confloader"
)

// DefaultDotEnv is the .env file read from the working directory.
const DefaultDotEnv = ".env"

// NewLoader returns a loader for ServerConfig. Besides LIFTLOG_<SECTION>_<KEY>
// it accepts the legacy LIFTLOG_DATABASE_URL, LIFTLOG_LISTEN_ADDRESS and
// LIFTLOG_DEBUG variables.
func NewLoader(configFile, dotEnv string) *confloader.Loader {
	return confloader.NewLoader(
		confloader.WithConfigFile(configFile),
		confloader.WithDotEnv(dotEnv),
		confloader.WithSections("http", "database", "log"),
		confloader.WithEnvAlias("LISTEN_ADDRESS", "http.addr"),
		confloader.WithEnvAlias("DEBUG", "log.debug"),
	)
}

// Load reads the configuration over the defaults and verifies it.
func Load(l *confloader.Loader) (*ServerConfig, error) {
	cfg := Default()
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
