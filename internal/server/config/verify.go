package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// Verify validates the configuration and reports every problem found.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyHTTP(&cfg.HTTP),
		verifyDatabase(&cfg.Database),
		verifyLog(&cfg.Log),
	)
}

func verifyHTTP(cfg *HTTPSection) error {
	var errs []error

	if err := verifyListenAddr(cfg.Addr); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("http.rate_limit must not be negative"))
	}
	if cfg.RateBurst < 0 {
		errs = append(errs, errors.New("http.rate_burst must not be negative"))
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must not be negative"))
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		errs = append(errs, errors.New("http.tls_cert_file and http.tls_key_file must be set together"))
	}
	if cfg.LocalSocket != "" && !filepath.IsAbs(cfg.LocalSocket) {
		errs = append(errs, fmt.Errorf("http.local_socket %q must be an absolute path", cfg.LocalSocket))
	}
	return errors.Join(errs...)
}

func verifyListenAddr(addr string) error {
	if addr == "" {
		return errors.New("http.addr is required")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("http.addr %q: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("http.addr %q: port must be a number between 0 and 65535", addr)
	}
	return nil
}

func verifyDatabase(cfg *DatabaseSection) error {
	if cfg.URL == "" {
		return errors.New("database.url is required")
	}

	var errs []error
	if !IsMemoryURL(cfg.URL) {
		u, err := url.Parse(cfg.URL)
		switch {
		case err != nil:
			errs = append(errs, errors.New("database.url is not a valid URL"))
		case u.Scheme != "postgres" && u.Scheme != "postgresql":
			errs = append(errs, fmt.Errorf("database.url scheme %q is not supported", u.Scheme))
		}
	}
	if cfg.MaxOpenConns < 1 {
		errs = append(errs, errors.New("database.max_open_conns must be at least 1"))
	}
	if cfg.MaxIdleConns < 0 || cfg.MaxIdleConns > cfg.MaxOpenConns {
		errs = append(errs, errors.New("database.max_idle_conns must be between 0 and max_open_conns"))
	}
	if cfg.ConnectTimeout < 0 {
		errs = append(errs, errors.New("database.connect_timeout must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q must be json or text", cfg.Format)
	}
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn or error", cfg.Level)
	}
	return nil
}

// IsMemoryURL reports whether url selects the in-process store.
func IsMemoryURL(u string) bool {
	return strings.HasPrefix(u, MemoryURL)
}
