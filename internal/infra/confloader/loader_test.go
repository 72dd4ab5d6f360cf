package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	HTTP struct {
		Addr      string        `koanf:"addr"`
		RateLimit float64       `koanf:"rate_limit"`
		Timeout   time.Duration `koanf:"timeout"`
	} `koanf:"http"`
	Log struct {
		Level string `koanf:"level"`
		Debug bool   `koanf:"debug"`
	} `koanf:"log"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
		WithEnvAlias("LISTEN_ADDRESS", "http.addr"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q", l.FilePath())
	}
	if l.aliases["listen_address"] != "http.addr" {
		t.Errorf("aliases = %v", l.aliases)
	}
}

func TestLoader_EnvKey(t *testing.T) {
	l := NewLoader(
		WithEnvAlias("LISTEN_ADDRESS", "http.addr"),
		WithEnvAlias("DEBUG", "log.debug"),
		WithSections("http", "database", "log"),
	)

	tests := []struct {
		env  string
		want string
	}{
		{"LIFTLOG_HTTP_ADDR", "http.addr"},
		{"LIFTLOG_DATABASE_MAX_OPEN_CONNS", "database.max_open_conns"},
		{"LIFTLOG_LISTEN_ADDRESS", "http.addr"},
		{"LIFTLOG_DEBUG", "log.debug"},
		{"LIFTLOG_UNKNOWN_KEY", ""},
		{"LIFTLOG_HTTP", ""},
		{"LIFTLOG_HTTP_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := l.envKey(tt.env); got != tt.want {
				t.Errorf("envKey(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for missing file")
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "http:\n  addr: \"0.0.0.0:9000\"\n")

	var cfg testConfig
	cfg.HTTP.RateLimit = 50
	cfg.Log.Level = "info"

	if err := NewLoader(WithConfigFile(path), WithEnvPrefix("LLTEST_NONE_")).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != "0.0.0.0:9000" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.RateLimit != 50 || cfg.Log.Level != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeFile(t, "config.yaml", "http:\n  addr: \"file:1\"\n  timeout: 5s\nlog:\n  level: warn\n")
	dotenv := writeFile(t, ".env", "LLTEST_LOG_LEVEL=error\nLLTEST_HTTP_ADDR=dotenv:2\n")

	// Real environment beats .env, .env beats the file.
	t.Setenv("LLTEST_HTTP_ADDR", "env:3")
	t.Setenv("LLTEST_HTTP_RATE_LIMIT", "2.5")
	t.Cleanup(func() { os.Unsetenv("LLTEST_LOG_LEVEL") })

	var cfg testConfig
	l := NewLoader(
		WithEnvPrefix("LLTEST_"),
		WithConfigFile(path),
		WithDotEnv(dotenv),
		WithSections("http", "log"),
	)
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Addr != "env:3" {
		t.Errorf("HTTP.Addr = %q, want env:3", cfg.HTTP.Addr)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error from .env", cfg.Log.Level)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("HTTP.Timeout = %v, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.RateLimit != 2.5 {
		t.Errorf("HTTP.RateLimit = %v, want 2.5", cfg.HTTP.RateLimit)
	}
}

func TestLoader_Load_Aliases(t *testing.T) {
	t.Setenv("LLALIAS_LISTEN_ADDRESS", "127.0.0.1:3000")
	t.Setenv("LLALIAS_DEBUG", "true")

	var cfg testConfig
	l := NewLoader(
		WithEnvPrefix("LLALIAS_"),
		WithEnvAlias("LISTEN_ADDRESS", "http.addr"),
		WithEnvAlias("DEBUG", "log.debug"),
	)
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:3000" || !cfg.Log.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoader_Load_MissingDotEnv(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithEnvPrefix("LLTEST_NONE_"), WithDotEnv(filepath.Join(t.TempDir(), ".env")))
	if err := l.Load(&cfg); err != nil {
		t.Errorf("Load() with missing .env error = %v", err)
	}
}

func TestLoader_Load_Reload(t *testing.T) {
	path := writeFile(t, "config.yaml", "log:\n  level: info\n")
	l := NewLoader(WithConfigFile(path), WithEnvPrefix("LLTEST_NONE_"))

	var first testConfig
	if err := l.Load(&first); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	var second testConfig
	if err := l.Load(&second); err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if first.Log.Level != "info" || second.Log.Level != "debug" {
		t.Errorf("levels = %q, %q", first.Log.Level, second.Log.Level)
	}
}
