package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "LIFTLOG_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k          *koanf.Koanf
	envPrefix  string
	filePath   string
	dotEnvPath string
	aliases    map[string]string
	sections   map[string]bool
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDotEnv sets the .env file to export before reading the environment.
// A missing file is not an error.
func WithDotEnv(path string) Option {
	return func(l *Loader) {
		l.dotEnvPath = path
	}
}

// WithEnvAlias maps an environment variable name, without the prefix, to a
// koanf path. Example: WithEnvAlias("LISTEN_ADDRESS", "http.addr").
func WithEnvAlias(name, path string) Option {
	return func(l *Loader) {
		l.aliases[strings.ToLower(name)] = path
	}
}

// WithSections restricts environment variables to the given top-level
// sections. Other prefixed variables are ignored.
func WithSections(sections ...string) Option {
	return func(l *Loader) {
		for _, s := range sections {
			l.sections[strings.ToLower(s)] = true
		}
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		aliases:   make(map[string]string),
		sections:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads every source into a fresh tree and unmarshals it over target.
// Fields of target that no source sets keep their values, so target carries
// the defaults.
func (l *Loader) Load(target any) error {
	l.k = koanf.New(".")

	if err := l.LoadFile(l.filePath); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}
	if err := l.LoadDotEnv(l.dotEnvPath); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile loads configuration from a YAML file. An empty path is a no-op.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv exports the variables of a .env file into the process
// environment. Variables that are already set win.
func (l *Loader) LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// LoadEnv loads configuration from environment variables with the prefix.
func (l *Loader) LoadEnv() error {
	provider := env.Provider(l.envPrefix, ".", l.envKey)
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// envKey maps LIFTLOG_SECTION_SOME_KEY to section.some_key. An empty result
// makes koanf skip the variable.
func (l *Loader) envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, l.envPrefix))

	if path, ok := l.aliases[name]; ok {
		return path
	}

	section, key, ok := strings.Cut(name, "_")
	if !ok || key == "" {
		return ""
	}
	if len(l.sections) > 0 && !l.sections[section] {
		return ""
	}
	return section + "." + key
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// FilePath returns the configured YAML file path.
func (l *Loader) FilePath() string {
	return l.filePath
}
