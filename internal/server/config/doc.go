// Package config provides server configuration for LiftLog.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, database settings and limits
//   - sanitize.go: Log sanitization (hide the database password)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: defaults, a YAML file, a .env file and LIFTLOG_*
// environment variables.
package config
