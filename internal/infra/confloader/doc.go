// Package confloader loads configuration from layered sources using koanf.
//
// Loading order (later sources override earlier):
//
//  1. Defaults, taken from the target struct passed to Load
//  2. YAML configuration file
//  3. .env file, exported into the process environment with godotenv
//  4. Environment variables with the configured prefix
//
// Environment keys are mapped to koanf paths by splitting the first
// underscore after the prefix: LIFTLOG_DATABASE_MAX_OPEN_CONNS becomes
// database.max_open_conns. Aliases map legacy variable names to paths.
//
// Watcher reports changes of the configuration file through fsnotify.
package confloader
