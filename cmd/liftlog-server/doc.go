// Package main provides the entry point for liftlog-server.
//
// The server exposes the LiftLog REST API for users, access tokens,
// exercises, workout sessions, exercise instances and sets.
//
// Usage:
//
//	liftlog-server [--config config.yaml] [--env-file .env]
//	liftlog-server migrate up|down|status
//	liftlog-server version
package main
