// Package httpserver provides the HTTP server for LiftLog.
//
// It wires the API routes of package handler behind a middleware chain
// built on stdlib net/http:
//
//   - Recover turns panics into a 500 envelope
//   - RequestID assigns a ULID request id and the request logger
//   - Metrics records Prometheus request metrics per route pattern
//   - RateLimit applies a per-client token bucket
//   - Audit writes one log line per request
//   - Auth resolves the bearer token on protected routes
//
// Unmatched requests get a 404 envelope.
package httpserver
