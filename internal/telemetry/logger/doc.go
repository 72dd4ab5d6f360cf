// Package logger provides structured logging for LiftLog.
//
// It builds log/slog loggers with a shared runtime-adjustable level and
// redaction of sensitive attributes (passwords, bearer tokens, database
// credentials). Request-scoped attributes travel in the context.
//
// Usage:
//
//	log, err := logger.New(logger.Config{Level: "info", Format: "json"})
//	ctx = logger.WithRequestID(ctx, "01J...")
//	logger.L(ctx).Info("session created", "session_id", id)
package logger
