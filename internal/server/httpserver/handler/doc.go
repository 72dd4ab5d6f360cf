// Package handler provides the HTTP request handlers for LiftLog.
//
// Every response uses the same JSON envelope:
//
//	{"message": "...", "data": ..., "errors": [{"msg": "...", "field": "..."}]}
//
// Handlers decode and validate the request body, call a service from
// internal/core/service and convert the result or error into an envelope.
// Domain errors are converted in exactly one place, FromError.
package handler
