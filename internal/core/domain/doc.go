// Package domain defines the core domain models for LiftLog.
//
// Domain models are plain values without IO dependencies. This package contains:
//
//   - User: account identity and argon2id password hashing
//   - AccessToken: bearer credential bound to a user
//   - Exercise, Session, ExerciseInstance, Set: the workout record hierarchy
//   - ValidationErrors: ordered field-level input failures
//   - Errors: coded domain errors that carry their HTTP status
package domain
