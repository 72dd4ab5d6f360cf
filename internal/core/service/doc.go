// Package service provides domain services for LiftLog.
//
// Services hold the business rules (ownership, credential checks, token
// lifecycle) and orchestrate the storage interfaces they declare. Every
// repository call is scoped to the authenticated user's id, so entities of
// other users are indistinguishable from missing ones.
package service
