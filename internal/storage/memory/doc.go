// Package memory provides an in-memory implementation of every LiftLog
// repository.
//
// It mirrors the PostgreSQL store's behaviour: rows are scoped to their
// owning user, deletes cascade the way the foreign keys do, and an exercise
// referenced by an instance cannot be deleted. Data lives only as long as
// the process. It backs the "memory://" database URL and the HTTP tests.
package memory
