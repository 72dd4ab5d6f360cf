package postgres

import (
	"context"
	"database/sql"
)

// Store groups the repositories over one connection pool.
type Store struct {
	db *sql.DB

	Users     *UserRepository
	Tokens    *TokenRepository
	Exercises *ExerciseRepository
	Sessions  *SessionRepository
	Instances *InstanceRepository
	Sets      *SetRepository
}

// NewStore creates a Store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		Users:     NewUserRepository(db),
		Tokens:    NewTokenRepository(db),
		Exercises: NewExerciseRepository(db),
		Sessions:  NewSessionRepository(db),
		Instances: NewInstanceRepository(db),
		Sets:      NewSetRepository(db),
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return Ping(ctx, s.db, DefaultConnectTimeout)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}
