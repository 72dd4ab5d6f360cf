package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

const sessionColumns = `id, user_id, name, description, started, finished`

// SessionRepository stores workout sessions.
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row interface{ Scan(...any) error }) (*domain.Session, error) {
	s := &domain.Session{ExerciseInstances: []domain.ExerciseInstance{}}
	var description sql.NullString
	var finished sql.NullTime
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &description, &s.Started, &finished); err != nil {
		return nil, err
	}
	s.Description = nullString(description)
	if finished.Valid {
		t := finished.Time
		s.Finished = &t
	}
	return s, nil
}

// CreateSession inserts a session and fills its id and start time.
func (r *SessionRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, started`

	if err := r.db.QueryRowContext(ctx, query, s.UserID, s.Name, s.Description).Scan(&s.ID, &s.Started); err != nil {
		return mapError(err, domain.ErrSessionNotFound)
	}
	return nil
}

// GetSession loads one of the user's sessions without its instances.
func (r *SessionRepository) GetSession(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND user_id = $2`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	return s, nil
}

// ListSessions lists the user's sessions, most recent first.
func (r *SessionRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id = $1
		ORDER BY started DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err, domain.ErrSessionNotFound)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	return sessions, nil
}

// UpdateSession writes name and description.
func (r *SessionRepository) UpdateSession(ctx context.Context, s *domain.Session) error {
	query := `UPDATE sessions SET name = $3, description = $4
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Name, s.Description)
	if err != nil {
		return mapError(err, domain.ErrSessionNotFound)
	}
	return rowsAffected(res, domain.ErrSessionNotFound)
}

// FinishSession stamps finished once; later calls keep the first value.
func (r *SessionRepository) FinishSession(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	query := `UPDATE sessions SET finished = COALESCE(finished, now())
		WHERE id = $1 AND user_id = $2
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	return s, nil
}

// DeleteSession deletes one of the user's sessions with its instances and sets.
func (r *SessionRepository) DeleteSession(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err, domain.ErrSessionNotFound)
	}
	return rowsAffected(res, domain.ErrSessionNotFound)
}
