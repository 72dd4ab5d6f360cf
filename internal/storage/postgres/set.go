package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

const setColumns = `id, user_id, exercise_instance_id, weight, reps, completed, created`

// SetRepository stores sets.
type SetRepository struct {
	db DBTX
}

// NewSetRepository creates a new SetRepository.
func NewSetRepository(db DBTX) *SetRepository {
	return &SetRepository{db: db}
}

func scanSet(row interface{ Scan(...any) error }) (*domain.Set, error) {
	s := &domain.Set{}
	var weight sql.NullFloat64
	var reps sql.NullInt32
	if err := row.Scan(&s.ID, &s.UserID, &s.ExerciseInstanceID, &weight, &reps, &s.Completed, &s.Created); err != nil {
		return nil, err
	}
	if weight.Valid {
		w := weight.Float64
		s.Weight = &w
	}
	if reps.Valid {
		n := reps.Int32
		s.Reps = &n
	}
	return s, nil
}

// CreateSet inserts an empty set into one of the user's instances.
func (r *SetRepository) CreateSet(ctx context.Context, s *domain.Set) error {
	query := `INSERT INTO sets (user_id, exercise_instance_id)
		SELECT $1, id FROM exercise_instances WHERE id = $2 AND user_id = $1
		RETURNING ` + setColumns

	created, err := scanSet(r.db.QueryRowContext(ctx, query, s.UserID, s.ExerciseInstanceID))
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return domain.ErrInstanceNotFound.WithCause(err)
		}
		return mapError(err, domain.ErrInstanceNotFound)
	}
	*s = *created
	return nil
}

// GetSet loads one of the user's sets.
func (r *SetRepository) GetSet(ctx context.Context, userID, id uuid.UUID) (*domain.Set, error) {
	query := `SELECT ` + setColumns + ` FROM sets WHERE id = $1 AND user_id = $2`

	s, err := scanSet(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, domain.ErrSetNotFound)
	}
	return s, nil
}

// UpdateSet writes weight, reps and completed.
func (r *SetRepository) UpdateSet(ctx context.Context, s *domain.Set) error {
	query := `UPDATE sets SET weight = $3, reps = $4, completed = $5
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Weight, s.Reps, s.Completed)
	if err != nil {
		return mapError(err, domain.ErrSetNotFound)
	}
	return rowsAffected(res, domain.ErrSetNotFound)
}

// DeleteSet deletes one of the user's sets.
func (r *SetRepository) DeleteSet(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err, domain.ErrSetNotFound)
	}
	return rowsAffected(res, domain.ErrSetNotFound)
}
