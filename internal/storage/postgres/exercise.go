package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

const exerciseColumns = `id, user_id, name, description, favourite, notes, kind`

// ExerciseRepository stores exercise definitions.
type ExerciseRepository struct {
	db DBTX
}

// NewExerciseRepository creates a new ExerciseRepository.
func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func scanExercise(row interface{ Scan(...any) error }) (*domain.Exercise, error) {
	e := &domain.Exercise{}
	var description, notes sql.NullString
	var kind string
	if err := row.Scan(&e.ID, &e.UserID, &e.Name, &description, &e.Favourite, &notes, &kind); err != nil {
		return nil, err
	}
	e.Description = nullString(description)
	e.Notes = nullString(notes)
	e.Kind = domain.ExerciseKind(kind)
	return e, nil
}

// CreateExercise inserts an exercise and fills its id.
func (r *ExerciseRepository) CreateExercise(ctx context.Context, e *domain.Exercise) error {
	query := `INSERT INTO exercises (user_id, name, description, favourite, notes, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.Name, e.Description, e.Favourite, e.Notes, string(e.Kind)).Scan(&e.ID)
	if err != nil {
		return mapError(err, domain.ErrExerciseNotFound)
	}
	return nil
}

// GetExercise loads one of the user's exercises.
func (r *ExerciseRepository) GetExercise(ctx context.Context, userID, id uuid.UUID) (*domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1 AND user_id = $2`

	e, err := scanExercise(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, domain.ErrExerciseNotFound)
	}
	return e, nil
}

// ListExercises lists the user's exercises by name, optionally of one kind.
func (r *ExerciseRepository) ListExercises(ctx context.Context, userID uuid.UUID, kind *domain.ExerciseKind) ([]domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises
		WHERE user_id = $1 AND ($2::text IS NULL OR kind = $2)
		ORDER BY name, id`

	var kindArg sql.NullString
	if kind != nil {
		kindArg = sql.NullString{String: string(*kind), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, userID, kindArg)
	if err != nil {
		return nil, mapError(err, domain.ErrExerciseNotFound)
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, mapError(err, domain.ErrExerciseNotFound)
		}
		exercises = append(exercises, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, domain.ErrExerciseNotFound)
	}
	return exercises, nil
}

// UpdateExercise writes every mutable column of an exercise.
func (r *ExerciseRepository) UpdateExercise(ctx context.Context, e *domain.Exercise) error {
	query := `UPDATE exercises
		SET name = $3, description = $4, favourite = $5, notes = $6, kind = $7
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Name, e.Description, e.Favourite, e.Notes, string(e.Kind))
	if err != nil {
		return mapError(err, domain.ErrExerciseNotFound)
	}
	return rowsAffected(res, domain.ErrExerciseNotFound)
}

// DeleteExercise deletes one of the user's exercises unless it is in use.
func (r *ExerciseRepository) DeleteExercise(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return domain.ErrExerciseInUse.WithCause(err)
		}
		return mapError(err, domain.ErrExerciseNotFound)
	}
	return rowsAffected(res, domain.ErrExerciseNotFound)
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
