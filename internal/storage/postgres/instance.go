package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

const (
	instanceColumns = `id, user_id, session_id, created, exercise_id, comments`

	fkInstanceSession  = "exercise_instances_session_id_fkey"
	fkInstanceExercise = "exercise_instances_exercise_id_fkey"
)

// InstanceRepository stores exercise instances and reads their sets.
type InstanceRepository struct {
	db DBTX
}

// NewInstanceRepository creates a new InstanceRepository.
func NewInstanceRepository(db DBTX) *InstanceRepository {
	return &InstanceRepository{db: db}
}

func scanInstance(row interface{ Scan(...any) error }) (*domain.ExerciseInstance, error) {
	i := &domain.ExerciseInstance{Sets: []domain.Set{}}
	var comments pq.StringArray
	if err := row.Scan(&i.ID, &i.UserID, &i.SessionID, &i.Created, &i.ExerciseID, &comments); err != nil {
		return nil, err
	}
	i.Comments = commentsOrEmpty(comments)
	return i, nil
}

func commentsOrEmpty(c pq.StringArray) []string {
	if c == nil {
		return []string{}
	}
	return []string(c)
}

// CreateInstance inserts an instance and fills its id and creation time.
func (r *InstanceRepository) CreateInstance(ctx context.Context, i *domain.ExerciseInstance) error {
	query := `INSERT INTO exercise_instances (user_id, session_id, exercise_id, comments)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created`

	comments := i.Comments
	if comments == nil {
		comments = []string{}
	}

	err := r.db.QueryRowContext(ctx, query, i.UserID, i.SessionID, i.ExerciseID, pq.Array(comments)).
		Scan(&i.ID, &i.Created)
	if err != nil {
		return instanceWriteError(err)
	}
	i.Comments = comments
	if i.Sets == nil {
		i.Sets = []domain.Set{}
	}
	return nil
}

func instanceWriteError(err error) error {
	if constraint, ok := isForeignKeyViolation(err); ok {
		switch constraint {
		case fkInstanceSession:
			return domain.ErrSessionNotFound.WithField("session_id").WithCause(err)
		case fkInstanceExercise:
			return domain.ErrExerciseNotFound.WithField("exercise_id").WithCause(err)
		}
	}
	return mapError(err, domain.ErrInstanceNotFound)
}

// GetInstance loads one of the user's instances with its sets.
func (r *InstanceRepository) GetInstance(ctx context.Context, userID, id uuid.UUID) (*domain.ExerciseInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM exercise_instances WHERE id = $1 AND user_id = $2`

	inst, err := scanInstance(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, domain.ErrInstanceNotFound)
	}

	setQuery := `SELECT ` + setColumns + ` FROM sets
		WHERE exercise_instance_id = $1 AND user_id = $2
		ORDER BY created, id`

	rows, err := r.db.QueryContext(ctx, setQuery, id, userID)
	if err != nil {
		return nil, mapError(err, domain.ErrInstanceNotFound)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, mapError(err, domain.ErrInstanceNotFound)
		}
		inst.Sets = append(inst.Sets, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, domain.ErrInstanceNotFound)
	}
	return inst, nil
}

// ListInstancesBySession lists a session's instances with their sets,
// both ordered by creation.
func (r *InstanceRepository) ListInstancesBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]domain.ExerciseInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM exercise_instances
		WHERE session_id = $1 AND user_id = $2
		ORDER BY created, id`

	rows, err := r.db.QueryContext(ctx, query, sessionID, userID)
	if err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	defer rows.Close()

	instances := []domain.ExerciseInstance{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, mapError(err, domain.ErrSessionNotFound)
		}
		index[inst.ID] = len(instances)
		instances = append(instances, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	if len(instances) == 0 {
		return instances, nil
	}

	setQuery := `SELECT s.id, s.user_id, s.exercise_instance_id, s.weight, s.reps, s.completed, s.created
		FROM sets s
		JOIN exercise_instances i ON i.id = s.exercise_instance_id
		WHERE i.session_id = $1 AND s.user_id = $2
		ORDER BY s.created, s.id`

	setRows, err := r.db.QueryContext(ctx, setQuery, sessionID, userID)
	if err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	defer setRows.Close()

	for setRows.Next() {
		s, err := scanSet(setRows)
		if err != nil {
			return nil, mapError(err, domain.ErrSessionNotFound)
		}
		if n, ok := index[s.ExerciseInstanceID]; ok {
			instances[n].Sets = append(instances[n].Sets, *s)
		}
	}
	if err := setRows.Err(); err != nil {
		return nil, mapError(err, domain.ErrSessionNotFound)
	}
	return instances, nil
}

// UpdateInstance writes exercise_id and comments.
func (r *InstanceRepository) UpdateInstance(ctx context.Context, i *domain.ExerciseInstance) error {
	query := `UPDATE exercise_instances SET exercise_id = $3, comments = $4
		WHERE id = $1 AND user_id = $2`

	comments := i.Comments
	if comments == nil {
		comments = []string{}
	}

	res, err := r.db.ExecContext(ctx, query, i.ID, i.UserID, i.ExerciseID, pq.Array(comments))
	if err != nil {
		return instanceWriteError(err)
	}
	return rowsAffected(res, domain.ErrInstanceNotFound)
}

// DeleteInstance deletes one of the user's instances with its sets.
func (r *InstanceRepository) DeleteInstance(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercise_instances WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err, domain.ErrInstanceNotFound)
	}
	return rowsAffected(res, domain.ErrInstanceNotFound)
}

// AppendComment adds a comment at the end of the list.
func (r *InstanceRepository) AppendComment(ctx context.Context, userID, id uuid.UUID, comment string) ([]string, error) {
	query := `UPDATE exercise_instances SET comments = array_append(comments, $3)
		WHERE id = $1 AND user_id = $2
		RETURNING comments`

	return r.comments(r.db.QueryRowContext(ctx, query, id, userID, comment), domain.ErrInstanceNotFound)
}

// ReplaceComment overwrites the comment at a zero-based index.
func (r *InstanceRepository) ReplaceComment(ctx context.Context, userID, id uuid.UUID, index int, comment string) ([]string, error) {
	if index < 0 {
		return nil, r.missingComment(ctx, userID, id)
	}
	query := `UPDATE exercise_instances SET comments[$3] = $4
		WHERE id = $1 AND user_id = $2 AND cardinality(comments) >= $3
		RETURNING comments`

	out, err := r.comments(r.db.QueryRowContext(ctx, query, id, userID, index+1, comment), nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingComment(ctx, userID, id)
	}
	return out, err
}

// RemoveComment deletes the comment at a zero-based index.
func (r *InstanceRepository) RemoveComment(ctx context.Context, userID, id uuid.UUID, index int) ([]string, error) {
	if index < 0 {
		return nil, r.missingComment(ctx, userID, id)
	}
	query := `UPDATE exercise_instances
		SET comments = comments[1:$3 - 1] || comments[$3 + 1:cardinality(comments)]
		WHERE id = $1 AND user_id = $2 AND cardinality(comments) >= $3
		RETURNING comments`

	out, err := r.comments(r.db.QueryRowContext(ctx, query, id, userID, index+1), nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingComment(ctx, userID, id)
	}
	return out, err
}

// comments scans a RETURNING comments row. A nil notFound leaves
// sql.ErrNoRows unmapped for the caller.
func (r *InstanceRepository) comments(row *sql.Row, notFound *domain.DomainError) ([]string, error) {
	var c pq.StringArray
	if err := row.Scan(&c); err != nil {
		if notFound == nil && errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, mapError(err, notFound)
	}
	return commentsOrEmpty(c), nil
}

// missingComment tells a missing instance apart from an index out of range.
func (r *InstanceRepository) missingComment(ctx context.Context, userID, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM exercise_instances WHERE id = $1 AND user_id = $2)`,
		id, userID).Scan(&exists)
	if err != nil {
		return mapError(err, domain.ErrInstanceNotFound)
	}
	if !exists {
		return domain.ErrInstanceNotFound
	}
	return domain.ErrCommentNotFound.WithField("comment_index")
}
