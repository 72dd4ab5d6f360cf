package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

const userColumns = `id, created, changed, username, password_hash`

// UserRepository stores user accounts.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	if err := row.Scan(&u.ID, &u.Created, &u.Changed, &u.Username, &u.PasswordHash); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) userOrError(row interface{ Scan(...any) error }) (*domain.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken.WithField("username")
		}
		return nil, mapError(err, domain.ErrUserNotFound)
	}
	return u, nil
}

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	query := `INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	return r.userOrError(r.db.QueryRowContext(ctx, query, username, passwordHash))
}

// GetUserByID loads a user by id.
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.userOrError(r.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername loads a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.userOrError(r.db.QueryRowContext(ctx, query, username))
}

// UpdateUsername renames a user.
func (r *UserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	query := `UPDATE users SET username = $2, changed = now()
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := r.userOrError(r.db.QueryRowContext(ctx, query, id, username))
	if err != nil && domain.IsDomainError(err, domain.ErrUsernameTaken.Code) {
		return nil, domain.ErrUsernameTaken.WithField("new_username")
	}
	return u, err
}

// UpdatePasswordHash replaces a user's password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (*domain.User, error) {
	query := `UPDATE users SET password_hash = $2, changed = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.userOrError(r.db.QueryRowContext(ctx, query, id, passwordHash))
}

// DeleteUser deletes a user; owned rows go with it by cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, domain.ErrUserNotFound)
	}
	return rowsAffected(res, domain.ErrUserNotFound)
}
