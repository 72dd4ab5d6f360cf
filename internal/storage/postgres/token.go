package postgres

import (
	"context"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// TokenRepository stores access tokens by hash.
type TokenRepository struct {
	db DBTX
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateToken inserts a token record.
func (r *TokenRepository) CreateToken(ctx context.Context, t *domain.AccessToken) error {
	query := `INSERT INTO access_tokens (token_hash, created, expires, user_id)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, t.TokenHash, t.Created, t.Expires, t.UserID); err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return domain.ErrUserNotFound
		}
		return mapError(err, domain.ErrNoValidSession)
	}
	return nil
}

// GetValidToken returns an unexpired token by hash.
func (r *TokenRepository) GetValidToken(ctx context.Context, tokenHash string) (*domain.AccessToken, error) {
	query := `SELECT token_hash, created, expires, user_id
		FROM access_tokens
		WHERE token_hash = $1 AND expires > now()`

	t := &domain.AccessToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&t.TokenHash, &t.Created, &t.Expires, &t.UserID)
	if err != nil {
		return nil, mapError(err, domain.ErrNoValidSession)
	}
	return t, nil
}

// DeleteToken deletes a token by hash and reports the affected rows.
func (r *TokenRepository) DeleteToken(ctx context.Context, tokenHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return 0, mapError(err, domain.ErrNoValidSession)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrDatabase.WithCause(err)
	}
	return n, nil
}
