package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
	"github.com/liftlog/liftlog-go/pkg/token"
)

// TokenRepository defines the storage interface for access tokens.
type TokenRepository interface {
	// CreateToken persists a token record keyed by its hash.
	CreateToken(ctx context.Context, t *domain.AccessToken) error

	// GetValidToken returns the token with the given hash whose expiry is
	// still in the future, evaluated by the store in a single query.
	// Returns domain.ErrNoValidSession when no such row exists.
	GetValidToken(ctx context.Context, tokenHash string) (*domain.AccessToken, error)

	// DeleteToken deletes the token with the given hash and reports how
	// many rows were removed.
	DeleteToken(ctx context.Context, tokenHash string) (int64, error)
}

// UserFinder is the subset of UserRepository the token service needs.
type UserFinder interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenServiceConfig holds optional collaborators for TokenService.
type TokenServiceConfig struct {
	Metrics *metric.Registry
}

// TokenService issues, resolves and revokes bearer access tokens.
//
// Expiry is evaluated at read time from stored timestamps; there is no
// background sweep and no cache.
type TokenService struct {
	repo    TokenRepository
	users   UserFinder
	metrics *metric.Registry
}

// NewTokenService creates a new TokenService.
func NewTokenService(repo TokenRepository, users UserFinder, cfg *TokenServiceConfig) *TokenService {
	if cfg == nil {
		cfg = &TokenServiceConfig{}
	}
	return &TokenService{
		repo:    repo,
		users:   users,
		metrics: cfg.Metrics,
	}
}

// Issue generates a new token for userID valid for the given duration.
// The returned record carries the plaintext token; only its hash is stored.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID, validity time.Duration) (*domain.AccessToken, error) {
	if !domain.ValidityInRange(int64(validity / time.Second)) {
		var v domain.ValidationErrors
		v.Add("validity_in_seconds", "must be between 1 and 2592000")
		return nil, v.Err()
	}

	plaintext, err := token.Generate()
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	t := &domain.AccessToken{
		Token:     plaintext,
		TokenHash: token.Hash(plaintext),
		Created:   now,
		Expires:   now.Add(validity),
		UserID:    userID,
	}
	if err := s.repo.CreateToken(ctx, t); err != nil {
		return nil, err
	}

	s.metrics.TokenIssued()
	return t, nil
}

// Resolve looks up a plaintext token. Unknown, expired and malformed
// tokens all fail with domain.ErrNoValidSession.
func (s *TokenService) Resolve(ctx context.Context, plaintext string) (*domain.AccessToken, error) {
	if !token.ValidFormat(plaintext) {
		s.metrics.TokenRejected(metric.RejectMalformed)
		return nil, domain.ErrNoValidSession
	}

	t, err := s.repo.GetValidToken(ctx, token.Hash(plaintext))
	if err != nil {
		if errors.Is(err, domain.ErrNoValidSession) {
			s.metrics.TokenRejected(metric.RejectUnknown)
		}
		return nil, err
	}
	return t, nil
}

// ResolveUser re-checks the expiry of a resolved token and loads its owner.
func (s *TokenService) ResolveUser(ctx context.Context, t *domain.AccessToken) (*domain.User, error) {
	if t.IsExpired() {
		s.metrics.TokenRejected(metric.RejectExpired)
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.GetUserByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.TokenRejected(metric.RejectOrphaned)
			return nil, domain.ErrNoValidSession
		}
		return nil, err
	}
	return user, nil
}

// Authenticate resolves a plaintext bearer token to its user.
func (s *TokenService) Authenticate(ctx context.Context, plaintext string) (*domain.User, error) {
	t, err := s.Resolve(ctx, plaintext)
	if err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, t)
}

// Login checks credentials and issues a token on success.
// Unknown users and wrong passwords fail identically.
func (s *TokenService) Login(ctx context.Context, username, password string, validity time.Duration) (*domain.AccessToken, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.LoginFailed()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := domain.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.L(ctx).Error("password verification failed", "user_id", user.ID, "error", err)
		return nil, domain.ErrPasswordHash.WithCause(err)
	}
	if !ok {
		s.metrics.LoginFailed()
		return nil, domain.ErrInvalidCredentials
	}

	return s.Issue(ctx, user.ID, validity)
}

// Revoke deletes a resolved token. A token that was resolved but cannot be
// deleted indicates a storage inconsistency and fails with ErrInternal.
func (s *TokenService) Revoke(ctx context.Context, t *domain.AccessToken) error {
	n, err := s.repo.DeleteToken(ctx, t.TokenHash)
	if err != nil {
		return err
	}
	if n == 0 {
		logger.L(ctx).Error("access token vanished between lookup and delete",
			"user_id", t.UserID, "expires", t.Expires)
		return domain.ErrInternal.WithDetails("token row missing on delete")
	}

	s.metrics.TokenRevoked()
	return nil
}

// RevokeToken resolves and revokes a plaintext token.
func (s *TokenService) RevokeToken(ctx context.Context, plaintext string) error {
	t, err := s.Resolve(ctx, plaintext)
	if err != nil {
		return err
	}
	return s.Revoke(ctx, t)
}
