package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
)

// UserRepository defines the storage interface for user accounts.
type UserRepository interface {
	// CreateUser inserts a user. Returns domain.ErrUsernameTaken on duplicates.
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateUsername returns domain.ErrUsernameTaken on duplicates.
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (*domain.User, error)

	// DeleteUser removes the user and, by cascade, everything it owns.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserService manages user accounts.
type UserService struct {
	repo    UserRepository
	metrics *metric.Registry
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository, metrics *metric.Registry) *UserService {
	return &UserService{repo: repo, metrics: metrics}
}

// Register creates a new user with an argon2id password hash.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := s.hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	s.metrics.UserRegistered()
	logger.L(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// Delete removes a user and all owned records, returning the deleted id.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return uuid.Nil, err
	}
	logger.L(ctx).Info("user deleted", "user_id", id)
	return id, nil
}

// ChangeUsername renames a user.
func (s *UserService) ChangeUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	return s.repo.UpdateUsername(ctx, id, username)
}

// ChangePassword replaces a user's password hash.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, password string) (*domain.User, error) {
	hash, err := s.hash(ctx, password)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdatePasswordHash(ctx, id, hash)
}

func (s *UserService) hash(ctx context.Context, password string) (string, error) {
	hash, err := domain.HashPassword(password)
	if err != nil {
		logger.L(ctx).Error("password hashing failed", "error", err)
		return "", err
	}
	return hash, nil
}
