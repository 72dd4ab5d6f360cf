package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// SetRepository defines the storage interface for sets.
type SetRepository interface {
	// CreateSet inserts an empty set into one of the user's instances.
	// Returns domain.ErrInstanceNotFound when the instance is not the user's.
	CreateSet(ctx context.Context, s *domain.Set) error

	GetSet(ctx context.Context, userID, id uuid.UUID) (*domain.Set, error)
	UpdateSet(ctx context.Context, s *domain.Set) error
	DeleteSet(ctx context.Context, userID, id uuid.UUID) error
}

// SetService manages sets.
type SetService struct {
	repo SetRepository
}

// NewSetService creates a new SetService.
func NewSetService(repo SetRepository) *SetService {
	return &SetService{repo: repo}
}

// Create adds an empty, uncompleted set to one of the user's instances.
func (s *SetService) Create(ctx context.Context, userID, instanceID uuid.UUID) (*domain.Set, error) {
	set := &domain.Set{
		UserID:             userID,
		ExerciseInstanceID: instanceID,
	}
	if err := s.repo.CreateSet(ctx, set); err != nil {
		return nil, withField(err, domain.ErrInstanceNotFound, "exercise_instance_id")
	}
	return set, nil
}

// Get returns one of the user's sets.
func (s *SetService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Set, error) {
	return s.repo.GetSet(ctx, userID, id)
}

// Edit applies a partial update to one of the user's sets.
func (s *SetService) Edit(ctx context.Context, userID, id uuid.UUID, patch domain.SetPatch) (*domain.Set, error) {
	set, err := s.repo.GetSet(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(set)
	if err := s.repo.UpdateSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Delete removes one of the user's sets and returns its id.
func (s *SetService) Delete(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error) {
	if err := s.repo.DeleteSet(ctx, userID, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
