package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// ExerciseRepository defines the storage interface for exercises.
// Every method is scoped to the owning user.
type ExerciseRepository interface {
	CreateExercise(ctx context.Context, e *domain.Exercise) error
	GetExercise(ctx context.Context, userID, id uuid.UUID) (*domain.Exercise, error)

	// ListExercises returns the user's exercises, optionally of one kind.
	ListExercises(ctx context.Context, userID uuid.UUID, kind *domain.ExerciseKind) ([]domain.Exercise, error)

	UpdateExercise(ctx context.Context, e *domain.Exercise) error

	// DeleteExercise returns domain.ErrExerciseInUse while an exercise
	// instance still references the exercise.
	DeleteExercise(ctx context.Context, userID, id uuid.UUID) error
}

// ExerciseService manages exercise definitions.
type ExerciseService struct {
	repo ExerciseRepository
}

// NewExerciseService creates a new ExerciseService.
func NewExerciseService(repo ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo}
}

// Create stores a new exercise owned by userID.
func (s *ExerciseService) Create(ctx context.Context, userID uuid.UUID, e *domain.Exercise) (*domain.Exercise, error) {
	e.UserID = userID
	if err := s.repo.CreateExercise(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns one of the user's exercises.
func (s *ExerciseService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Exercise, error) {
	return s.repo.GetExercise(ctx, userID, id)
}

// List returns the user's exercises. A nil kind lists all of them.
func (s *ExerciseService) List(ctx context.Context, userID uuid.UUID, kind *domain.ExerciseKind) ([]domain.Exercise, error) {
	exercises, err := s.repo.ListExercises(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}

// Edit applies a partial update to one of the user's exercises.
func (s *ExerciseService) Edit(ctx context.Context, userID, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	e, err := s.repo.GetExercise(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(e)
	if err := s.repo.UpdateExercise(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes one of the user's exercises and returns its id.
func (s *ExerciseService) Delete(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error) {
	if err := s.repo.DeleteExercise(ctx, userID, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
