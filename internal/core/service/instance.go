package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// InstanceRepository defines the storage interface for exercise instances.
// Instances are returned with their sets, ordered by creation.
type InstanceRepository interface {
	// CreateInstance inserts an instance. A session or exercise that
	// disappeared concurrently surfaces as the matching NotFound error.
	CreateInstance(ctx context.Context, i *domain.ExerciseInstance) error

	GetInstance(ctx context.Context, userID, id uuid.UUID) (*domain.ExerciseInstance, error)
	ListInstancesBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]domain.ExerciseInstance, error)

	// UpdateInstance writes exercise_id and comments.
	UpdateInstance(ctx context.Context, i *domain.ExerciseInstance) error

	DeleteInstance(ctx context.Context, userID, id uuid.UUID) error

	// AppendComment adds a comment and returns the resulting list.
	AppendComment(ctx context.Context, userID, id uuid.UUID, comment string) ([]string, error)

	// ReplaceComment overwrites the comment at a zero-based index.
	// Returns domain.ErrCommentNotFound when the index is out of range.
	ReplaceComment(ctx context.Context, userID, id uuid.UUID, index int, comment string) ([]string, error)

	// RemoveComment deletes the comment at a zero-based index.
	// Returns domain.ErrCommentNotFound when the index is out of range.
	RemoveComment(ctx context.Context, userID, id uuid.UUID, index int) ([]string, error)
}

// InstancePatch describes a partial update of an exercise instance.
type InstancePatch struct {
	ExerciseID *uuid.UUID
	Comments   *[]string
}

// InstanceService manages exercise instances and their comments.
type InstanceService struct {
	repo      InstanceRepository
	sessions  SessionRepository
	exercises ExerciseRepository
}

// NewInstanceService creates a new InstanceService.
func NewInstanceService(repo InstanceRepository, sessions SessionRepository, exercises ExerciseRepository) *InstanceService {
	return &InstanceService{repo: repo, sessions: sessions, exercises: exercises}
}

// Create adds an exercise to one of the user's sessions.
//
// Session and exercise ownership are checked before the insert; the three
// statements are not atomic, a concurrent delete fails the insert instead.
func (s *InstanceService) Create(ctx context.Context, userID, sessionID, exerciseID uuid.UUID) (*domain.ExerciseInstance, error) {
	if _, err := s.sessions.GetSession(ctx, userID, sessionID); err != nil {
		return nil, withField(err, domain.ErrSessionNotFound, "session_id")
	}
	if _, err := s.exercises.GetExercise(ctx, userID, exerciseID); err != nil {
		return nil, withField(err, domain.ErrExerciseNotFound, "exercise_id")
	}

	inst := &domain.ExerciseInstance{
		UserID:     userID,
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		Comments:   []string{},
		Sets:       []domain.Set{},
	}
	if err := s.repo.CreateInstance(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Get returns one of the user's exercise instances with its sets.
func (s *InstanceService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.ExerciseInstance, error) {
	return s.repo.GetInstance(ctx, userID, id)
}

// ListBySession returns the instances of one of the user's sessions.
func (s *InstanceService) ListBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]domain.ExerciseInstance, error) {
	if _, err := s.sessions.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	instances, err := s.repo.ListInstancesBySession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if instances == nil {
		instances = []domain.ExerciseInstance{}
	}
	return instances, nil
}

// Edit changes the exercise and/or replaces the comments of an instance.
func (s *InstanceService) Edit(ctx context.Context, userID, id uuid.UUID, patch InstancePatch) (*domain.ExerciseInstance, error) {
	inst, err := s.repo.GetInstance(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.ExerciseID != nil {
		if _, err := s.exercises.GetExercise(ctx, userID, *patch.ExerciseID); err != nil {
			return nil, withField(err, domain.ErrExerciseNotFound, "exercise_id")
		}
		inst.ExerciseID = *patch.ExerciseID
	}
	if patch.Comments != nil {
		inst.Comments = append([]string{}, (*patch.Comments)...)
	}

	if err := s.repo.UpdateInstance(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Delete removes one of the user's instances with its sets.
func (s *InstanceService) Delete(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error) {
	if err := s.repo.DeleteInstance(ctx, userID, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AddComment appends a comment to an instance.
func (s *InstanceService) AddComment(ctx context.Context, userID, id uuid.UUID, comment string) (*domain.ExerciseInstance, error) {
	inst, err := s.repo.GetInstance(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.AppendComment(ctx, userID, id, comment)
	if err != nil {
		return nil, err
	}
	inst.Comments = comments
	return inst, nil
}

// EditComment overwrites the comment at index.
func (s *InstanceService) EditComment(ctx context.Context, userID, id uuid.UUID, index int, comment string) (*domain.ExerciseInstance, error) {
	inst, err := s.repo.GetInstance(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !inst.HasComment(index) {
		return nil, domain.ErrCommentNotFound.WithField("comment_index")
	}
	comments, err := s.repo.ReplaceComment(ctx, userID, id, index, comment)
	if err != nil {
		return nil, err
	}
	inst.Comments = comments
	return inst, nil
}

// DeleteComment removes the comment at index.
func (s *InstanceService) DeleteComment(ctx context.Context, userID, id uuid.UUID, index int) (*domain.ExerciseInstance, error) {
	inst, err := s.repo.GetInstance(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !inst.HasComment(index) {
		return nil, domain.ErrCommentNotFound.WithField("comment_index")
	}
	comments, err := s.repo.RemoveComment(ctx, userID, id, index)
	if err != nil {
		return nil, err
	}
	inst.Comments = comments
	return inst, nil
}

// withField attributes a NotFound error of the given kind to an input field.
// Other errors pass through unchanged.
func withField(err error, kind *domain.DomainError, field string) error {
	if errors.Is(err, kind) {
		return kind.WithField(field)
	}
	return err
}
