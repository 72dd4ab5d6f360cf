package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// SessionRepository defines the storage interface for workout sessions.
// Sessions are returned without their exercise instances.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.Session, error)
	UpdateSession(ctx context.Context, s *domain.Session) error

	// FinishSession sets the finished timestamp unless it is already set.
	FinishSession(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error)

	// DeleteSession removes the session with its instances and sets.
	DeleteSession(ctx context.Context, userID, id uuid.UUID) error
}

// SessionService manages workout sessions.
type SessionService struct {
	repo      SessionRepository
	instances InstanceRepository
}

// NewSessionService creates a new SessionService. The instance repository
// is used to load the nested exercise instances of a session.
func NewSessionService(repo SessionRepository, instances InstanceRepository) *SessionService {
	return &SessionService{repo: repo, instances: instances}
}

// Create starts a new session owned by userID.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, name string, description *string) (*domain.Session, error) {
	sess := &domain.Session{
		UserID:            userID,
		Name:              name,
		Description:       description,
		ExerciseInstances: []domain.ExerciseInstance{},
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns one of the user's sessions with instances and sets.
func (s *SessionService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	sess, err := s.repo.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadInstances(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// List returns all of the user's sessions with instances and sets.
func (s *SessionService) List(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	sessions, err := s.repo.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	for i := range sessions {
		if err := s.loadInstances(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// Edit applies a partial update to one of the user's sessions.
func (s *SessionService) Edit(ctx context.Context, userID, id uuid.UUID, patch domain.SessionPatch) (*domain.Session, error) {
	sess, err := s.repo.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(sess)
	if err := s.repo.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.loadInstances(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Finish marks one of the user's sessions as finished. Finishing twice
// keeps the first timestamp.
func (s *SessionService) Finish(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	sess, err := s.repo.FinishSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadInstances(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete removes one of the user's sessions and returns its id.
func (s *SessionService) Delete(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error) {
	if err := s.repo.DeleteSession(ctx, userID, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *SessionService) loadInstances(ctx context.Context, sess *domain.Session) error {
	instances, err := s.instances.ListInstancesBySession(ctx, sess.UserID, sess.ID)
	if err != nil {
		return err
	}
	if instances == nil {
		instances = []domain.ExerciseInstance{}
	}
	sess.ExerciseInstances = instances
	return nil
}
