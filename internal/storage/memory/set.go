package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

func (s *Store) CreateSet(_ context.Context, set *domain.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[set.ExerciseInstanceID]
	if !ok || inst.UserID != set.UserID {
		return domain.ErrInstanceNotFound
	}
	*set = domain.Set{
		ID:                 uuid.New(),
		UserID:             set.UserID,
		ExerciseInstanceID: set.ExerciseInstanceID,
		Created:            s.now(),
	}
	c := *set
	s.sets[set.ID] = &c
	return nil
}

func (s *Store) GetSet(_ context.Context, userID, id uuid.UUID) (*domain.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok || set.UserID != userID {
		return nil, domain.ErrSetNotFound
	}
	c := *set
	return &c, nil
}

func (s *Store) UpdateSet(_ context.Context, set *domain.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sets[set.ID]
	if !ok || existing.UserID != set.UserID {
		return domain.ErrSetNotFound
	}
	if set.Reps != nil && *set.Reps < 0 {
		return domain.ErrValidation
	}
	existing.Weight = set.Weight
	existing.Reps = set.Reps
	existing.Completed = set.Completed
	return nil
}

func (s *Store) DeleteSet(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[id]
	if !ok || set.UserID != userID {
		return domain.ErrSetNotFound
	}
	delete(s.sets, id)
	return nil
}
