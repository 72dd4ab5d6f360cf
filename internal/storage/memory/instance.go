package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

func (s *Store) CreateInstance(_ context.Context, i *domain.ExerciseInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[i.SessionID]; !ok || sess.UserID != i.UserID {
		return domain.ErrSessionNotFound.WithField("session_id")
	}
	if e, ok := s.exercises[i.ExerciseID]; !ok || e.UserID != i.UserID {
		return domain.ErrExerciseNotFound.WithField("exercise_id")
	}

	i.ID = uuid.New()
	i.Created = s.now()
	if i.Comments == nil {
		i.Comments = []string{}
	}
	i.Sets = []domain.Set{}

	c := *i
	c.Comments = append([]string{}, i.Comments...)
	c.Sets = nil
	s.instances[i.ID] = &c
	return nil
}

// withSets copies inst and attaches its sets in creation order.
// Callers hold at least the read lock.
func (s *Store) withSets(inst *domain.ExerciseInstance) domain.ExerciseInstance {
	c := *inst
	c.Comments = append([]string{}, inst.Comments...)
	c.Sets = []domain.Set{}
	for _, set := range s.sets {
		if set.ExerciseInstanceID == inst.ID {
			c.Sets = append(c.Sets, *set)
		}
	}
	sort.Slice(c.Sets, func(a, b int) bool { return c.Sets[a].Created.Before(c.Sets[b].Created) })
	return c
}

func (s *Store) GetInstance(_ context.Context, userID, id uuid.UUID) (*domain.ExerciseInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.instances[id]
	if !ok || inst.UserID != userID {
		return nil, domain.ErrInstanceNotFound
	}
	c := s.withSets(inst)
	return &c, nil
}

func (s *Store) ListInstancesBySession(_ context.Context, userID, sessionID uuid.UUID) ([]domain.ExerciseInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ExerciseInstance{}
	for _, inst := range s.instances {
		if inst.UserID == userID && inst.SessionID == sessionID {
			out = append(out, s.withSets(inst))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (s *Store) UpdateInstance(_ context.Context, i *domain.ExerciseInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.instances[i.ID]
	if !ok || existing.UserID != i.UserID {
		return domain.ErrInstanceNotFound
	}
	if e, ok := s.exercises[i.ExerciseID]; !ok || e.UserID != i.UserID {
		return domain.ErrExerciseNotFound.WithField("exercise_id")
	}
	existing.ExerciseID = i.ExerciseID
	existing.Comments = append([]string{}, i.Comments...)
	return nil
}

func (s *Store) deleteInstanceLocked(id uuid.UUID) {
	delete(s.instances, id)
	for sid, set := range s.sets {
		if set.ExerciseInstanceID == id {
			delete(s.sets, sid)
		}
	}
}

func (s *Store) DeleteInstance(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok || inst.UserID != userID {
		return domain.ErrInstanceNotFound
	}
	s.deleteInstanceLocked(id)
	return nil
}

func (s *Store) AppendComment(_ context.Context, userID, id uuid.UUID, comment string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok || inst.UserID != userID {
		return nil, domain.ErrInstanceNotFound
	}
	inst.Comments = append(inst.Comments, comment)
	return append([]string{}, inst.Comments...), nil
}

func (s *Store) ReplaceComment(_ context.Context, userID, id uuid.UUID, index int, comment string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok || inst.UserID != userID {
		return nil, domain.ErrInstanceNotFound
	}
	if !inst.HasComment(index) {
		return nil, domain.ErrCommentNotFound.WithField("comment_index")
	}
	inst.Comments[index] = comment
	return append([]string{}, inst.Comments...), nil
}

func (s *Store) RemoveComment(_ context.Context, userID, id uuid.UUID, index int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok || inst.UserID != userID {
		return nil, domain.ErrInstanceNotFound
	}
	if !inst.HasComment(index) {
		return nil, domain.ErrCommentNotFound.WithField("comment_index")
	}
	inst.Comments = append(inst.Comments[:index:index], inst.Comments[index+1:]...)
	return append([]string{}, inst.Comments...), nil
}
