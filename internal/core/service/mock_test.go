package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// mockStore is an in-memory implementation of every repository interface.
type mockStore struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*domain.User
	tokens    map[string]*domain.AccessToken
	exercises map[uuid.UUID]*domain.Exercise
	sessions  map[uuid.UUID]*domain.Session
	instances map[uuid.UUID]*domain.ExerciseInstance
	sets      map[uuid.UUID]*domain.Set

	// deleteMisses makes DeleteToken report zero affected rows.
	deleteMisses bool
	seq          time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[uuid.UUID]*domain.User),
		tokens:    make(map[string]*domain.AccessToken),
		exercises: make(map[uuid.UUID]*domain.Exercise),
		sessions:  make(map[uuid.UUID]*domain.Session),
		instances: make(map[uuid.UUID]*domain.ExerciseInstance),
		sets:      make(map[uuid.UUID]*domain.Set),
	}
}

// now returns strictly increasing timestamps so ordering by creation is stable.
func (m *mockStore) now() time.Time {
	m.seq += time.Millisecond
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(m.seq)
}

// --- users ---

func (m *mockStore) CreateUser(ctx context.Context, username, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return nil, domain.ErrUsernameTaken
		}
	}
	now := m.now()
	u := &domain.User{ID: uuid.New(), Created: now, Changed: now, Username: username, PasswordHash: hash}
	m.users[u.ID] = u
	c := *u
	return &c, nil
}

func (m *mockStore) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *mockStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockStore) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, other := range m.users {
		if other.Username == username && other.ID != id {
			return nil, domain.ErrUsernameTaken
		}
	}
	u.Username = username
	u.Changed = m.now()
	c := *u
	return &c, nil
}

func (m *mockStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.Changed = m.now()
	c := *u
	return &c, nil
}

func (m *mockStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	for k, t := range m.tokens {
		if t.UserID == id {
			delete(m.tokens, k)
		}
	}
	return nil
}

// --- tokens ---

func (m *mockStore) CreateToken(ctx context.Context, t *domain.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *t
	c.Token = ""
	m.tokens[t.TokenHash] = &c
	return nil
}

func (m *mockStore) GetValidToken(ctx context.Context, hash string) (*domain.AccessToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tokens[hash]
	if !ok || !t.Expires.After(time.Now()) {
		return nil, domain.ErrNoValidSession
	}
	c := *t
	return &c, nil
}

func (m *mockStore) DeleteToken(ctx context.Context, hash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteMisses {
		return 0, nil
	}
	if _, ok := m.tokens[hash]; !ok {
		return 0, nil
	}
	delete(m.tokens, hash)
	return 1, nil
}

// --- exercises ---

func (m *mockStore) CreateExercise(ctx context.Context, e *domain.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	c := *e
	m.exercises[e.ID] = &c
	return nil
}

func (m *mockStore) GetExercise(ctx context.Context, userID, id uuid.UUID) (*domain.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exercises[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrExerciseNotFound
	}
	c := *e
	return &c, nil
}

func (m *mockStore) ListExercises(ctx context.Context, userID uuid.UUID, kind *domain.ExerciseKind) ([]domain.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Exercise
	for _, e := range m.exercises {
		if e.UserID == userID && (kind == nil || e.Kind == *kind) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockStore) UpdateExercise(ctx context.Context, e *domain.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.exercises[e.ID]; !ok || existing.UserID != e.UserID {
		return domain.ErrExerciseNotFound
	}
	c := *e
	m.exercises[e.ID] = &c
	return nil
}

func (m *mockStore) DeleteExercise(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok || e.UserID != userID {
		return domain.ErrExerciseNotFound
	}
	for _, inst := range m.instances {
		if inst.ExerciseID == id {
			return domain.ErrExerciseInUse
		}
	}
	delete(m.exercises, id)
	return nil
}

// --- sessions ---

func (m *mockStore) CreateSession(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.Started = m.now()
	c := *s
	m.sessions[s.ID] = &c
	return nil
}

func (m *mockStore) GetSession(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	c := *s
	return &c, nil
}

func (m *mockStore) ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out, nil
}

func (m *mockStore) UpdateSession(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[s.ID]; !ok || existing.UserID != s.UserID {
		return domain.ErrSessionNotFound
	}
	c := *s
	m.sessions[s.ID] = &c
	return nil
}

func (m *mockStore) FinishSession(ctx context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	if s.Finished == nil {
		now := m.now()
		s.Finished = &now
	}
	c := *s
	return &c, nil
}

func (m *mockStore) DeleteSession(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	for iid, inst := range m.instances {
		if inst.SessionID == id {
			m.deleteInstanceLocked(iid)
		}
	}
	return nil
}

// --- instances ---

func (m *mockStore) CreateInstance(ctx context.Context, i *domain.ExerciseInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[i.SessionID]; !ok {
		return domain.ErrSessionNotFound.WithField("session_id")
	}
	i.ID = uuid.New()
	i.Created = m.now()
	c := *i
	c.Sets = nil
	m.instances[i.ID] = &c
	return nil
}

func (m *mockStore) withSets(inst domain.ExerciseInstance) domain.ExerciseInstance {
	inst.Comments = append([]string{}, inst.Comments...)
	inst.Sets = []domain.Set{}
	for _, s := range m.sets {
		if s.ExerciseInstanceID == inst.ID {
			inst.Sets = append(inst.Sets, *s)
		}
	}
	sort.Slice(inst.Sets, func(a, b int) bool { return inst.Sets[a].Created.Before(inst.Sets[b].Created) })
	return inst
}

func (m *mockStore) GetInstance(ctx context.Context, userID, id uuid.UUID) (*domain.ExerciseInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	if !ok || inst.UserID != userID {
		return nil, domain.ErrInstanceNotFound
	}
	c := m.withSets(*inst)
	return &c, nil
}

func (m *mockStore) ListInstancesBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]domain.ExerciseInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.ExerciseInstance
	for _, inst := range m.instances {
		if inst.UserID == userID && inst.SessionID == sessionID {
			out = append(out, m.withSets(*inst))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (m *mockStore) UpdateInstance(ctx context.Context, i *domain.ExerciseInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.instances[i.ID]
	if !ok || existing.UserID != i.UserID {
		return domain.ErrInstanceNotFound
	}
	existing.ExerciseID = i.ExerciseID
	existing.Comments = append([]string{}, i.Comments...)
	return nil
}

func (m *mockStore) deleteInstanceLocked(id uuid.UUID) {
	delete(m.instances, id)
	for sid, s := range m.sets {
		if s.ExerciseInstanceID == id {
			delete(m.sets, sid)
		}
	}
}

func (m *mockStore) DeleteInstance(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok || inst.UserID != userID {
		return domain.ErrInstanceNotFound
	}
	m.deleteInstanceLocked(id)
	return nil
}

func (m *mockStore) AppendComment(ctx context.Context, userID, id uuid.UUID, comment string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok || inst.UserID != userID {
		return nil, domain.ErrInstanceNotFound
	}
	inst.Comments = append(inst.Comments, comment)
	return append([]string{}, inst.Comments...), nil
}

func (m *mockStore) ReplaceComment(ctx context.Context, userID, id uuid.UUID, index int, comment string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok || inst.UserID != userID || index < 0 || index >= len(inst.Comments) {
		return nil, domain.ErrCommentNotFound
	}
	inst.Comments[index] = comment
	return append([]string{}, inst.Comments...), nil
}

func (m *mockStore) RemoveComment(ctx context.Context, userID, id uuid.UUID, index int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok || inst.UserID != userID || index < 0 || index >= len(inst.Comments) {
		return nil, domain.ErrCommentNotFound
	}
	inst.Comments = append(inst.Comments[:index:index], inst.Comments[index+1:]...)
	return append([]string{}, inst.Comments...), nil
}

// --- sets ---

func (m *mockStore) CreateSet(ctx context.Context, s *domain.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[s.ExerciseInstanceID]
	if !ok || inst.UserID != s.UserID {
		return domain.ErrInstanceNotFound
	}
	s.ID = uuid.New()
	s.Created = m.now()
	c := *s
	m.sets[s.ID] = &c
	return nil
}

func (m *mockStore) GetSet(ctx context.Context, userID, id uuid.UUID) (*domain.Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSetNotFound
	}
	c := *s
	return &c, nil
}

func (m *mockStore) UpdateSet(ctx context.Context, s *domain.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sets[s.ID]
	if !ok || existing.UserID != s.UserID {
		return domain.ErrSetNotFound
	}
	c := *s
	m.sets[s.ID] = &c
	return nil
}

func (m *mockStore) DeleteSet(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[id]
	if !ok || s.UserID != userID {
		return domain.ErrSetNotFound
	}
	delete(m.sets, id)
	return nil
}
