package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

// Store holds every table behind one lock.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*domain.User
	usernames map[string]uuid.UUID
	tokens    map[string]*domain.AccessToken
	exercises map[uuid.UUID]*domain.Exercise
	sessions  map[uuid.UUID]*domain.Session
	instances map[uuid.UUID]*domain.ExerciseInstance
	sets      map[uuid.UUID]*domain.Set

	clock func() time.Time
	last  time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock sets the time source used for created/started timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		users:     make(map[uuid.UUID]*domain.User),
		usernames: make(map[string]uuid.UUID),
		tokens:    make(map[string]*domain.AccessToken),
		exercises: make(map[uuid.UUID]*domain.Exercise),
		sessions:  make(map[uuid.UUID]*domain.Session),
		instances: make(map[uuid.UUID]*domain.ExerciseInstance),
		sets:      make(map[uuid.UUID]*domain.Set),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now returns strictly increasing UTC timestamps with microsecond precision,
// so creation order is total. Callers hold the write lock.
func (s *Store) now() time.Time {
	t := s.clock().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// ============================================================================
// Users
// ============================================================================

func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[username]; taken {
		return nil, domain.ErrUsernameTaken.WithField("username")
	}
	now := s.now()
	u := &domain.User{ID: uuid.New(), Created: now, Changed: now, Username: username, PasswordHash: passwordHash}
	s.users[u.ID] = u
	s.usernames[username] = u.ID
	c := *u
	return &c, nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *s.users[id]
	return &c, nil
}

func (s *Store) UpdateUsername(_ context.Context, id uuid.UUID, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if owner, taken := s.usernames[username]; taken && owner != id {
		return nil, domain.ErrUsernameTaken.WithField("new_username")
	}
	delete(s.usernames, u.Username)
	u.Username = username
	u.Changed = s.now()
	s.usernames[username] = id
	c := *u
	return &c, nil
}

func (s *Store) UpdatePasswordHash(_ context.Context, id uuid.UUID, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.Changed = s.now()
	c := *u
	return &c, nil
}

// DeleteUser removes a user with every row they own.
func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.usernames, u.Username)
	delete(s.users, id)

	for k, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, k)
		}
	}
	for k, v := range s.sets {
		if v.UserID == id {
			delete(s.sets, k)
		}
	}
	for k, v := range s.instances {
		if v.UserID == id {
			delete(s.instances, k)
		}
	}
	for k, v := range s.sessions {
		if v.UserID == id {
			delete(s.sessions, k)
		}
	}
	for k, v := range s.exercises {
		if v.UserID == id {
			delete(s.exercises, k)
		}
	}
	return nil
}

// ============================================================================
// Access tokens
// ============================================================================

func (s *Store) CreateToken(_ context.Context, t *domain.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[t.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *t
	c.Token = ""
	s.tokens[t.TokenHash] = &c
	return nil
}

func (s *Store) GetValidToken(_ context.Context, tokenHash string) (*domain.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[tokenHash]
	if !ok || !t.Expires.After(s.clock()) {
		return nil, domain.ErrNoValidSession
	}
	c := *t
	return &c, nil
}

func (s *Store) DeleteToken(_ context.Context, tokenHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[tokenHash]; !ok {
		return 0, nil
	}
	delete(s.tokens, tokenHash)
	return 1, nil
}

// ============================================================================
// Exercises
// ============================================================================

func (s *Store) CreateExercise(_ context.Context, e *domain.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.New()
	c := *e
	s.exercises[e.ID] = &c
	return nil
}

func (s *Store) GetExercise(_ context.Context, userID, id uuid.UUID) (*domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exercises[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrExerciseNotFound
	}
	c := *e
	return &c, nil
}

func (s *Store) ListExercises(_ context.Context, userID uuid.UUID, kind *domain.ExerciseKind) ([]domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Exercise{}
	for _, e := range s.exercises {
		if e.UserID == userID && (kind == nil || e.Kind == *kind) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) UpdateExercise(_ context.Context, e *domain.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.exercises[e.ID]; !ok || existing.UserID != e.UserID {
		return domain.ErrExerciseNotFound
	}
	c := *e
	s.exercises[e.ID] = &c
	return nil
}

func (s *Store) DeleteExercise(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.exercises[id]
	if !ok || e.UserID != userID {
		return domain.ErrExerciseNotFound
	}
	for _, inst := range s.instances {
		if inst.ExerciseID == id {
			return domain.ErrExerciseInUse
		}
	}
	delete(s.exercises, id)
	return nil
}

// ============================================================================
// Sessions
// ============================================================================

func (s *Store) CreateSession(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.ID = uuid.New()
	sess.Started = s.now()
	c := *sess
	c.ExerciseInstances = nil
	s.sessions[sess.ID] = &c
	return nil
}

func (s *Store) GetSession(_ context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	c := *sess
	c.ExerciseInstances = []domain.ExerciseInstance{}
	return &c, nil
}

// ListSessions lists the user's sessions, most recent first.
func (s *Store) ListSessions(_ context.Context, userID uuid.UUID) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Session{}
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			c := *sess
			c.ExerciseInstances = []domain.ExerciseInstance{}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.After(out[j].Started) })
	return out, nil
}

func (s *Store) UpdateSession(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[sess.ID]
	if !ok || existing.UserID != sess.UserID {
		return domain.ErrSessionNotFound
	}
	existing.Name = sess.Name
	existing.Description = sess.Description
	return nil
}

func (s *Store) FinishSession(_ context.Context, userID, id uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	if !sess.IsFinished() {
		now := s.now()
		sess.Finished = &now
	}
	c := *sess
	c.ExerciseInstances = []domain.ExerciseInstance{}
	return &c, nil
}

func (s *Store) DeleteSession(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	for iid, inst := range s.instances {
		if inst.SessionID == id {
			s.deleteInstanceLocked(iid)
		}
	}
	return nil
}
