package users

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps users in process memory. Used by tests and users.store = memory.
type MemoryStore struct {
	mu         sync.RWMutex
	seq        int64
	byID       map[int64]*User
	byEmail    map[string]int64
	byUsername map[string]int64
	now        func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[int64]*User),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
		now:        time.Now,
	}
}

// Create assigns the next ID and stores a copy of u
func (s *MemoryStore) Create(_ context.Context, u *User) error {
	email := NormalizeEmail(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return ErrEmailTaken
	}

	s.seq++
	u.ID = s.seq
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}

	stored := *u
	s.byID[u.ID] = &stored
	s.byEmail[email] = u.ID
	if _, exists := s.byUsername[u.Username]; !exists {
		s.byUsername[u.Username] = u.ID
	}
	return nil
}

// FindByEmail returns a copy of the user registered under email
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

// FindByUsername returns a copy of the earliest user registered under username
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

// ExistsByEmail reports whether email is registered
func (s *MemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[NormalizeEmail(email)]
	return ok, nil
}
