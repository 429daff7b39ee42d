package users

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore puts a bounded, expiring LRU in front of FindByEmail.
// Only hits are cached, so a fresh registration is visible immediately.
type CachedStore struct {
	Store
	byEmail *lru.LRU[string, User]
}

// NewCachedStore wraps next with a cache of size entries living for ttl
func NewCachedStore(next Store, size int, ttl time.Duration) *CachedStore {
	if size <= 0 {
		size = 1024
	}
	return &CachedStore{
		Store:   next,
		byEmail: lru.NewLRU[string, User](size, nil, ttl),
	}
}

// FindByEmail serves from cache when possible
func (s *CachedStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	key := NormalizeEmail(email)
	if u, ok := s.byEmail.Get(key); ok {
		return &u, nil
	}

	u, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	s.byEmail.Add(key, *u)
	return u, nil
}

// Create writes through and drops any stale entry for the email
func (s *CachedStore) Create(ctx context.Context, u *User) error {
	if err := s.Store.Create(ctx, u); err != nil {
		return err
	}
	s.byEmail.Remove(NormalizeEmail(u.Email))
	return nil
}

// Len returns the number of cached entries
func (s *CachedStore) Len() int {
	return s.byEmail.Len()
}
