package users

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/benedict-erwin/auth-gateway/pkg/redis"
)

// Redis key layout
const (
	keySeq        = "users:seq"
	keyByID       = "users:id:"
	keyByEmail    = "users:email:"
	keyByUsername = "users:username:"
)

// pendingClaimTTL bounds how long an email stays reserved by a Create that
// never finished. The final index write clears the expiry.
const pendingClaimTTL = 30 * time.Second

// RedisStore persists users as JSON records with email and username indexes.
// Email uniqueness is claimed with SETNX before the record is written.
type RedisStore struct {
	client redis.Client
	now    func() time.Time
}

// NewRedisStore returns a store backed by client
func NewRedisStore(client redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Create claims the email, assigns an ID from users:seq and writes the record
func (s *RedisStore) Create(ctx context.Context, u *User) error {
	email := NormalizeEmail(u.Email)

	// reserve first so concurrent registrations for one email cannot both win
	claimed, err := s.client.SetNX(ctx, keyByEmail+email, "", pendingClaimTTL)
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return ErrEmailTaken
	}

	id, err := s.client.Incr(ctx, keySeq)
	if err != nil {
		_ = s.client.Delete(ctx, keyByEmail+email)
		return fmt.Errorf("failed to allocate user id: %w", err)
	}

	u.ID = id
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}

	idKey := keyByID + strconv.FormatInt(id, 10)
	if err := s.client.SetJSON(ctx, idKey, u, 0); err != nil {
		_ = s.client.Delete(ctx, keyByEmail+email)
		return fmt.Errorf("failed to store user: %w", err)
	}
	if err := s.client.Set(ctx, keyByEmail+email, id, 0); err != nil {
		_ = s.client.Delete(ctx, idKey, keyByEmail+email)
		return fmt.Errorf("failed to index user email: %w", err)
	}
	if _, err := s.client.SetNX(ctx, keyByUsername+u.Username, id, 0); err != nil {
		return fmt.Errorf("failed to index username: %w", err)
	}
	return nil
}

// FindByEmail resolves the email index and loads the record
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findByIndex(ctx, keyByEmail+NormalizeEmail(email))
}

// FindByUsername resolves the username index and loads the record
func (s *RedisStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findByIndex(ctx, keyByUsername+username)
}

// ExistsByEmail reports whether the email index holds the address
func (s *RedisStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.client.Exists(ctx, keyByEmail+NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (s *RedisStore) findByIndex(ctx context.Context, indexKey string) (*User, error) {
	raw, err := s.client.Get(ctx, indexKey)
	if redis.IsNil(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	// a claim without an id means Create is still in flight
	if raw == "" {
		return nil, ErrUserNotFound
	}

	u := &User{}
	err = s.client.GetJSON(ctx, keyByID+raw, u)
	if redis.IsNil(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}
