package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	entity "github.com/benedict-erwin/auth-gateway/internal/entities/accounts"
	"github.com/benedict-erwin/auth-gateway/internal/repository/users"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/password"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordHasher is the part of *password.Hasher the service depends on
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// TokenIssuer is the part of *auth.Issuer the service depends on
type TokenIssuer interface {
	Issue(subject, email string, role auth.Role) (string, error)
	TTL() time.Duration
}

// Service registers accounts and exchanges credentials for tokens
type Service struct {
	users  users.Store
	hasher PasswordHasher
	issuer TokenIssuer
	// hash compared against when the email is unknown, so both failures cost one bcrypt run
	dummyHash string
}

// NewService wires the account service
func NewService(store users.Store, hasher PasswordHasher, issuer TokenIssuer) (*Service, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &Service{users: store, hasher: hasher, issuer: issuer, dummyHash: dummy}, nil
}

// Register creates a USER account. It fails with users.ErrEmailTaken when the
// email is already registered.
func (s *Service) Register(ctx context.Context, req entity.RegisterRequest) (*users.User, error) {
	return s.create(ctx, req, auth.RoleUser)
}

// CreateWithRole creates an account with an explicit role, used by the CLI to seed admins
func (s *Service) CreateWithRole(ctx context.Context, req entity.RegisterRequest, role auth.Role) (*users.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", auth.ErrUnknownRole, role)
	}
	return s.create(ctx, req, role)
}

func (s *Service) create(ctx context.Context, req entity.RegisterRequest, role auth.Role) (*users.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, users.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &users.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues a token for the account
func (s *Service) Login(ctx context.Context, req entity.LoginRequest) (*entity.LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, users.ErrUserNotFound) {
		_ = s.hasher.Verify(s.dummyHash, req.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.issuer.Issue(u.Username, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &entity.LoginResponse{
		AccessToken: token,
		TokenType:   entity.TokenTypeBearer,
		ExpiresIn:   int64(s.issuer.TTL().Seconds()),
		User:        u.Profile(),
	}, nil
}

// Lookup returns the account registered under email
func (s *Service) Lookup(ctx context.Context, email string) (*users.User, error) {
	return s.users.FindByEmail(ctx, email)
}
