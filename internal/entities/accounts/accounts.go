package accounts

import "github.com/benedict-erwin/auth-gateway/internal/repository/users"

type (
	// RegisterRequest is the body of POST /auth/register
	RegisterRequest struct {
		Username string `json:"username" validate:"required,min=3,max=64"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}

	// RegisterResponse is returned with 201 Created
	RegisterResponse struct {
		Message string        `json:"message"`
		User    users.Profile `json:"user"`
	}

	// LoginRequest is the body of POST /auth/login
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	// LoginResponse carries the issued bearer token
	LoginResponse struct {
		AccessToken string        `json:"access_token"`
		TokenType   string        `json:"token_type"`
		ExpiresIn   int64         `json:"expires_in"`
		User        users.Profile `json:"user"`
	}

	// ValidateResponse describes the principal behind a valid token
	ValidateResponse struct {
		Valid    bool   `json:"valid"`
		Username string `json:"username"`
		Role     string `json:"role"`
		Message  string `json:"message"`
	}
)

// TokenTypeBearer is the token_type of every login response
const TokenTypeBearer = "Bearer"
