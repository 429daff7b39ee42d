package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/http/middleware"
	"github.com/benedict-erwin/auth-gateway/http/registry"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	entity "github.com/benedict-erwin/auth-gateway/internal/entities/accounts"
	authevents "github.com/benedict-erwin/auth-gateway/internal/entities/auth_events"
	"github.com/benedict-erwin/auth-gateway/internal/repository/users"
	"github.com/benedict-erwin/auth-gateway/internal/services/accounts"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

// EventPublisher records auth events without failing the request
type EventPublisher interface {
	PublishEvent(ctx context.Context, event authevents.Event)
}

// AuthHandler serves the account endpoints of the auth-service
type AuthHandler struct {
	accounts *accounts.Service
	events   EventPublisher
}

func NewAuthHandler(svc *accounts.Service, events EventPublisher) *AuthHandler {
	return &AuthHandler{accounts: svc, events: events}
}

// Register creates a USER account
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.WithScope("auth.register")

	var req entity.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.FailWithCode(c, constants.CodeInvalidJSON)
	}
	if err := c.Validate(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeValidationFailed, registry.ValidationMessage(err))
	}

	u, err := h.accounts.Register(c.Request().Context(), req)
	if errors.Is(err, users.ErrEmailTaken) {
		return response.FailWithCode(c, constants.CodeEmailTaken)
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", constants.GetRequestID(c)).Msg("Registration failed")
		return response.FailWithCode(c, constants.CodeInternalError)
	}

	log.Info().Int64("user_id", u.ID).Str("request_id", constants.GetRequestID(c)).Msg("User registered")
	h.publish(c, authevents.EventRegister, u.Username, u.Email)

	return response.JSON(c, http.StatusCreated, entity.RegisterResponse{
		Message: "User registered successfully",
		User:    u.Profile(),
	})
}

// Login exchanges email and password for a bearer token. Unknown email and
// wrong password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.WithScope("auth.login")

	var req entity.LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.FailWithCode(c, constants.CodeInvalidJSON)
	}
	if err := c.Validate(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeValidationFailed, registry.ValidationMessage(err))
	}

	res, err := h.accounts.Login(c.Request().Context(), req)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		h.publish(c, authevents.EventLoginFailure, "", req.Email)
		return response.Unauthorized(c, constants.CodeInvalidCredentials)
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", constants.GetRequestID(c)).Msg("Login failed")
		return response.FailWithCode(c, constants.CodeInternalError)
	}

	h.publish(c, authevents.EventLoginSuccess, res.User.Username, res.User.Email)
	return response.JSON(c, http.StatusOK, res)
}

// Validate describes the principal the gate attached to the request
func (h *AuthHandler) Validate(c echo.Context) error {
	return ValidateToken(c)
}

// ValidateToken answers for any role that already passed the gate
func ValidateToken(c echo.Context) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, constants.CodeUnauthorized)
	}
	return response.JSON(c, http.StatusOK, entity.ValidateResponse{
		Valid:    true,
		Username: p.Username,
		Role:     p.Role.String(),
		Message:  "Token is valid",
	})
}

func (h *AuthHandler) publish(c echo.Context, t authevents.EventType, username, email string) {
	if h.events == nil {
		return
	}
	h.events.PublishEvent(c.Request().Context(), authevents.Event{
		Type:      t,
		Username:  username,
		Email:     users.NormalizeEmail(email),
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: constants.GetRequestID(c),
		Timestamp: utils.Now(),
	})
}
