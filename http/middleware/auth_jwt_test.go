package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testBypass = []string{"/auth/register", "/auth/login", "/health/*"}

func testAuthConfig() auth.Config {
	return auth.Config{
		SigningKey: []byte(testSecret),
		TTL:        24 * time.Hour,
		Issuer:     "auth-service",
		Audience:   "gateway",
		ClockSkew:  60 * time.Second,
	}
}

// stubValidator records calls and returns canned results
type stubValidator struct {
	calls    int
	checkErr error
	username string
	userErr  error
	role     auth.Role
	roleErr  error
}

func (s *stubValidator) Check(string) error {
	s.calls++
	return s.checkErr
}

func (s *stubValidator) ExtractUsername(string) (string, error) {
	return s.username, s.userErr
}

func (s *stubValidator) ExtractRole(string) (auth.Role, error) {
	return s.role, s.roleErr
}

func TestGateEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		header    string
		validator stubValidator
		want      GateState
		reached   bool
	}{
		{"bypass without header", "/auth/login", "", stubValidator{}, Bypassed, false},
		{"bypass ignores garbage header", "/auth/register", "Bearer garbage", stubValidator{checkErr: auth.ErrMalformedToken}, Bypassed, false},
		{"bypass prefix", "/health/ready", "Basic abc", stubValidator{}, Bypassed, false},
		{"missing header", "/auth/welcome", "", stubValidator{}, MissingHeader, false},
		{"basic scheme", "/auth/welcome", "Basic dXNlcjpwYXNz", stubValidator{}, MalformedHeader, false},
		{"lowercase scheme", "/auth/welcome", "bearer abc", stubValidator{}, MalformedHeader, false},
		{"no space", "/auth/welcome", "Bearerabc", stubValidator{}, MalformedHeader, false},
		{"scheme only", "/auth/welcome", "Bearer", stubValidator{}, MalformedHeader, false},
		{"empty token", "/auth/welcome", "Bearer ", stubValidator{}, MalformedHeader, false},
		{"validator rejects", "/auth/welcome", "Bearer abc", stubValidator{checkErr: auth.ErrExpired}, Invalid, true},
		{"double space reaches validator", "/auth/welcome", "Bearer  abc", stubValidator{checkErr: auth.ErrMalformedToken}, Invalid, true},
		{"username extraction fails", "/auth/welcome", "Bearer abc", stubValidator{userErr: errors.New("boom")}, Invalid, true},
		{"unknown role", "/auth/welcome", "Bearer abc", stubValidator{username: "alice", roleErr: auth.ErrUnknownRole}, Invalid, true},
		{"authenticated", "/auth/welcome", "Bearer abc", stubValidator{username: "alice", role: auth.RoleUser}, Authenticated, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.validator
			gate := NewGate(&v, testBypass)

			p, state := gate.Evaluate(tt.path, tt.header)
			assert.Equal(t, tt.want, state)
			assert.Equal(t, tt.reached, v.calls > 0, "validator reached")

			if state == Authenticated {
				assert.Equal(t, auth.NewPrincipal("alice", auth.RoleUser), p)
			} else {
				assert.Equal(t, auth.Principal{}, p)
			}
		})
	}
}

func TestGateStateCodes(t *testing.T) {
	assert.True(t, Bypassed.Forwards())
	assert.True(t, Authenticated.Forwards())
	assert.False(t, MissingHeader.Forwards())
	assert.False(t, MalformedHeader.Forwards())
	assert.False(t, Invalid.Forwards())

	assert.Equal(t, constants.CodeMissingAuth, MissingHeader.Code())
	assert.Equal(t, constants.CodeMissingAuth, MalformedHeader.Code())
	assert.Equal(t, constants.CodeInvalidToken, Invalid.Code())
	assert.Equal(t, "malformed_header", MalformedHeader.String())
}

func newTestServer(t *testing.T, now time.Time) (*echo.Echo, *auth.Issuer) {
	t.Helper()
	cfg := testAuthConfig()
	clock := auth.WithClock(func() time.Time { return now })

	iss, err := auth.NewIssuer(cfg, clock)
	require.NoError(t, err)
	v, err := auth.NewValidator(cfg, clock)
	require.NoError(t, err)

	e := echo.New()
	e.Use(Logger)
	e.Use(JWTAuthMiddleware(NewGate(v, testBypass)))

	e.POST("/auth/login", func(c echo.Context) error {
		_, ok := GetPrincipal(c)
		return c.JSON(http.StatusOK, map[string]bool{"principal": ok})
	})
	e.GET("/auth/welcome", func(c echo.Context) error {
		p, _ := GetPrincipal(c)
		return c.JSON(http.StatusOK, map[string]string{"username": p.Username, "authority": string(p.Authority)})
	}, RequireAuthority(auth.DeriveAuthority(auth.RoleUser)))
	e.GET("/admin/stats", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAuthority(auth.DeriveAuthority(auth.RoleAdmin)))

	return e, iss
}

func do(e *echo.Echo, method, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	e, iss := newTestServer(t, now)

	user, err := iss.Issue("alice", "alice@x.com", auth.RoleUser)
	require.NoError(t, err)
	admin, err := iss.Issue("root", "root@x.com", auth.RoleAdmin)
	require.NoError(t, err)
	expired, err := iss.IssueWithTTL("alice", "alice@x.com", auth.RoleUser, 0)
	require.NoError(t, err)

	// age the zero-TTL token past the skew window
	lateServer, _ := newTestServer(t, now.Add(2*time.Minute))

	t.Run("authenticated user", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/auth/welcome", "Bearer "+user)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "ROLE_USER", body["authority"])
	})

	t.Run("bypass with garbage header", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/auth/login", "Bearer not-a-token")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"principal":false}`, rec.Body.String())
	})

	t.Run("forbidden for wrong authority", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/admin/stats", "Bearer "+user)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var p response.ErrorPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "Forbidden", p.Error)
		assert.Equal(t, 403, p.Status)
	})

	t.Run("admin does not hold user authority", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/auth/welcome", "Bearer "+admin).Code)
		assert.Equal(t, http.StatusNoContent, do(e, http.MethodGet, "/admin/stats", "Bearer "+admin).Code)
	})

	rejections := []struct {
		name   string
		server *echo.Echo
		header string
		code   int
	}{
		{"missing header", e, "", constants.CodeMissingAuth},
		{"wrong scheme", e, "Token " + user, constants.CodeMissingAuth},
		{"garbage token", e, "Bearer abc.def.ghi", constants.CodeInvalidToken},
		{"expired token", lateServer, "Bearer " + expired, constants.CodeInvalidToken},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(tt.server, http.MethodGet, "/auth/welcome", tt.header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var p response.ErrorPayload
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, "Unauthorized", p.Error)
			assert.Equal(t, 401, p.Status)
			assert.Equal(t, tt.code, p.Code)
			assert.NotEmpty(t, p.Timestamp)
			assert.NotEmpty(t, p.RequestID)
		})
	}
}

func TestRejectionLogsCauseWithoutToken(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(&bytes.Buffer{})

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	_, iss := newTestServer(t, now)
	token, err := iss.IssueWithTTL("alice", "alice@x.com", auth.RoleUser, 0)
	require.NoError(t, err)

	late, _ := newTestServer(t, now.Add(time.Hour))
	rec := do(late, http.MethodGet, "/auth/welcome", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	logs := buf.String()
	assert.Contains(t, logs, "Authentication rejected")
	assert.Contains(t, logs, auth.ErrExpired.Error())
	assert.False(t, strings.Contains(logs, token), "token leaked into logs")
	assert.False(t, strings.Contains(rec.Body.String(), auth.ErrExpired.Error()), "cause leaked to client")
}

func TestRequireAuthorityWithoutPrincipal(t *testing.T) {
	e := echo.New()
	e.GET("/open", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAuthority(auth.DeriveAuthority(auth.RoleUser)))

	rec := do(e, http.MethodGet, "/open", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoggerSetsRequestID(t *testing.T) {
	e := echo.New()
	e.Use(Logger)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, constants.GetRequestID(c))
	})

	rec := do(e, http.MethodGet, "/ping", "")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "req-"))
	assert.Equal(t, rec.Body.String(), rec.Header().Get(constants.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderCorrelationID, "corr-42")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "corr-42", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, strings.Repeat("x", constants.MaxRequestIDLength+1))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "req-"))
	assert.Equal(t, rec.Body.String(), rec.Header().Get(constants.HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, "evil id;drop")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.NotContains(t, rec.Body.String(), "evil")
	assert.NotContains(t, rec.Header().Get(constants.HeaderRequestID), "evil")
}
