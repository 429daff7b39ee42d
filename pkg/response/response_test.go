package response

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/welcome", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(constants.RequestIDKey, "req-1")
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorPayload {
	t.Helper()
	var p ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestUnauthorized(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Unauthorized(c, constants.CodeInvalidToken))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, echo.MIMEApplicationJSONCharsetUTF8, rec.Header().Get(echo.HeaderContentType))

	p := decodeError(t, rec)
	assert.Equal(t, "Unauthorized", p.Error)
	assert.Equal(t, "Invalid or expired JWT token", p.Message)
	assert.Equal(t, 401, p.Status)
	assert.Equal(t, constants.CodeInvalidToken, p.Code)
	assert.Equal(t, "req-1", p.RequestID)

	_, err := time.Parse(time.RFC3339, p.Timestamp)
	assert.NoError(t, err)
}

func TestForbidden(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Forbidden(c, constants.CodeInsufficientPerms))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	p := decodeError(t, rec)
	assert.Equal(t, "Forbidden", p.Error)
	assert.Equal(t, "Access denied", p.Message)
	assert.Equal(t, 403, p.Status)
}

func TestErrorWithStatus(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, http.StatusNotFound, "Endpoint not found"))

	p := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", p.Error)
	assert.Equal(t, constants.CodeEndpointNotFound, p.Code)
}

func TestErrorPayloadFields(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, FailWithCode(c, constants.CodeEmailTaken))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"error", "message", "status", "timestamp"} {
		assert.Contains(t, raw, key)
	}
}

func TestSuccess(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Success(c, map[string]string{"status": "ok"}))

	var r Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.True(t, r.Success)
	assert.Equal(t, "req-1", r.RequestID)
}
