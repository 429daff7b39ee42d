package constants

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{CodeSuccess, http.StatusOK},
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeMissingAuth, http.StatusUnauthorized},
		{CodeInvalidToken, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeInsufficientPerms, http.StatusForbidden},
		{CodeEndpointNotFound, http.StatusNotFound},
		{CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{CodeEmailTaken, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternalError, http.StatusInternalServerError},
		{CodeUpstreamError, http.StatusBadGateway},
		{CodeRedisUnavailable, http.StatusServiceUnavailable},
		{CodeUpstreamTimeout, http.StatusGatewayTimeout},
		{99999, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatusFromCode(tt.code), "code %d", tt.code)
	}
}

func TestCodeStatusRoundTrip(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 405, 409, 429, 500, 502, 503, 504} {
		assert.Equal(t, status, GetHTTPStatusFromCode(GetCodeFromHTTPStatus(status)))
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "Access denied", GetErrorMessage(CodeInsufficientPerms))
	assert.Equal(t, "Unknown error", GetErrorMessage(12345))
}

func TestRequestIDFromHeaders(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"none", nil, ""},
		{"primary", map[string]string{HeaderRequestID: "a", HeaderCorrelationID: "b"}, "a"},
		{"correlation", map[string]string{HeaderCorrelationID: "b", HeaderRequestIDShort: "c"}, "b"},
		{"short", map[string]string{HeaderRequestIDShort: "c"}, "c"},
		{"too long", map[string]string{HeaderRequestID: strings.Repeat("a", MaxRequestIDLength+1)}, ""},
		{"odd charset", map[string]string{HeaderRequestID: "id with spaces"}, ""},
		{"rejected primary falls through", map[string]string{HeaderRequestID: "<script>", HeaderCorrelationID: "corr-1"}, "corr-1"},
		{"max length", map[string]string{HeaderRequestID: strings.Repeat("a", MaxRequestIDLength)}, strings.Repeat("a", MaxRequestIDLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.want, RequestIDFromHeaders(c))
		})
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, ValidRequestID("req-1700000000-0a1b2c3d"))
	assert.True(t, ValidRequestID("A.b_c-9"))
	assert.False(t, ValidRequestID(""))
	assert.False(t, ValidRequestID("a/b"))
	assert.False(t, ValidRequestID("line\nbreak"))
	assert.False(t, ValidRequestID(strings.Repeat("x", MaxRequestIDLength+1)))
}

func TestQueues(t *testing.T) {
	assert.True(t, IsValidQueue(QueueCritical))
	assert.False(t, IsValidQueue("bogus"))
	assert.Greater(t, GetQueuePriority(QueueCritical), GetQueuePriority(QueueLow))
}
