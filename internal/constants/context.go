package constants

import "github.com/labstack/echo/v4"

// RequestIDKey stores the request id in the echo context
const RequestIDKey = "request_id"

// Inbound request id headers, most preferred first. The adopted id is logged,
// echoed to the client and forwarded to upstreams as X-Request-ID.
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderCorrelationID  = "X-Correlation-ID"
	HeaderRequestIDShort = "Request-ID"
)

// MaxRequestIDLength bounds a client supplied request id
const MaxRequestIDLength = 64

var requestIDHeaders = []string{HeaderRequestID, HeaderCorrelationID, HeaderRequestIDShort}

// RequestIDFromHeaders returns the first acceptable client supplied request id,
// or "" when none is present or every candidate is rejected
func RequestIDFromHeaders(c echo.Context) string {
	h := c.Request().Header
	for _, name := range requestIDHeaders {
		if id := h.Get(name); ValidRequestID(id) {
			return id
		}
	}
	return ""
}

// ValidRequestID accepts 1..MaxRequestIDLength characters from [A-Za-z0-9._-]
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '.', ch == '_', ch == '-':
		default:
			return false
		}
	}
	return true
}

// GetRequestID returns the id assigned by the access log middleware
func GetRequestID(c echo.Context) string {
	rid, _ := c.Get(RequestIDKey).(string)
	return rid
}
