package constants

import "net/http"

// Error Code Categories
// Format: XYZAB where:
// XYZ = HTTP status family (400 -> 40, 401 -> 41, 403 -> 43, ...)
// AB = Specific error (00-99)

const (
	// SUCCESS CODES (0xxxx)
	CodeSuccess = 0

	// CLIENT ERROR CODES (4xxxx)
	// 400 Bad Request (40xxx)
	CodeBadRequest       = 40000 // Generic bad request
	CodeInvalidJSON      = 40001 // Invalid JSON payload
	CodeValidationFailed = 40002 // Validation failed

	// 401 Unauthorized (41xxx)
	CodeUnauthorized       = 41000 // Generic unauthorized
	CodeMissingAuth        = 41001 // Missing Authorization header
	CodeInvalidToken       = 41002 // Token failed validation or header is malformed
	CodeInvalidCredentials = 41003 // Login with unknown email or wrong password

	// 403 Forbidden (43xxx)
	CodeForbidden         = 43000 // Generic forbidden
	CodeInsufficientPerms = 43001 // Principal lacks the required authority

	// 404 Not Found (44xxx)
	CodeNotFound         = 44000 // Generic not found
	CodeEndpointNotFound = 44002 // Endpoint not found

	// 405 Method Not Allowed (45xxx)
	CodeMethodNotAllowed = 45000

	// 409 Conflict (49xxx)
	CodeConflict   = 49000 // Generic conflict
	CodeEmailTaken = 49001 // Email already registered

	// 429 Too Many Requests (42xxx)
	CodeRateLimit = 42900 // Rate limit exceeded

	// SERVER ERROR CODES (5xxxx)
	// 500 Internal Server Error (50xxx)
	CodeInternalError      = 50000 // Generic internal error
	CodeRedisError         = 50003 // Redis error
	CodeJobProcessingError = 50004 // Job processing error
	CodeConfigurationError = 50005 // Configuration error

	// 502 Bad Gateway (52xxx)
	CodeBadGateway    = 52000 // Generic bad gateway
	CodeUpstreamError = 52001 // Upstream service error

	// 503 Service Unavailable (53xxx)
	CodeServiceUnavailable = 53000 // Generic service unavailable
	CodeRedisUnavailable   = 53002 // Redis unavailable

	// 504 Gateway Timeout (54xxx)
	CodeGatewayTimeout  = 54000 // Generic gateway timeout
	CodeUpstreamTimeout = 54001 // Upstream timeout
)

// Error Code Messages - client-facing, never carry internals
var ErrorMessages = map[int]string{
	CodeSuccess: "Success",

	CodeBadRequest:       "Bad request",
	CodeInvalidJSON:      "Invalid JSON payload",
	CodeValidationFailed: "Validation failed",

	CodeUnauthorized:       "Unauthorized",
	CodeMissingAuth:        "Missing or invalid Authorization header",
	CodeInvalidToken:       "Invalid or expired JWT token",
	CodeInvalidCredentials: "Invalid email or password",

	CodeForbidden:         "Forbidden",
	CodeInsufficientPerms: "Access denied",

	CodeNotFound:         "Not found",
	CodeEndpointNotFound: "Endpoint not found",

	CodeMethodNotAllowed: "Method not allowed",

	CodeConflict:   "Conflict",
	CodeEmailTaken: "Email already exists",

	CodeRateLimit: "Rate limit exceeded",

	CodeInternalError:      "Internal server error",
	CodeRedisError:         "Redis error",
	CodeJobProcessingError: "Job processing error",
	CodeConfigurationError: "Configuration error",

	CodeBadGateway:    "Bad gateway",
	CodeUpstreamError: "Upstream service error",

	CodeServiceUnavailable: "Service unavailable",
	CodeRedisUnavailable:   "Redis unavailable",

	CodeGatewayTimeout:  "Gateway timeout",
	CodeUpstreamTimeout: "Upstream timeout",
}

// GetErrorMessage returns the standard message for an error code
func GetErrorMessage(code int) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "Unknown error"
}

// GetHTTPStatusFromCode returns the appropriate HTTP status code based on error code
func GetHTTPStatusFromCode(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code >= 40000 && code < 41000:
		return http.StatusBadRequest
	case code >= 41000 && code < 42000:
		return http.StatusUnauthorized
	case code >= 42900 && code < 43000:
		return http.StatusTooManyRequests
	case code >= 42000 && code < 42900:
		return http.StatusUnprocessableEntity
	case code >= 43000 && code < 44000:
		return http.StatusForbidden
	case code >= 44000 && code < 45000:
		return http.StatusNotFound
	case code >= 45000 && code < 46000:
		return http.StatusMethodNotAllowed
	case code >= 49000 && code < 50000:
		return http.StatusConflict
	case code >= 50000 && code < 51000:
		return http.StatusInternalServerError
	case code >= 52000 && code < 53000:
		return http.StatusBadGateway
	case code >= 53000 && code < 54000:
		return http.StatusServiceUnavailable
	case code >= 54000 && code < 55000:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetCodeFromHTTPStatus maps a bare HTTP status to its generic error code
func GetCodeFromHTTPStatus(status int) int {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeEndpointNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimit
	case http.StatusBadGateway:
		return CodeBadGateway
	case http.StatusServiceUnavailable:
		return CodeServiceUnavailable
	case http.StatusGatewayTimeout:
		return CodeGatewayTimeout
	default:
		return CodeInternalError
	}
}
