package response

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

// Buffer pool for high-performance JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// getBuffer gets a buffer from pool
func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns buffer to pool (only if not too large)
func putBuffer(buf *bytes.Buffer) {
	// Prevent memory leak from oversized buffers (>64KB)
	const maxBufferSize = 64 * 1024
	if buf.Cap() < maxBufferSize {
		bufferPool.Put(buf)
	}
}

// fastJSON performs high-performance JSON serialization with buffer pooling
func fastJSON(c echo.Context, code int, obj interface{}) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(obj); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	c.Response().WriteHeader(code)
	_, err := c.Response().Write(buf.Bytes())
	return err
}

// Response is the envelope for successful operational endpoints
type Response struct {
	Success   bool   `json:"success"`
	Code      int    `json:"code"`
	Data      any    `json:"data"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ErrorPayload is the body of every authentication and authorization failure
type ErrorPayload struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// getReqId extracts request ID from Echo context
func getReqId(c echo.Context) string {
	return constants.GetRequestID(c)
}

// JSON writes obj as-is with the given status
func JSON(c echo.Context, httpStatus int, obj any) error {
	return fastJSON(c, httpStatus, obj)
}

// Success returns a successful response with data
func Success(c echo.Context, data any) error {
	return fastJSON(c, http.StatusOK, Response{
		Success:   true,
		Code:      constants.CodeSuccess,
		Data:      data,
		Message:   "Successful",
		RequestID: getReqId(c),
	})
}

// General returns a customizable response
func General(c echo.Context, httpStatus int, code int, data any, message string) error {
	return fastJSON(c, httpStatus, Response{
		Success:   httpStatus < 400,
		Code:      code,
		Data:      data,
		Message:   message,
		RequestID: getReqId(c),
	})
}

// Error writes the error payload. The error field is the status reason phrase.
func Error(c echo.Context, httpStatus int, message string) error {
	return writeError(c, httpStatus, constants.GetCodeFromHTTPStatus(httpStatus), message)
}

// FailWithCode writes the error payload using the standard message for code
func FailWithCode(c echo.Context, code int) error {
	return writeError(c, constants.GetHTTPStatusFromCode(code), code, constants.GetErrorMessage(code))
}

// FailWithCodeAndMessage writes the error payload with a custom message
func FailWithCodeAndMessage(c echo.Context, code int, customMessage string) error {
	return writeError(c, constants.GetHTTPStatusFromCode(code), code, customMessage)
}

// Unauthorized writes a 401 payload for a 41xxx code
func Unauthorized(c echo.Context, code int) error {
	return writeError(c, http.StatusUnauthorized, code, constants.GetErrorMessage(code))
}

// Forbidden writes a 403 payload for a 43xxx code
func Forbidden(c echo.Context, code int) error {
	return writeError(c, http.StatusForbidden, code, constants.GetErrorMessage(code))
}

func writeError(c echo.Context, httpStatus, code int, message string) error {
	return fastJSON(c, httpStatus, ErrorPayload{
		Error:     http.StatusText(httpStatus),
		Message:   message,
		Status:    httpStatus,
		Timestamp: utils.NowFormatted(),
		Code:      code,
		RequestID: getReqId(c),
	})
}
