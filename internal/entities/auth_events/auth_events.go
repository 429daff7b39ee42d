package authevents

import (
	"time"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
)

// EventType names what happened to an account
type EventType string

const (
	EventRegister     EventType = "register"
	EventLoginSuccess EventType = "login_success"
	EventLoginFailure EventType = "login_failure"
)

// Event is the audit record of one authentication action. It never holds
// passwords, hashes or tokens.
type Event struct {
	Type      EventType `json:"type"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Queue returns the asynq queue the event is routed to
func (e Event) Queue() string {
	if e.Type == EventLoginFailure {
		return constants.QueueCritical
	}
	return constants.QueueDefault
}

// Severity is the log level name the worker records the event with
func (e Event) Severity() string {
	if e.Type == EventLoginFailure {
		return "warn"
	}
	return "info"
}
