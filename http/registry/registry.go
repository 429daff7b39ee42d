package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/internal/app"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

// SetupFunc mounts routes for one service role
type SetupFunc func(g *echo.Group, deps *app.Dependencies)

var (
	mu              sync.Mutex
	serviceRegistry = make(map[string][]SetupFunc)
)

// Register adds a route setup for a service role ("auth-service", "gateway").
// Use "*" for routes shared by every role.
func Register(service string, setup SetupFunc) {
	mu.Lock()
	defer mu.Unlock()
	serviceRegistry[service] = append(serviceRegistry[service], setup)
}

// Services lists the roles that registered routes, sorted
func Services() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(serviceRegistry))
	for name := range serviceRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetupRoutes applies the shared routes and those of deps.Mode at the root
func SetupRoutes(e *echo.Echo, deps *app.Dependencies) {
	setupValidator(e)

	log := logger.WithScope("SetupRoutes")

	mu.Lock()
	setups := append([]SetupFunc(nil), serviceRegistry["*"]...)
	setups = append(setups, serviceRegistry[deps.Mode]...)
	mu.Unlock()

	if len(setups) == 0 {
		log.Warn().Str("service", deps.Mode).Msg("No routes registered for service")
		return
	}

	g := e.Group("")
	for _, setup := range setups {
		setup(g, deps)
	}
	log.Info().Str("service", deps.Mode).Int("setups", len(setups)).Msg("Routes registered")
}

// setupValidator configures request validation using go-playground/validator
func setupValidator(e *echo.Echo) {
	e.Validator = NewValidator()
}

// NewValidator returns the echo.Validator used by every handler.
// Field errors are reported under the JSON names clients send.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates struct fields using validator tags
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ValidationMessage turns a validation error into a client safe message that
// names the offending JSON fields without exposing Go types
func ValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return constants.GetErrorMessage(constants.CodeValidationFailed)
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fieldMessage(fe.Field(), fe.Tag(), fe.Param()))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

func fieldMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	default:
		return field + " is invalid"
	}
}
