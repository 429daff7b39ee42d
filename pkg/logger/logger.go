package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

var (
	log      zerolog.Logger
	location = time.UTC
)

// orderedJSONWriter ensures consistent field ordering in JSON output
type orderedJSONWriter struct {
	output io.Writer
}

// Write processes the log data and ensures proper field ordering
func (w *orderedJSONWriter) Write(p []byte) (n int, err error) {
	var logData map[string]interface{}
	if err := json.Unmarshal(p, &logData); err != nil {
		// If parsing fails, write as-is
		return w.output.Write(p)
	}

	var jsonParts []string

	// Field order: time, level, scope, message, then the rest sorted
	fieldOrder := []string{"time", "level", "scope", "message"}
	processedFields := make(map[string]bool, len(fieldOrder))

	for _, field := range fieldOrder {
		if value, exists := logData[field]; exists {
			jsonValue, _ := json.Marshal(value)
			jsonParts = append(jsonParts, fmt.Sprintf(`"%s":%s`, field, jsonValue))
			processedFields[field] = true
		}
	}

	rest := make([]string, 0, len(logData))
	for key := range logData {
		if !processedFields[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		jsonValue, _ := json.Marshal(logData[key])
		jsonParts = append(jsonParts, fmt.Sprintf(`"%s":%s`, key, jsonValue))
	}

	orderedJSON := "{" + strings.Join(jsonParts, ",") + "}\n"
	if _, err := w.output.Write([]byte(orderedJSON)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// init initializes default logger for early initialization
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(location)
	}
	build(os.Stdout, zerolog.InfoLevel)
}

func build(w io.Writer, level zerolog.Level) {
	log = zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(level)
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log
}

// Init configures the logger with timezone, environment and level settings
func Init(timezone, environment, level string) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
		log.Warn().Err(err).Str("timezone", timezone).Msg("Invalid timezone, using UTC")
	}
	location = loc

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	// Choose writer based on environment
	var writer io.Writer
	if environment == "prod" {
		// Production: direct output for performance
		writer = os.Stdout
	} else {
		// Development/staging: ordered output for readability
		writer = &orderedJSONWriter{output: os.Stdout}
	}

	build(writer, lvl)
	log.Info().
		Str("timezone", loc.String()).
		Str("environment", environment).
		Str("level", lvl.String()).
		Msg("Logger configured")
}

// SetOutput redirects the global logger, mainly for tests capturing log lines.
// Scoped loggers created earlier keep their old writer.
func SetOutput(w io.Writer) {
	build(w, log.GetLevel())
}

// Log returns a log event
func Log() *zerolog.Event {
	return log.Log()
}

// Debug returns an debug level log event
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info returns an info level log event
func Info() *zerolog.Event {
	return log.Info()
}

// Warn returns a warning level log event
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error returns an error level log event
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal returns a fatal level log event
func Fatal() *zerolog.Event {
	return log.Fatal()
}

// ScopedLogger represents a logger with predefined scope
type ScopedLogger struct {
	logger zerolog.Logger
	scope  string
}

// WithScope creates a new scoped logger instance with predefined scope
func WithScope(scope string) *ScopedLogger {
	scopedLogger := log.With().Str("scope", scope).Logger()
	return &ScopedLogger{
		logger: scopedLogger,
		scope:  scope,
	}
}

// Debug returns a debug level log event with scope
func (s *ScopedLogger) Debug() *zerolog.Event {
	return s.logger.Debug()
}

// Info returns an info level log event with scope
func (s *ScopedLogger) Info() *zerolog.Event {
	return s.logger.Info()
}

// Warn returns a warning level log event with scope
func (s *ScopedLogger) Warn() *zerolog.Event {
	return s.logger.Warn()
}

// Error returns an error level log event with scope
func (s *ScopedLogger) Error() *zerolog.Event {
	return s.logger.Error()
}

// Fatal returns a fatal level log event with scope
func (s *ScopedLogger) Fatal() *zerolog.Event {
	return s.logger.Fatal()
}

// GetScope returns the current scope name
func (s *ScopedLogger) GetScope() string {
	return s.scope
}
