package logger

import (
	"os"
	"strings"

	"github.com/phuslu/log"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging for one named component.
type Logger struct {
	name   string
	logger log.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. An empty level defaults to INFO.
func NewLogger(level string, name string) *Logger {
	return &Logger{
		name: name,
		logger: log.Logger{
			Level:      parseLevel(level),
			TimeFormat: "2006-01-02 15:04:05",
			Writer: &log.ConsoleWriter{
				Writer:         os.Stdout,
				ColorOutput:    false,
				EndWithMessage: true,
			},
		},
	}
}

// -----------------------------------------------------------------------------

func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARNING", "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debug().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs warning messages
func (l *Logger) Warning(format string, args ...interface{}) {
	l.logger.Warn().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Info().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Error().Str("component", l.name).Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.logger.Error().Str("component", l.name).Msgf(format, args...)
	os.Exit(1)
}
