package helpers

import (
	"fmt"
	"time"

	"market-twin/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Distinct error types so callers can pick the right HTTP status.
type ConfigurationError struct{ DashboardError }
type ValidationError struct{ DashboardError }
type AuthenticationError struct{ DashboardError }
type NotFoundError struct{ DashboardError }
type PipelineError struct{ DashboardError }
type StorageError struct{ DashboardError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{DashboardError{Message: message, Cause: cause}}
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{DashboardError{Message: message}}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{DashboardError{Message: message}}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{DashboardError{Message: message}}
}

func NewPipelineError(message string, cause error) *PipelineError {
	return &PipelineError{DashboardError{Message: message, Cause: cause}}
}

func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{DashboardError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times with exponential backoff.
func RetryWithBackoff(operation string, maxRetries int, baseDelay time.Duration, log *logger.Logger, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, err, delay)
		time.Sleep(delay)
	}

	return &DashboardError{Message: fmt.Sprintf("%s failed after %d attempts", operation, maxRetries), Cause: lastErr}
}
