package root

import (
	"errors"
	"fmt"
)

// PreconditionError is the panic value raised when the registry protocol is
// violated. These are programming errors in start-up code, not run-time
// conditions, so they are never returned as errors.
type PreconditionError struct {
	// Op names the operation that detected the violation.
	Op string

	// Message is a human-readable description.
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("root: %s: %s", e.Op, e.Message)
}

// fatal panics with a PreconditionError.
func fatal(op, format string, args ...any) {
	panic(&PreconditionError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeNotConfigured indicates a registered object reported not ready.
	ErrCodeNotConfigured ConfigErrorCode = "NOT_CONFIGURED"

	// ErrCodeRegistryOverflow indicates objects were constructed after the
	// system list was full and escaped the readiness check.
	ErrCodeRegistryOverflow ConfigErrorCode = "REGISTRY_OVERFLOW"
)

// ConfigurationError describes why the system failed its readiness gate.
type ConfigurationError struct {
	Code    ConfigErrorCode
	Message string

	// InstanceID and ClassID identify the first unconfigured object
	// (NOT_CONFIGURED only).
	InstanceID InstanceID
	ClassID    ClassID

	// Overflow lists the ids left out of the system list
	// (REGISTRY_OVERFLOW only).
	Overflow []InstanceID
}

func (e *ConfigurationError) Error() string {
	switch e.Code {
	case ErrCodeNotConfigured:
		return fmt.Sprintf("%s: %s (instance=%d, class=%d)", e.Code, e.Message, e.InstanceID, e.ClassID)
	case ErrCodeRegistryOverflow:
		return fmt.Sprintf("%s: %s (overflow=%v)", e.Code, e.Message, e.Overflow)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsNotConfigured reports whether err is a NOT_CONFIGURED ConfigurationError.
// Uses errors.As to handle wrapped errors.
func IsNotConfigured(err error) bool {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNotConfigured
	}
	return false
}

// IsOverflow reports whether err is a REGISTRY_OVERFLOW ConfigurationError.
func IsOverflow(err error) bool {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeRegistryOverflow
	}
	return false
}
