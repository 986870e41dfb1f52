package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error code constants for structured errors
const (
	CodeConfigError          = "CONFIG_ERROR"
	CodeMissingConfigKey     = "MISSING_CONFIG_KEY"
	CodeServiceNotFound      = "SERVICE_NOT_FOUND"
	CodeServiceAlreadyExists = "SERVICE_ALREADY_EXISTS"
	CodeCircularDependency   = "CIRCULAR_DEPENDENCY"
	CodeUnknownClass         = "UNKNOWN_CLASS"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeInvalidLocator       = "INVALID_LOCATOR"
)

// =============================================================================
// DI/SERVICE ERRORS
// =============================================================================

// Standard DI/service errors
var (
	ErrInvalidFactory = errors.New("factory cannot be nil")
	ErrEmptyName      = errors.New("service name cannot be empty")
)

// ServiceError wraps service-specific errors
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s: %s: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for ServiceError
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return (e.Service == "" || t.Service == "" || e.Service == t.Service) &&
		(e.Operation == "" || t.Operation == "" || e.Operation == t.Operation)
}

// NewServiceError creates a new service error
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}

// =============================================================================
// FACTORY ERROR (STRUCTURED ERROR)
// =============================================================================

// FactoryError represents a structured error with context
type FactoryError struct {
	Code      string
	Message   string
	Cause     error
	Timestamp time.Time
	Context   map[string]any
}

func (e *FactoryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *FactoryError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is interface for FactoryError.
// Compares by error code, allowing matching against sentinel errors.
func (e *FactoryError) Is(target error) bool {
	t, ok := target.(*FactoryError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

func newError(code, message string, cause error, ctx map[string]any) *FactoryError {
	if ctx == nil {
		ctx = make(map[string]any)
	}
	return &FactoryError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   ctx,
	}
}

// ErrConfigError creates a config error
func ErrConfigError(message string, cause error) *FactoryError {
	return newError(CodeConfigError, message, cause, nil)
}

// ErrMissingConfigKey reports a configuration entry lacking a required key.
func ErrMissingConfigKey(key string) *FactoryError {
	return newError(CodeMissingConfigKey,
		fmt.Sprintf("missing %q config key", key), nil,
		map[string]any{"key": key})
}

func ErrServiceNotFound(serviceName string) *FactoryError {
	return newError(CodeServiceNotFound,
		"service '"+serviceName+"' not found", nil,
		map[string]any{"service_name": serviceName})
}

func ErrServiceAlreadyExists(serviceName string) *FactoryError {
	return newError(CodeServiceAlreadyExists,
		"service '"+serviceName+"' already exists", nil,
		map[string]any{"service_name": serviceName})
}

func ErrCircularDependency(chain []string) *FactoryError {
	return newError(CodeCircularDependency,
		"circular dependency detected: "+strings.Join(chain, " -> "), nil,
		map[string]any{"services": chain})
}

// ErrUnknownClass reports a class name with no registered constructor.
func ErrUnknownClass(class string) *FactoryError {
	return newError(CodeUnknownClass,
		"unknown class '"+class+"'", nil,
		map[string]any{"class": class})
}

// ErrTypeMismatch reports a value that does not satisfy the type a consumer expects.
func ErrTypeMismatch(expected string, got any) *FactoryError {
	return newError(CodeTypeMismatch,
		fmt.Sprintf("expected %s, got %T", expected, got), nil,
		map[string]any{"expected": expected, "got": fmt.Sprintf("%T", got)})
}

// ErrInvalidLocator reports a file locator that cannot take a file extension.
func ErrInvalidLocator(got any) *FactoryError {
	return newError(CodeInvalidLocator,
		fmt.Sprintf("file locator %T does not support setting a file extension", got), nil,
		map[string]any{"locator": fmt.Sprintf("%T", got)})
}

// =============================================================================
// STANDARD ERRORS PACKAGE INTEGRATION
// =============================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// =============================================================================
// SENTINEL ERRORS (for use with Is)
// =============================================================================

var (
	ErrConfigErrorSentinel          = &FactoryError{Code: CodeConfigError}
	ErrMissingConfigKeySentinel     = &FactoryError{Code: CodeMissingConfigKey}
	ErrServiceNotFoundSentinel      = &FactoryError{Code: CodeServiceNotFound}
	ErrServiceAlreadyExistsSentinel = &FactoryError{Code: CodeServiceAlreadyExists}
	ErrCircularDependencySentinel   = &FactoryError{Code: CodeCircularDependency}
	ErrUnknownClassSentinel         = &FactoryError{Code: CodeUnknownClass}
	ErrTypeMismatchSentinel         = &FactoryError{Code: CodeTypeMismatch}
	ErrInvalidLocatorSentinel       = &FactoryError{Code: CodeInvalidLocator}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsMissingConfigKey checks if the error is a missing config key error
func IsMissingConfigKey(err error) bool {
	return Is(err, ErrMissingConfigKeySentinel)
}

// IsServiceNotFound checks if the error is a service not found error
func IsServiceNotFound(err error) bool {
	return Is(err, ErrServiceNotFoundSentinel)
}

// IsServiceAlreadyExists checks if the error is a service already exists error
func IsServiceAlreadyExists(err error) bool {
	return Is(err, ErrServiceAlreadyExistsSentinel)
}

// IsCircularDependency checks if the error is a circular dependency error
func IsCircularDependency(err error) bool {
	return Is(err, ErrCircularDependencySentinel)
}

// IsUnknownClass checks if the error is an unknown class error
func IsUnknownClass(err error) bool {
	return Is(err, ErrUnknownClassSentinel)
}

// IsTypeMismatch checks if the error is a type mismatch error
func IsTypeMismatch(err error) bool {
	return Is(err, ErrTypeMismatchSentinel)
}

// IsInvalidLocator checks if the error is an invalid locator error
func IsInvalidLocator(err error) bool {
	return Is(err, ErrInvalidLocatorSentinel)
}
