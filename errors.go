package ormfactory

import (
	"github.com/xraph/ormfactory/internal/errors"
)

// FactoryError is the structured error returned by factories.
type FactoryError = errors.FactoryError

// Re-export error codes.
const (
	CodeConfigError          = errors.CodeConfigError
	CodeMissingConfigKey     = errors.CodeMissingConfigKey
	CodeServiceNotFound      = errors.CodeServiceNotFound
	CodeServiceAlreadyExists = errors.CodeServiceAlreadyExists
	CodeCircularDependency   = errors.CodeCircularDependency
	CodeUnknownClass         = errors.CodeUnknownClass
	CodeTypeMismatch         = errors.CodeTypeMismatch
	CodeInvalidLocator       = errors.CodeInvalidLocator
)

// Re-export sentinel errors for error comparison using errors.Is().
var (
	ErrConfigErrorSentinel          = errors.ErrConfigErrorSentinel
	ErrMissingConfigKeySentinel     = errors.ErrMissingConfigKeySentinel
	ErrServiceNotFoundSentinel      = errors.ErrServiceNotFoundSentinel
	ErrServiceAlreadyExistsSentinel = errors.ErrServiceAlreadyExistsSentinel
	ErrCircularDependencySentinel   = errors.ErrCircularDependencySentinel
	ErrUnknownClassSentinel         = errors.ErrUnknownClassSentinel
	ErrTypeMismatchSentinel         = errors.ErrTypeMismatchSentinel
	ErrInvalidLocatorSentinel       = errors.ErrInvalidLocatorSentinel
)

// Re-export error predicates.
var (
	IsMissingConfigKey     = errors.IsMissingConfigKey
	IsServiceNotFound      = errors.IsServiceNotFound
	IsServiceAlreadyExists = errors.IsServiceAlreadyExists
	IsCircularDependency   = errors.IsCircularDependency
	IsUnknownClass         = errors.IsUnknownClass
	IsTypeMismatch         = errors.IsTypeMismatch
	IsInvalidLocator       = errors.IsInvalidLocator
)

// ServiceError wraps a failure to resolve a container service.
type ServiceError = errors.ServiceError
