package logger

import (
	"github.com/xraph/go-utils/log"
)

// Logger represents the logging interface.
type Logger = log.Logger

// Field represents a structured log field.
type Field = log.Field

// LoggingConfig represents logging configuration.
type LoggingConfig = log.LoggingConfig

// ZapField wraps a zap.Field and implements the Field interface.
type ZapField = log.ZapField
