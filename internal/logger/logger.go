package logger

import (
	"fmt"

	"github.com/xraph/go-utils/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel = log.LogLevel

const (
	LevelInfo  = log.LevelInfo
	LevelWarn  = log.LevelWarn
	LevelError = log.LevelError
	LevelDebug = log.LevelDebug
)

// NewLogger creates a new logger with the given configuration.
func NewLogger(config LoggingConfig) Logger {
	return log.NewLogger(config)
}

// NewDevelopmentLogger creates a development logger with colors.
func NewDevelopmentLogger() Logger {
	return log.NewDevelopmentLogger()
}

// NewDevelopmentLoggerWithLevel creates a development logger with the given level.
func NewDevelopmentLoggerWithLevel(level zapcore.Level) Logger {
	return log.NewDevelopmentLoggerWithLevel(level)
}

// NewProductionLogger creates a production logger.
func NewProductionLogger() Logger {
	return log.NewProductionLogger()
}

// NewNoopLogger creates a logger that does nothing.
func NewNoopLogger() Logger {
	return log.NewNoopLogger()
}

// zapLogger routes the leveled and enrichment calls to an existing zap
// logger. Everything else falls through to the embedded noop logger.
type zapLogger struct {
	Logger
	zap *zap.Logger
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(z *zap.Logger) Logger {
	if z == nil {
		return NewNoopLogger()
	}
	return &zapLogger{Logger: log.NewNoopLogger(), zap: z}
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.zap.Debug(msg, FieldsToZap(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.zap.Info(msg, FieldsToZap(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.zap.Warn(msg, FieldsToZap(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.zap.Error(msg, FieldsToZap(fields)...)
}

func (l *zapLogger) Debugf(template string, args ...any) {
	l.zap.Debug(fmt.Sprintf(template, args...))
}

func (l *zapLogger) Infof(template string, args ...any) {
	l.zap.Info(fmt.Sprintf(template, args...))
}

func (l *zapLogger) Warnf(template string, args ...any) {
	l.zap.Warn(fmt.Sprintf(template, args...))
}

func (l *zapLogger) Errorf(template string, args ...any) {
	l.zap.Error(fmt.Sprintf(template, args...))
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{Logger: l.Logger, zap: l.zap.With(FieldsToZap(fields)...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{Logger: l.Logger, zap: l.zap.Named(name)}
}

func (l *zapLogger) Sync() error {
	return l.zap.Sync()
}
