package logger

import (
	"fmt"

	"github.com/xraph/go-utils/log"
	"go.uber.org/zap"
)

// Field constructors that return wrapped fields.
var (
	String   = log.String
	Strings  = log.Strings
	Int      = log.Int
	Bool     = log.Bool
	Duration = log.Duration
	Any      = log.Any

	// Error creates a field for err under the "error" key.
	Error = log.Error
)

// Type records the dynamic Go type of val.
func Type(key string, val any) Field {
	return log.WrapZapField(zap.String(key, fmt.Sprintf("%T", val)))
}

// FieldsToZap converts Field interfaces to zap.Field.
func FieldsToZap(fields []Field) []zap.Field {
	return log.FieldsToZap(fields)
}
