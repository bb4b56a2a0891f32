// Package logger wraps zap behind a small interface so services stay
// decoupled from the logging backend.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field re-exports the zap field type for callers.
type Field = zapcore.Field

// Field constructors re-exported for callers.
var (
	Int    = zap.Int
	Int64  = zap.Int64
	String = zap.String
	Error  = zap.Error
	Any    = zap.Any
)

// Logger is the logging contract injected into services.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type zapLogger struct {
	zap *zap.Logger
}

func (l zapLogger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l zapLogger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l zapLogger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// New builds a production logger tagged with the service namespace.
func New(namespace string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]interface{}{
		"namespace": namespace,
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return zapLogger{zap: l}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return zapLogger{zap: zap.NewNop()}
}
