package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap logger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level LogLevel
}

// NewZap wraps z. Filtering happens on both the wrapper level and z's own core.
func NewZap(z *zap.Logger, level LogLevel) Logger {
	return &ZapLogger{
		sugar: z.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		level: level,
	}
}

// NewZapProduction builds a zap logger for the given format ("json" or "console").
func NewZapProduction(format string, level LogLevel) (Logger, error) {
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZap(z, level), nil
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	}
	return zapcore.FatalLevel
}

func (l *ZapLogger) LogMode(level LogLevel) Logger {
	return &ZapLogger{sugar: l.sugar, level: level}
}

func (l *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{sugar: l.sugar.With(args...), level: l.level}
}

// Info logs an informational message.
func (l *ZapLogger) Info(msg string, args ...any) {
	if l.level >= Info {
		l.sugar.Infow(msg, args...)
	}
}

// Warn logs a warning message.
func (l *ZapLogger) Warn(msg string, args ...any) {
	if l.level >= Warn {
		l.sugar.Warnw(msg, args...)
	}
}

// Error logs an error message.
func (l *ZapLogger) Error(msg string, args ...any) {
	if l.level >= Error {
		l.sugar.Errorw(msg, args...)
	}
}

// Debug logs a debug message.
func (l *ZapLogger) Debug(msg string, args ...any) {
	if l.level >= Debug {
		l.sugar.Debugw(msg, args...)
	}
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// Sync flushes l if it buffers output. Sync errors are ignored.
func Sync(l Logger) {
	if s, ok := l.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
