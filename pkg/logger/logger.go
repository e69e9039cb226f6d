// Package logger provides a GORM-style logging interface for pling.
// Channels and the dispatcher log through this interface so callers can plug
// in zap or any other structured logger.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// Silent suppresses all log output.
	Silent LogLevel = iota + 1
	// Error only logs error messages.
	Error
	// Warn logs warnings and errors.
	Warn
	// Info logs informational messages, warnings, and errors.
	Info
	// Debug logs all messages including debug information.
	Debug
)

// String returns the lower-case level name.
func (l LogLevel) String() string {
	switch l {
	case Silent:
		return "silent"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return Silent, nil
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// Logger is the structured logger used by the registry, the dispatcher and
// the command. Args are alternating key/value pairs.
type Logger interface {
	LogMode(level LogLevel) Logger
	// With returns a logger that adds args to every entry. The dispatcher
	// scopes one per send with channel, send_id and mode.
	With(args ...any) Logger
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// StandardLogger writes single-line entries through a log.Logger:
//
//	[pling] [INFO] Notification sent channel=slack send_id=... duration=120ms
type StandardLogger struct {
	logger *log.Logger
	level  LogLevel
	prefix string
	fields []any
}

// NewStandardLogger creates a logger writing to writer with the given prefix.
func NewStandardLogger(writer *log.Logger, level LogLevel, prefix string) Logger {
	return &StandardLogger{logger: writer, level: level, prefix: prefix}
}

func (l *StandardLogger) LogMode(level LogLevel) Logger {
	cp := *l
	cp.level = level
	return &cp
}

func (l *StandardLogger) With(args ...any) Logger {
	cp := *l
	cp.fields = append(append([]any(nil), l.fields...), args...)
	return &cp
}

func (l *StandardLogger) Info(msg string, args ...any)  { l.print(Info, msg, args) }
func (l *StandardLogger) Warn(msg string, args ...any)  { l.print(Warn, msg, args) }
func (l *StandardLogger) Error(msg string, args ...any) { l.print(Error, msg, args) }
func (l *StandardLogger) Debug(msg string, args ...any) { l.print(Debug, msg, args) }

func (l *StandardLogger) print(level LogLevel, msg string, args []any) {
	if l.level < level {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", l.prefix, strings.ToUpper(level.String()), msg)
	writePairs(&b, l.fields)
	writePairs(&b, args)
	l.logger.Print(b.String())
}

// writePairs appends " key=value" for each pair. A trailing key without a
// value is written as key=(no value).
func writePairs(b *strings.Builder, args []any) {
	for i := 0; i < len(args); i += 2 {
		var val any = "(no value)"
		if i+1 < len(args) {
			val = args[i+1]
		}
		fmt.Fprintf(b, " %v=%v", args[i], val)
	}
}

type discardLogger struct{}

func (d discardLogger) LogMode(LogLevel) Logger { return d }
func (d discardLogger) With(...any) Logger      { return d }
func (discardLogger) Info(string, ...any)       {}
func (discardLogger) Warn(string, ...any)       {}
func (discardLogger) Error(string, ...any)      {}
func (discardLogger) Debug(string, ...any)      {}

// Discard drops everything.
var Discard Logger = discardLogger{}

// New returns the stderr logger used when nothing else is configured: Warn
// level, "[pling]" prefix.
func New() Logger {
	return NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags), Warn, "[pling]")
}
