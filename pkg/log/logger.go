package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps debug|info|warn|error (any case) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("log: unknown level %q", s)
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Context keys for propagating logging context
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	TraceIDKey   contextKey = "trace_id"
)

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
}

// Logger defines the core logging interface for Interticle components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With adds fields to every record of the returned logger.
	With(fields ...Field) Logger
	// WithComponent tags logs with a component name.
	WithComponent(component string) Logger
	// WithContext adds request/trace ids carried by ctx.
	WithContext(ctx context.Context) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// core is shared by a root logger and everything derived from it.
type core struct {
	level     Level
	formatter Formatter
	outputs   []Output
	redact    []string
}

// BaseLogger implements the Logger interface.
type BaseLogger struct {
	core       *core
	slogLogger *slog.Logger
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{core: &core{level: InfoLevel, formatter: &JSONFormatter{}}}
	for _, option := range options {
		option(logger)
	}
	if len(logger.core.outputs) == 0 {
		logger.core.outputs = append(logger.core.outputs, NewConsoleOutput())
	}
	logger.slogLogger = slog.New(newBridgeHandler(logger.core).withRedactions(logger.core.redact))
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) { l.core.level = level }
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) { l.core.formatter = formatter }
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) { l.core.outputs = append(l.core.outputs, output) }
}

// WithRedactions replaces the values of the given keys with [REDACTED].
func WithRedactions(keys ...string) LoggerOption {
	return func(l *BaseLogger) { l.core.redact = append(l.core.redact, keys...) }
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	ctx := context.Background()
	sl := toSlogLevel(level)
	if !l.slogLogger.Enabled(ctx, sl) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), sl, msg, pcs[0])
	r.AddAttrs(attrsFromFieldSlice(fields)...)
	_ = l.slogLogger.Handler().Handle(ctx, r)
}

// With returns a logger that adds fields to every record.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{core: l.core, slogLogger: l.slogLogger.With(attrsToAny(attrsFromFieldSlice(fields))...)}
}

// WithComponent tags logs with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// WithContext adds the request and trace ids found in ctx.
func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	var fields []Field
	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		fields = append(fields, Str(string(RequestIDKey), v))
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok && v != "" {
		fields = append(fields, Str(string(TraceIDKey), v))
	}
	return l.With(fields...)
}

// SetLevel sets the minimum level for this logger and all derived loggers.
func (l *BaseLogger) SetLevel(level Level) { l.core.level = level }

// GetLevel returns the current minimum level.
func (l *BaseLogger) GetLevel() Level { return l.core.level }
