package logging

import (
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger provides structured logging on top of zap.
// Output defaults to stderr; stdout is reserved for pipeline variables.
type Logger struct {
	level      Level
	jsonFormat bool
	output     io.Writer
	base       *zap.Logger
	zl         *zap.Logger
	fields     []zap.Field
}

// NewLogger creates a logger writing to stderr
func NewLogger(level Level, jsonFormat bool) *Logger {
	return New(os.Stderr, level, jsonFormat)
}

// New creates a logger writing to w
func New(w io.Writer, level Level, jsonFormat bool) *Logger {
	l := &Logger{level: level, jsonFormat: jsonFormat}
	l.SetOutput(w)
	return l
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return New(io.Discard, FATAL, false)
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if l.jsonFormat {
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	l.base = zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), l.level.zapLevel()))
	l.zl = l.base.With(l.fields...)
}

// Level returns the minimum level that is written
func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) log(level Level, message string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}

	l.zl.Log(level.zapLevel(), message, zf...)
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DEBUG, message, first(fields))
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(INFO, message, first(fields))
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WARN, message, first(fields))
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...map[string]interface{}) {
	l.log(ERROR, message, first(fields))
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(message string, fields ...map[string]interface{}) {
	l.log(FATAL, message, first(fields))
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make([]zap.Field, 0, len(l.fields)+1)
	fields = append(fields, l.fields...)
	fields = append(fields, zap.Any(key, value))
	return &Logger{
		level:      l.level,
		jsonFormat: l.jsonFormat,
		output:     l.output,
		base:       l.base,
		zl:         l.base.With(fields...),
		fields:     fields,
	}
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// ParseLevel parses a log level string
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}
