// Package logging provides structured JSON logging with component and
// trace-ID scoping for the FocusFlow service.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is the structured logging interface used across the service
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	WithComponent(component string) Logger
	WithTraceID(traceID string) Logger
}

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// ParseLogLevel maps a level name to a LogLevel, defaulting to INFO
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	TraceID   string         `json:"trace_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// StructuredLogger writes JSON log lines to stdout, or plain text when
// LOG_JSON is disabled
type StructuredLogger struct {
	level     LogLevel
	component string
	traceID   string
	useJSON   bool
}

// NewLogger creates a structured logger at the given level
func NewLogger(level LogLevel) Logger {
	useJSON := true
	if v := os.Getenv("LOG_JSON"); v == "false" || v == "0" {
		useJSON = false
	}
	return &StructuredLogger{level: level, useJSON: useJSON}
}

// WithComponent returns a logger scoped to a component name
func (l *StructuredLogger) WithComponent(component string) Logger {
	c := *l
	c.component = component
	return &c
}

// WithTraceID returns a logger carrying a trace ID
func (l *StructuredLogger) WithTraceID(traceID string) Logger {
	c := *l
	c.traceID = traceID
	return &c
}

// Debug logs a debug message
func (l *StructuredLogger) Debug(msg string, fields ...any) { l.log(DEBUG, "DEBUG", msg, fields) }

// Info logs an info message
func (l *StructuredLogger) Info(msg string, fields ...any) { l.log(INFO, "INFO", msg, fields) }

// Warn logs a warning message
func (l *StructuredLogger) Warn(msg string, fields ...any) { l.log(WARN, "WARN", msg, fields) }

// Error logs an error message
func (l *StructuredLogger) Error(msg string, fields ...any) { l.log(ERROR, "ERROR", msg, fields) }

func (l *StructuredLogger) log(level LogLevel, name, msg string, fields []any) {
	if l.level > level {
		return
	}

	fieldMap := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		fieldMap[fmt.Sprintf("%v", fields[i])] = fields[i+1]
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     name,
		Message:   msg,
		Component: l.component,
		TraceID:   l.traceID,
		Fields:    fieldMap,
	}

	if l.useJSON {
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal log entry: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	parts := []string{entry.Timestamp, "[" + entry.Level + "]"}
	if entry.Component != "" {
		parts = append(parts, "component:"+entry.Component)
	}
	parts = append(parts, entry.Message)
	for k, v := range fieldMap {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	fmt.Println(strings.Join(parts, " "))
}

// traceIDKey is the context key carrying a request trace ID
type traceIDKey struct{}

// GenerateTraceID returns a fresh trace ID
func GenerateTraceID() string {
	return uuid.New().String()
}

// WithTraceID attaches a trace ID to the context, generating one if empty
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = GenerateTraceID()
	}
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID extracts the trace ID from a context, if any
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey{}).(string); ok {
		return traceID
	}
	return ""
}

// NopLogger discards all log output; used in tests
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// WithComponent returns the logger unchanged
func (n NopLogger) WithComponent(string) Logger { return n }

// WithTraceID returns the logger unchanged
func (n NopLogger) WithTraceID(string) Logger { return n }
