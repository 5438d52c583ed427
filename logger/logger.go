// Package logger provides structured logging for the voice agent.
//
// This package wraps Go's standard log/slog with convenience functions for:
//   - Backend streaming call logging (requests, turns, errors)
//   - Function dispatch logging
//   - Automatic redaction of caller PII (phone numbers, emails) and API keys
//   - Level-based verbosity control
//
// All exported functions use the global DefaultLogger which is initialized
// from the LOG_LEVEL environment variable.
package logger

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

var (
	// DefaultLogger is the global structured logger instance.
	// It is safe for concurrent use and initialized with slog.LevelInfo by default.
	DefaultLogger *slog.Logger
)

func init() {
	level := slog.LevelInfo
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		switch strings.ToLower(envLevel) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	DefaultLogger = slog.New(handler)
}

// SetLevel changes the logging level for all subsequent log operations.
// This is safe for concurrent use as it replaces the entire logger instance.
func SetLevel(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	DefaultLogger = slog.New(handler)
}

// SetVerbose enables debug-level logging when verbose is true, otherwise sets info-level.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// Info logs an informational message with structured key-value attributes.
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// InfoContext logs an informational message with context and structured attributes.
func InfoContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.InfoContext(ctx, msg, args...)
}

// Debug logs a debug-level message with structured attributes.
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// DebugContext logs a debug message with context and structured attributes.
func DebugContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.DebugContext(ctx, msg, args...)
}

// Warn logs a warning message with structured attributes.
// Use for recoverable errors or unexpected but non-critical situations.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// Error logs an error message with structured attributes.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// ErrorContext logs an error message with context and structured attributes.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.ErrorContext(ctx, msg, args...)
}

// LLMCall logs the start of a backend streaming call for one turn.
func LLMCall(provider string, responseID, messages, tools int, attrs ...any) {
	allAttrs := make([]any, 0, 8+len(attrs))
	allAttrs = append(allAttrs,
		"provider", provider,
		"response_id", responseID,
		"messages", messages,
		"tools", tools,
	)
	allAttrs = append(allAttrs, attrs...)
	Info("🤖 LLM stream opened", allAttrs...)
}

// LLMError logs a backend streaming failure.
func LLMError(provider string, responseID int, err error, attrs ...any) {
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs,
		"provider", provider,
		"response_id", responseID,
		"error", err,
	)
	allAttrs = append(allAttrs, attrs...)
	Error("❌ LLM stream failed", allAttrs...)
}

// DispatchCall logs a function dispatch with its call identifier.
func DispatchCall(function, callID string, attrs ...any) {
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs,
		"function", function,
		"call_id", callID,
	)
	allAttrs = append(allAttrs, attrs...)
	Info("🔧 Function dispatch", allAttrs...)
}

// DispatchResult logs the outcome of a function dispatch.
func DispatchResult(function, callID string, failed bool, latencyMs int64, attrs ...any) {
	allAttrs := make([]any, 0, 10+len(attrs))
	allAttrs = append(allAttrs,
		"function", function,
		"call_id", callID,
		"failed", failed,
		"latency_ms", latencyMs,
	)
	allAttrs = append(allAttrs, attrs...)
	if failed {
		Warn("Function dispatch failed", allAttrs...)
		return
	}
	Info("✅ Function dispatch complete", allAttrs...)
}

var (
	// sensitivePatterns matches API keys and caller PII that must never reach logs.
	sensitivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`sk-[a-zA-Z0-9]{32,}`),                            // OpenAI API keys
		regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_-]+`),                        // Bearer tokens
		regexp.MustCompile(`\+?\d[\d\s().-]{8,}\d`),                          // Phone numbers
		regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), // Email addresses
	}
)

// RedactSensitiveData removes API keys, phone numbers, and email addresses
// from strings before they are logged. Matched API keys keep their first few
// characters for debugging context; PII is removed entirely.
//
// This function is safe for concurrent use as it only reads from the compiled patterns.
func RedactSensitiveData(input string) string {
	result := input

	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if strings.HasPrefix(match, "Bearer ") {
				return "Bearer [REDACTED]"
			}
			if strings.HasPrefix(match, "sk-") && len(match) > 8 {
				return match[:4] + "...[REDACTED]"
			}
			return "[REDACTED]"
		})
	}

	return result
}
