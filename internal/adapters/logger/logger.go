// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it.
type messager interface {
	Message() string
}

var _ ports.ScopedLogger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the logger's output destination, keeping the current mode.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.log(slog.LevelInfo, msg, nil)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.log(slog.LevelWarn, msg, nil)
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	l.logError(err, nil)
}

// Scope returns a logger whose lines carry the build target and, when set, the phase.
// Scoped loggers follow later SetOutput and SetJSON calls on l.
func (l *Logger) Scope(target domain.Target, phase string) ports.Logger {
	attrs := []any{slog.String(TargetKey, target.String())}
	if phase != "" {
		attrs = append(attrs, slog.String(PhaseKey, phase))
	}
	return &scopedLogger{parent: l, attrs: attrs}
}

func (l *Logger) log(level slog.Level, msg string, attrs []any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Log(context.Background(), level, msg, attrs...)
}

func (l *Logger) logError(err error, attrs []any) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Log(context.Background(), slog.LevelError, "operation failed", append(slices.Clip(attrs), "error", err)...)
		return
	}

	l.logger.Log(context.Background(), slog.LevelError, formatErrorEntries(collectErrorEntries(err)), attrs...)
}

type scopedLogger struct {
	parent *Logger
	attrs  []any
}

func (s *scopedLogger) Info(msg string) { s.parent.log(slog.LevelInfo, msg, s.attrs) }
func (s *scopedLogger) Warn(msg string) { s.parent.log(slog.LevelWarn, msg, s.attrs) }
func (s *scopedLogger) Error(err error) { s.parent.logError(err, s.attrs) }

// collectErrorEntries flattens an error chain into one message per link.
// Joined errors contribute each of their branches in order.
func collectErrorEntries(err error) []string {
	var entries []string

	for err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				entries = append(entries, collectErrorEntries(e)...)
			}
			return entries
		}

		m, ok := err.(messager)
		if !ok {
			return append(entries, err.Error())
		}
		// Wrappers that only carry metadata have no message of their own.
		if msg := m.Message(); msg != "" {
			entries = append(entries, msg)
		}
		err = errors.Unwrap(err)
	}

	return entries
}

// formatErrorEntries renders the entries as a main error followed by its causes.
func formatErrorEntries(entries []string) string {
	var lines []string

	for i, entry := range entries {
		parts := strings.Split(entry, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+parts[0])
			for _, line := range parts[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+parts[0])
		for _, line := range parts[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}
