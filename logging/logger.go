// Package logging adapts log/slog to the field-map Logger used across the pipeline.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/elum-utils/safetymonitor/interfaces"
)

// Format is the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	Level string
	// Format is "json" or "text".
	Format string
	// AddSource includes file:line in records.
	AddSource bool
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

// Logger implements interfaces.Logger.
type Logger struct {
	slog *slog.Logger
}

var _ interfaces.Logger = (*Logger)(nil)

// New creates a Logger.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var h slog.Handler
	switch format {
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	default:
		h = slog.NewJSONHandler(w, opts)
	}
	return &Logger{slog: slog.New(h)}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	l.log(context.Background(), slog.LevelDebug, msg, fields)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.log(context.Background(), slog.LevelInfo, msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log(context.Background(), slog.LevelWarn, msg, fields)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	l.log(context.Background(), slog.LevelError, msg, fields)
}

// With returns a logger that adds fields to every record.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{slog: l.slog.With(attrs(fields)...)}
}

// FromContext returns a logger carrying the request id stored in ctx, if any.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	id := RequestID(ctx)
	if id == "" {
		return l
	}
	return &Logger{slog: l.slog.With(slog.String("request_id", id))}
}

// Slog exposes the underlying logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, fields map[string]any) {
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, msg, attrs(fields)...)
}

// attrs converts fields to slog arguments in key order so output is stable.
func attrs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out = append(out, slog.Any(k, v))
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

func parseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}
