// Package logging wraps log/slog with the call shape used across the
// services: a context, an optional error, a bag of structured fields and a
// message.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Data holds structured fields attached to a log line.
type Data map[string]interface{}

type ctxKey struct{}

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(newLogger(os.Stdout, "info", "json", nil))
}

// Configure replaces the package logger. Unknown levels fall back to info,
// unknown formats to JSON.
func Configure(level, format string, base Data) {
	logger.Store(newLogger(os.Stdout, level, format, base))
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer, level, format string) {
	logger.Store(newLogger(w, level, format, nil))
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return logger.Load()
}

func newLogger(w io.Writer, level, format string, base Data) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With(attrs(base)...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores the request id in ctx; every line logged with the
// returned context carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func Debug(ctx context.Context, data Data, msg string) {
	log(ctx, slog.LevelDebug, nil, data, msg)
}

func Info(ctx context.Context, data Data, msg string) {
	log(ctx, slog.LevelInfo, nil, data, msg)
}

func Warn(ctx context.Context, err error, data Data, msg string) {
	log(ctx, slog.LevelWarn, err, data, msg)
}

func Error(ctx context.Context, err error, data Data, msg string) {
	log(ctx, slog.LevelError, err, data, msg)
}

// Fatal logs at error level and exits the process.
func Fatal(ctx context.Context, err error, data Data, msg string) {
	log(ctx, slog.LevelError, err, data, msg)
	os.Exit(1)
}

// FatalNoCtx is Fatal for call sites without a request context, such as
// process start-up.
func FatalNoCtx(err error, data Data, msg string) {
	Fatal(context.Background(), err, data, msg)
}

func log(ctx context.Context, level slog.Level, err error, data Data, msg string) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := Logger()
	if !l.Enabled(ctx, level) {
		return
	}
	args := attrs(data)
	if id := RequestID(ctx); id != "" {
		args = append(args, slog.String("request_id", id))
	}
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.Log(ctx, level, msg, args...)
}

// attrs renders data with sorted keys so output is stable.
func attrs(data Data) []any {
	if len(data) == 0 {
		return nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, data[k]))
	}
	return out
}
