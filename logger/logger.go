package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger writes one JSON object per line tagged with the service, host,
// action and request id.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func New(service, level string) *Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service, level string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *Logger {
	return NewWithWriter("test", "error", io.Discard)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(action, requestID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelDebug, action, requestID, message, attrs)
}

func (l *Logger) Info(action, requestID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelInfo, action, requestID, message, attrs)
}

func (l *Logger) Warn(action, requestID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelWarn, action, requestID, message, attrs)
}

func (l *Logger) Error(action, requestID, message string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}
	l.log(slog.LevelError, action, requestID, message, attrs)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, attrs []slog.Attr) {
	base := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	l.handler.LogAttrs(context.Background(), level, message, append(base, attrs...)...)
}

type ctxKey struct{}

// WithRequestID stores the request id on ctx so services can tag their logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
