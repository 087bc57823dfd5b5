package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

func (c LoggerConfig) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

func (c LoggerConfig) NewLoggerTo(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&SpanContextLogHandler{Handler: handler})
}

func (c LoggerConfig) level() slog.Level {
	switch strings.ToLower(c.Level) {
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

// SpanContextLogHandler adds trace and span ids to records logged with a
// context that carries a valid span.
type SpanContextLogHandler struct {
	slog.Handler
}

func (h *SpanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.String("traceId", s.TraceID().String()),
			slog.String("spanId", s.SpanID().String()),
			slog.Bool("trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *SpanContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SpanContextLogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *SpanContextLogHandler) WithGroup(name string) slog.Handler {
	return &SpanContextLogHandler{Handler: h.Handler.WithGroup(name)}
}
