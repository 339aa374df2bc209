package log

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Options struct {
	Level  string
	Format string // json | console
	Output io.Writer
}

type ctxKey struct{}

var base = defaultLogger()

func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Setup replaces the package logger. Safe to call once at startup before
// any other goroutine logs.
func Setup(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: true}
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	base = zerolog.New(out).
		With().
		Timestamp().
		Str("service", "stockroom").
		Logger().
		Level(ParseLevel(opts.Level))
}

func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

func from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return l
		}
	}
	return &base
}

// WithFields returns a context whose log entries carry the given fields.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	l := from(ctx).With().Fields(fields).Logger()
	return context.WithValue(ctx, ctxKey{}, &l)
}

// WithRunID tags every entry logged through ctx with a fresh run id.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithFields(ctx, map[string]any{"run_id": id}), id
}

func write(ev *zerolog.Event, action string, err error, fields map[string]any) {
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Str("action", action).Send()
}

func Debug(ctx context.Context, action string, fields map[string]any) {
	write(from(ctx).Debug(), action, nil, fields)
}

func Info(ctx context.Context, action string, fields map[string]any) {
	write(from(ctx).Info(), action, nil, fields)
}

// Audit records a change to stored data.
func Audit(ctx context.Context, action string, fields map[string]any) {
	write(from(ctx).Info().Str("kind", "audit"), action, nil, fields)
}

func Warn(ctx context.Context, action string, err error, fields map[string]any) {
	write(from(ctx).Warn(), action, err, fields)
}

func Error(ctx context.Context, action string, err error, fields map[string]any) {
	write(from(ctx).Error(), action, err, fields)
}
