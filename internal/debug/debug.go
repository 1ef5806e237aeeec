// Package debug builds the process logger and carries it through contexts.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type loggerKey struct{}

// NewLogger returns a text logger writing to w (stderr when nil). Verbose
// loggers emit debug records; others only warnings and errors. Credential
// attributes are masked either way.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: redactAttr}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger stored in ctx, or slog.Default.
func Logger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}

// Enabled reports whether debug records would be written for ctx.
func Enabled(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return Logger(ctx).Enabled(ctx, slog.LevelDebug)
}

// Redact masks a credential, keeping the last four characters.
func Redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "token" || a.Key == "authorization" {
		return slog.String(a.Key, Redact(a.Value.String()))
	}
	return a
}
