// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Setup installs the default logger for service. LOG_LEVEL picks the
// minimum level (default INFO) and LOG_FORMAT=text selects text output.
func Setup(service string) {
	slog.SetDefault(New(os.Stdout, service, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
}

// New returns a logger writing JSON (or text) records to w. ERROR records
// carry a stacktrace attribute.
func New(w io.Writer, service, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		AddSource:   true,
		ReplaceAttr: shortSource,
	}
	var base slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(format, "text") {
		base = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(stackHandler{base})
	if service != "" {
		logger = logger.With(slog.String("service", service))
	}
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// shortSource renders the source attribute as "dir/file.go:line".
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}
	file := filepath.Join(filepath.Base(filepath.Dir(src.File)), filepath.Base(src.File))
	return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", file, src.Line))
}

// Fatal logs msg at ERROR and exits 1. Deferred calls do not run.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

type stackHandler struct {
	slog.Handler
}

func (h stackHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		buf := make([]byte, 8<<10)
		buf = buf[:runtime.Stack(buf, false)]
		r.AddAttrs(slog.String("stacktrace", string(buf)))
	}
	return h.Handler.Handle(ctx, r)
}

func (h stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return stackHandler{h.Handler.WithAttrs(attrs)}
}

func (h stackHandler) WithGroup(name string) slog.Handler {
	return stackHandler{h.Handler.WithGroup(name)}
}
