package logging

import (
	"context"
	"fmt"
	"log/slog"
)

// sinkHandler writes each record to the console and to the rotated log file.
// A failing file never suppresses the console line.
type sinkHandler struct {
	console slog.Handler
	file    slog.Handler
}

func newSinkHandler(console, file slog.Handler) slog.Handler {
	if file == nil {
		return console
	}
	return &sinkHandler{console: console, file: file}
}

func (h *sinkHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *sinkHandler) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr, fileErr error
	if h.console.Enabled(ctx, record.Level) {
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		fileErr = h.file.Handle(ctx, record)
	}
	if consoleErr != nil {
		return consoleErr
	}
	if fileErr != nil {
		return fmt.Errorf("log file: %w", fileErr)
	}
	return nil
}

func (h *sinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sinkHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *sinkHandler) WithGroup(name string) slog.Handler {
	return &sinkHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}
