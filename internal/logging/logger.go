package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/natefinch/lumberjack"
)

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
)

// Options describes how the facility's sink is built when it is first acquired.
type Options struct {
	// Program prefixes console lines; empty omits the prefix.
	Program string
	// Threshold is applied on every acquisition.
	Threshold Severity
	// Format selects the console rendering: "console" (default) or "json".
	Format string
	// Writer receives console output. Defaults to os.Stderr.
	Writer io.Writer
	// Timestamps adds a timestamp to console lines.
	Timestamps bool
	// File, when set, additionally receives JSON records with size-based rotation.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func newHandler(opts Options, level *slog.LevelVar) (slog.Handler, io.Closer, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var console slog.Handler
	switch format {
	case "console":
		console = newConsoleHandler(writer, level, consoleOptions{
			program:    strings.TrimSpace(opts.Program),
			timestamps: opts.Timestamps,
			color:      isTerminal(writer),
		})
	case "json":
		console = newJSONHandler(writer, level)
	default:
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	path := strings.TrimSpace(opts.File)
	if path == "" {
		return console, nil, nil
	}
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: positiveOr(opts.MaxBackups, defaultMaxBackups),
	}
	return newSinkHandler(console, newJSONHandler(file, level)), file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure log directory: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
