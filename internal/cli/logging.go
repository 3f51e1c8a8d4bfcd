package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// logger is replaced by openLog; until then log output is discarded.
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	// logPath is the open log file, empty if none.
	logPath string

	logCloser io.Closer
)

// openLog appends structured log records to path.
func openLog(path, level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return usageError{err}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	closeLog()
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})).
		With("pid", os.Getpid())
	logPath = path
	logCloser = f
	return nil
}

// closeLog closes the log file, if one is open, and discards further output.
func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logPath = ""
	logCloser = nil
}

func parseLevel(level string) (*slog.LevelVar, error) {
	var lvl slog.LevelVar

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "info", "":
		lvl.Set(slog.LevelInfo)
	case "warn", "warning":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		return nil, fmt.Errorf("unsupported log level %q", level)
	}

	return &lvl, nil
}
