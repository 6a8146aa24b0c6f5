package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the process-wide slog logger. Output goes to stdout and, when
// LOG_FILE is set, also to a size-rotated file.
func Setup(cfg *config.Config) slog.Handler {
	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		})
	}

	handler := NewHandler(w, cfg.LogFormat, ParseLevel(cfg.LogLevel))
	slog.SetDefault(slog.New(handler))
	return handler
}

func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
