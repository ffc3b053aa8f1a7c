// Package logging builds the process logger: JSON on stdout, a console writer
// in development, and an optional rotating file sink.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/alzcare/alzcare/internal/config"
)

// New returns the root logger for cfg.
func New(cfg *config.Config) zerolog.Logger {
	var stdout io.Writer = os.Stdout
	if cfg.IsDev() {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	writers := []io.Writer{stdout}
	if cfg.LogFile != "" {
		writers = append(writers, FileSink(cfg))
	}

	return zerolog.New(io.MultiWriter(writers...)).
		Level(ParseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", "care-server").
		Str("env", cfg.Env).
		Logger()
}

// FileSink is the rotating log file configured by LOG_FILE.
func FileSink(cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}
}

// ParseLevel maps a level name onto zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
