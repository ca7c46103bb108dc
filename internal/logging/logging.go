// Package logging provides structured logging for the snapshot analyst.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "trade-analyst", "logs", "analyst.log"),
		MaxSize:    20,
		MaxBackups: 5,
		MaxAge:     90,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithRun adds the run identifier to the logger context.
func WithRun(logger zerolog.Logger, runID string) zerolog.Logger {
	return logger.With().Str("run_id", runID).Logger()
}

// LogRowSkipped logs a recoverable per-row backfill problem. The batch
// continues; only the row is lost until its source data is fixed.
func LogRowSkipped(logger zerolog.Logger, tradeID int64, reason string, err error) {
	event := logger.Warn().
		Str("event", "backfill_skip").
		Int64("trade_id", tradeID).
		Str("reason", reason)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Row skipped during timestamp backfill")
}

// LogSnapshotRow logs one emitted snapshot row.
func LogSnapshotRow(logger zerolog.Logger, investor, date string, profitShare float64) {
	logger.Info().
		Str("event", "snapshot_row").
		Str("investor", investor).
		Str("date", date).
		Float64("profit_share", profitShare).
		Msg("Snapshot row emitted")
}

// LogOutputFailure logs a per-investor output adapter failure.
func LogOutputFailure(logger zerolog.Logger, investor, channel string, err error) {
	logger.Error().
		Str("event", "output_failure").
		Str("investor", investor).
		Str("channel", channel).
		Err(err).
		Msg("Output adapter failed")
}
