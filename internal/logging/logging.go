// Package logging provides structured logging functionality.
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
	NoColor    bool
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       false,
		FilePath:   filepath.Join(home, ".config", "news-sentiment", "logs", "sentiment.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
// Console output goes to stderr so that stdout stays clean for --json.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, newConsoleWriter(os.Stderr, cfg.NoColor))
	}
	if cfg.File {
		if w, err := newFileWriter(cfg); err == nil {
			writers = append(writers, w)
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

// levelLabels are the console labels and their ANSI colors.
var levelLabels = map[string]struct {
	label string
	color string
}{
	"debug": {"DBG", "36"},
	"info":  {"INF", "32"},
	"warn":  {"WRN", "33"},
	"error": {"ERR", "31"},
}

func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			ll, ok := i.(string)
			if !ok {
				return "???"
			}
			l, ok := levelLabels[ll]
			if !ok {
				return ll
			}
			if noColor {
				return l.label
			}
			return "\033[" + l.color + "m" + l.label + "\033[0m"
		},
	}
}

// newFileWriter returns a size-rotated writer for cfg.FilePath.
func newFileWriter(cfg LogConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
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

// WithTicker adds a ticker to the logger context.
func WithTicker(logger zerolog.Logger, ticker string) zerolog.Logger {
	return logger.With().Str("ticker", ticker).Logger()
}

// WithStage adds a pipeline stage name to the logger context.
func WithStage(logger zerolog.Logger, stage string) zerolog.Logger {
	return logger.With().Str("stage", stage).Logger()
}

// LogStage logs completion of a pipeline stage.
func LogStage(logger zerolog.Logger, stage string, rows int, duration time.Duration) {
	logger.Debug().
		Str("event", "stage").
		Str("stage", stage).
		Int("rows", rows).
		Dur("duration", duration).
		Msg("Stage completed")
}

// LogDropped logs rows excluded by a data-quality rule.
func LogDropped(logger zerolog.Logger, source, reason string, dropped, kept int) {
	if dropped == 0 {
		return
	}
	logger.Warn().
		Str("event", "rows_dropped").
		Str("source", source).
		Str("reason", reason).
		Int("dropped", dropped).
		Int("kept", kept).
		Msg("Rows excluded")
}

// LogCorrelation logs a computed correlation.
func LogCorrelation(logger zerolog.Logger, metric string, corr, pValue float64, n int) {
	logger.Info().
		Str("event", "correlation").
		Str("metric", metric).
		Float64("correlation", corr).
		Float64("p_value", pValue).
		Int("n", n).
		Msg("Correlation computed")
}
