// Package logging provides JSON-lines structured logging for hpick.
//
// The picker owns the terminal while it runs, so log records never go to
// stdout or stderr. They are written to a rotating file when one is
// configured and discarded otherwise.
package logging

import (
	"io"
	"log/slog"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output. When nil, File is used.
	Output io.Writer

	// File is the rotating log file. Empty with a nil Output discards logs.
	File string

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// MaxSizeMB is the size in megabytes before the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a JSON-lines logger. The returned closer releases the log file
// and must be called before the process exits.
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"history loaded","records":1200}
func New(cfg Config) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = cfg.Output
		closer io.Closer = nopCloser{}
	)

	if out == nil {
		if cfg.File == "" {
			return slog.New(slog.NewJSONHandler(io.Discard, nil)), closer
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		out, closer = lj, lj
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(out, opts)), closer
}

// ParseLevel maps a config level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogHistoryLoaded logs the outcome of the history load phase.
func LogHistoryLoaded(logger *slog.Logger, path, shell string, records, duplicates int, elapsed time.Duration) {
	logger.Info("history loaded",
		"path", path,
		"shell", shell,
		"records", records,
		"duplicates", duplicates,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// LogRank logs a single re-rank at debug level.
func LogRank(logger *slog.Logger, queryLen, matches int, elapsed time.Duration) {
	logger.Debug("rank",
		"query_len", queryLen,
		"matches", matches,
		"elapsed_us", elapsed.Microseconds(),
	)
}

// LogResult logs how the session ended. The command text is not logged.
func LogResult(logger *slog.Logger, outcome, mode string) {
	logger.Info("session finished", "outcome", outcome, "mode", mode)
}

// LogFatal logs an error that terminates the session.
func LogFatal(logger *slog.Logger, stage string, err error) {
	logger.Error("fatal error", "stage", stage, "error", err)
}
