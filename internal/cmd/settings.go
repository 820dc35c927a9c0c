package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/runger/hpick/internal/config"
	"github.com/runger/hpick/internal/history"
	"github.com/runger/hpick/internal/logging"
)

// loadConfig loads the config file and applies command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("shell") {
		cfg.History.Shell = flagShell
	}
	if flags.Changed("history-file") {
		cfg.History.File = flagHistoryFile
	}
	if flags.Changed("matcher") {
		cfg.Picker.Matcher = flagMatcher
	}
	if flags.Changed("result-file") {
		cfg.Picker.ResultFile = pickerResultFile
	}
	if flags.Changed("layout") {
		cfg.Picker.Layout = pickerLayout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// newLogger builds the debug logger described by cfg.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	return logging.New(logging.Config{
		File:       cfg.Log.File,
		Level:      logging.ParseLevel(cfg.Log.Level),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
}

// loadHistory resolves the history source from cfg and loads it.
func loadHistory(cfg *config.Config, logger *slog.Logger) (history.CandidateSet, error) {
	src := history.ResolveSource(cfg.History.Shell, cfg.History.File, cfg.History.MaxEntries)
	loader := &history.Loader{Logger: logger}
	return loader.Load(src)
}
