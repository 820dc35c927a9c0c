package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/hpick/internal/config"
	"github.com/runger/hpick/internal/fuzzy"
	"github.com/runger/hpick/internal/handoff"
	"github.com/runger/hpick/internal/logging"
	"github.com/runger/hpick/internal/picker"
)

// maxQueryLen is the maximum length of a query string in bytes.
const maxQueryLen = 4096

var (
	pickerQuery      string
	pickerResultFile string
	pickerLayout     string
	pickerMode       string
)

// runPicker runs one interactive session: check the terminal, load history,
// run the UI, and write the result.
func runPicker(cmd *cobra.Command, _ []string) error {
	query, err := sanitizeQuery(pickerQuery)
	if err != nil {
		return fmt.Errorf("--query: %w", err)
	}
	mode, err := handoff.ParseMode(pickerMode)
	if err != nil {
		return fmt.Errorf("--mode: %w", err)
	}

	// Without a usable terminal the widget falls back to native search.
	if err := checkTERM(); err != nil {
		return fallback(err)
	}
	tty, width, height, err := openTTY()
	if err != nil {
		return fallback(err)
	}
	defer tty.Close()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer := newLogger(cfg)
	defer closer.Close()

	paths := config.DefaultPaths()
	if err := os.MkdirAll(paths.CacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	lock, err := acquireLock(paths.LockFile())
	if err != nil {
		return fallback(err)
	}
	defer releaseLock(lock)

	set, err := loadHistory(cfg, logger)
	if err != nil {
		logging.LogFatal(logger, "load", err)
		return err
	}

	resultPath := cfg.ResultFile()
	if err := handoff.Clear(resultPath); err != nil {
		err = &handoff.EmitError{Path: resultPath, Err: err}
		logging.LogFatal(logger, "clear", err)
		return err
	}

	ranker, err := fuzzy.New(cfg.Picker.Matcher, set)
	if err != nil {
		return err
	}

	model := picker.NewModel(ranker).
		WithKeyMap(picker.NewKeyMap(cfg.Picker.Keys)).
		WithLayout(picker.ParseLayout(cfg.Picker.Layout)).
		WithShowTime(cfg.Picker.ShowTime, nil).
		WithSize(width, height).
		WithLogger(logger).
		WithMode(mode).
		WithQuery(query)

	// Detect color profile from the tty and apply it to the default renderer.
	// When invoked from a shell widget, stdout may be redirected so lipgloss
	// would default to Ascii (no color). We detect from the real tty instead.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	final, err := picker.Run(cmd.Context(), model, tty, tty)
	if err != nil {
		logging.LogFatal(logger, "render", err)
		return err
	}

	r, ok := final.Result()
	if !ok {
		logging.LogResult(logger, "cancel", "")
		return nil
	}
	if err := handoff.Emit(resultPath, r); err != nil {
		logging.LogFatal(logger, "emit", err)
		return err
	}
	logging.LogResult(logger, "commit", r.Mode.String())
	return nil
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}

	// Reject newlines before stripping.
	if strings.ContainsAny(q, "\n\r") {
		return "", fmt.Errorf("query must not contain newlines")
	}

	var b strings.Builder
	b.Grow(len(q))
	for _, r := range strings.ToValidUTF8(q, string(utf8.RuneError)) {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()

	// Truncate to maxQueryLen bytes without splitting a rune.
	if len(result) > maxQueryLen {
		cut := maxQueryLen
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}
		result = result[:cut]
	}

	return result, nil
}
