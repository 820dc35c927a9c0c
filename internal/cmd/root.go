package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes.
// These match the expectations of the shell widget:
//
//	0 = committed or cancelled (read the result file if present)
//	1 = error (history, terminal, or result file)
//	2 = fallback to native history search (no usable terminal)
const (
	exitSuccess  = 0
	exitFailure  = 1
	exitFallback = 2
)

// exitError carries a specific exit code out of a command. A nil err exits
// silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func fallback(err error) error { return &exitError{code: exitFallback, err: err} }

// Flags shared by the picker and its subcommands.
var (
	flagShell       string
	flagHistoryFile string
	flagMatcher     string
)

var rootCmd = &cobra.Command{
	Use:   "hpick",
	Short: "Fuzzy-find a command in your shell history",
	Long: `hpick - interactive fuzzy finder over shell history

Type to filter, move with the arrow keys, press Enter to put the command
on your prompt or Ctrl+E to run it. The choice is written to the result
file for the shell widget to pick up.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPicker,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGTERM)
	defer stop()
	return exitCode(rootCmd.ExecuteContext(ctx))
}

// exitCode reports err on stderr and maps it to an exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "hpick: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "hpick: %v\n", err)
	return exitFailure
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagShell, "shell", "", "history format: zsh, bash, or fish (default: detect from $SHELL)")
	pf.StringVar(&flagHistoryFile, "history-file", "", "history file to read (default: $HISTFILE or the shell default)")
	pf.StringVar(&flagMatcher, "matcher", "", "matcher backend: native or sahilm")
	pf.StringVar(&pickerResultFile, "result-file", "", "hand-off file for the chosen command")

	f := rootCmd.Flags()
	f.StringVar(&pickerQuery, "query", "", "initial search query (max 4096 bytes)")
	f.StringVar(&pickerLayout, "layout", "", "layout: default or reverse")
	f.StringVar(&pickerMode, "mode", "edit", "initial mode: edit or exec")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
