package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/hpick/internal/handoff"
)

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Print the last committed selection",
	Long: `Print the result of the last picker session in the hand-off format
"<mode> <command>", where mode is edit or exec. The command is on one
line: backslashes, newlines and carriage returns appear as \\, \n and \r.

Exits with status 1 and prints nothing when there is no result, for
example after the session was cancelled.`,
	Args: cobra.NoArgs,
	RunE: runResult,
}

func runResult(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.ResultFile()
	r, ok, err := handoff.Read(path)
	if err != nil {
		return fmt.Errorf("read result %s: %w", path, err)
	}
	if !ok {
		return &exitError{code: exitFailure}
	}

	_, err = cmd.OutOrStdout().Write(handoff.Encode(r))
	return err
}
