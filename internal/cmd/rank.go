package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/hpick/internal/fuzzy"
	"github.com/runger/hpick/internal/picker"
)

var (
	rankLimit  int
	rankScores bool
	rankWidth  int
)

var rankCmd = &cobra.Command{
	Use:   "rank [query]",
	Short: "Print history ranked against a query",
	Long: `Rank history against a query without the interactive picker.

Matches are printed best first, one per line. Newlines inside multi-line
commands are shown as ↵ and terminal escape sequences are removed. With
--width, long commands lose their middle to fit.

Examples:
  hpick rank gc                 # Commands matching "gc"
  hpick rank --limit 5 docker   # Top five docker commands
  hpick rank --scores "git st"  # Include match scores
  hpick rank --width 60 kubectl # Fit each line in 60 columns`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "maximum number of results (0 = all)")
	rankCmd.Flags().BoolVar(&rankScores, "scores", false, "prefix each result with its score")
	rankCmd.Flags().IntVar(&rankWidth, "width", 0, "truncate commands to this many columns (0 = no limit)")
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	if rankWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}

	var query string
	if len(args) > 0 {
		q, err := sanitizeQuery(args[0])
		if err != nil {
			return err
		}
		query = q
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer := newLogger(cfg)
	defer closer.Close()

	set, err := loadHistory(cfg, logger)
	if err != nil {
		return err
	}

	ranker, err := fuzzy.New(cfg.Picker.Matcher, set)
	if err != nil {
		return err
	}

	matches := ranker.Rank(query)
	if rankLimit > 0 && len(matches) > rankLimit {
		matches = matches[:rankLimit]
	}

	out := cmd.OutOrStdout()
	for _, m := range matches {
		text := picker.StripANSI(strings.ReplaceAll(m.Record.Text, "\n", "↵"))
		if rankWidth > 0 {
			text = picker.MiddleTruncate(text, rankWidth)
		}
		if rankScores {
			fmt.Fprintf(out, "%6d  %s\n", m.Score, text)
		} else {
			fmt.Fprintln(out, text)
		}
	}
	return nil
}
