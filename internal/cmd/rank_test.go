package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankHistory(t *testing.T) string {
	t.Helper()
	return writeBashHistory(t,
		"git commit -m x",
		"ls",
		"git checkout main",
		"ls",
		"go build",
	)
}

func outputLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestRank_EmptyQueryListsByRecency(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist)
	require.NoError(t, err)
	assert.Equal(t, []string{"go build", "ls", "git checkout main", "git commit -m x"}, outputLines(out))
}

func TestRank_FiltersBySubsequence(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "gc")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"git checkout main", "git commit -m x"}, outputLines(out))
}

func TestRank_Limit(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go build"}, outputLines(out))
}

func TestRank_NegativeLimit(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	_, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "--limit", "-1")
	assert.Error(t, err)
}

func TestRank_Scores(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "--scores", "ls")
	require.NoError(t, err)
	lines := outputLines(out)
	require.NotEmpty(t, lines)
	re := regexp.MustCompile(`^\s*-?\d+  \S`)
	for _, l := range lines {
		assert.Regexp(t, re, l)
	}
}

func TestRank_SahilmMatcher(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "--matcher", "sahilm", "gc")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"git checkout main", "git commit -m x"}, outputLines(out))
}

func TestRank_UnknownMatcher(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	_, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "--matcher", "regex")
	assert.Error(t, err)
}

func TestRank_MissingHistoryIsEmpty(t *testing.T) {
	isolateHome(t)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", "/nonexistent/bash_history")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRank_MultilineShownOnOneLine(t *testing.T) {
	isolateHome(t)
	hist := filepath.Join(t.TempDir(), "zsh_history")
	data := ": 1700000000:0;ls\n: 1700000010:0;for f in *; do\\\necho $f\\\ndone\n"
	require.NoError(t, os.WriteFile(hist, []byte(data), 0o600))

	out, err := executeCommand(t, "rank", "--shell", "zsh", "--history-file", hist, "echo")
	require.NoError(t, err)
	assert.Equal(t, []string{"for f in *; do\u21b5echo $f\u21b5done"}, outputLines(out))
}

func TestRank_StripsEscapeSequences(t *testing.T) {
	isolateHome(t)
	hist := writeBashHistory(t, "printf '\x1b[31mred\x1b[0m'")

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "red")
	require.NoError(t, err)
	assert.Equal(t, []string{"printf 'red'"}, outputLines(out))
}

func TestRank_Width(t *testing.T) {
	isolateHome(t)
	hist := writeBashHistory(t, "kubectl get pods --all-namespaces -o wide", "ls")

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "--width", "20", "kubectl")
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl ge…s -o wide"}, outputLines(out))

	_, err = executeCommand(t, "rank", "--shell", "bash", "--history-file", hist, "--width", "-1")
	assert.Error(t, err)
}
