// Package history loads shell history files into an ordered, de-duplicated
// candidate set for the picker.
package history

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/runger/hpick/internal/logging"
)

// Record is a single command from the history source.
type Record struct {
	// Text is the command verbatim, with any timestamp prefix removed.
	Text string
	// Seq is the position of the record in the source (0 = oldest).
	// It breaks score ties: higher Seq is more recent.
	Seq int
	// Timestamp is the stripped timestamp prefix, zero when absent.
	Timestamp time.Time
}

// CandidateSet is the ordered set of records offered to the matcher, most
// recent first. Each Text appears at most once.
type CandidateSet []Record

// Source describes where history is read from.
type Source struct {
	Path       string
	Shell      string // zsh, bash, or fish
	MaxEntries int    // Most recent unique records kept (0 = unlimited)
}

// LoadError reports a history source that exists but cannot be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load history %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads a Source into a CandidateSet.
type Loader struct {
	Logger *slog.Logger
	// Now is used for elapsed time reporting; defaults to time.Now.
	Now func() time.Time
}

// Load reads src with a Loader that does not log.
func Load(src Source) (CandidateSet, error) {
	return (&Loader{}).Load(src)
}

// Load reads and parses src. A missing file yields an empty set and no error;
// any other failure is a *LoadError. The file is closed before Load returns.
func (l *Loader) Load(src Source) (CandidateSet, error) {
	now := l.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	if src.Path == "" {
		return CandidateSet{}, nil
	}

	entries, err := readFile(src.Path, src.Shell)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CandidateSet{}, nil
		}
		return nil, &LoadError{Path: src.Path, Err: err}
	}

	set, dupes := Dedupe(entries)
	if src.MaxEntries > 0 && len(set) > src.MaxEntries {
		set = set[:src.MaxEntries]
	}

	if l.Logger != nil {
		logging.LogHistoryLoaded(l.Logger, src.Path, src.Shell, len(set), dupes, now().Sub(start))
	}
	return set, nil
}

func readFile(path, shell string) ([]Entry, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is from user's HISTFILE or well-known default
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(shell, f)
}

// Parse parses history in the given shell's format from r, oldest first.
func Parse(shell string, r io.Reader) ([]Entry, error) {
	switch shell {
	case "bash":
		return parseBash(r)
	case "fish":
		return parseFish(r)
	default:
		return parseZsh(r)
	}
}

// Dedupe converts parsed entries (oldest first) into a CandidateSet (most
// recent first), keeping only the most recent occurrence of each command.
// It returns the number of entries dropped as duplicates.
func Dedupe(entries []Entry) (CandidateSet, int) {
	seen := make(map[string]struct{}, len(entries))
	set := make(CandidateSet, 0, len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if _, ok := seen[e.Command]; ok {
			continue
		}
		seen[e.Command] = struct{}{}
		set = append(set, Record{Text: e.Command, Seq: i, Timestamp: e.Timestamp})
	}

	return set, len(entries) - len(set)
}

// ResolveSource fills in the shell and path for a history source.
// Precedence for the path: explicit path, $HISTFILE, then the shell default.
// An empty or "auto" shell is detected from $SHELL, falling back to zsh.
func ResolveSource(shell, path string, maxEntries int) Source {
	if shell == "" || shell == "auto" {
		shell = DetectShell()
		if shell == "" {
			shell = "zsh"
		}
	}
	if path == "" {
		path = defaultHistoryPath(shell)
	}
	return Source{Path: expandHome(path), Shell: shell, MaxEntries: maxEntries}
}

// DetectShell returns the shell name based on the SHELL environment variable.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return ""
	}
	switch filepath.Base(shell) {
	case "bash":
		return "bash"
	case "zsh":
		return "zsh"
	case "fish":
		return "fish"
	default:
		return ""
	}
}

func defaultHistoryPath(shell string) string {
	// fish ignores HISTFILE.
	if shell == "fish" {
		return fishHistoryPath()
	}
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return histFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if shell == "bash" {
		return filepath.Join(home, ".bash_history")
	}
	return filepath.Join(home, ".zsh_history")
}

func fishHistoryPath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "fish", "fish_history")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "fish", "fish_history")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
