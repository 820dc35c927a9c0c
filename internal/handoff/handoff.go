// Package handoff writes the picker's result to the file the shell widget
// reads after the picker exits.
package handoff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Mode tells the shell widget what to do with the chosen command.
type Mode int

const (
	// ModeEdit places the command on the prompt for editing.
	ModeEdit Mode = iota
	// ModeExecute runs the command immediately.
	ModeExecute
)

// String returns the on-disk token for m.
func (m Mode) String() string {
	if m == ModeExecute {
		return "exec"
	}
	return "edit"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeExecute {
		return ModeEdit
	}
	return ModeExecute
}

// ParseMode parses an on-disk mode token.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "edit":
		return ModeEdit, nil
	case "exec":
		return ModeExecute, nil
	default:
		return ModeEdit, fmt.Errorf("unknown mode %q", s)
	}
}

// Result is a committed selection.
type Result struct {
	Mode    Mode
	Command string
}

// EmitError reports a result that could not be written.
type EmitError struct {
	Path string
	Err  error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("write result %s: %v", e.Path, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

// commandEscaper keeps a command on one physical line. printf '%b' in the
// shell widget reverses it.
var commandEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

// Encode returns the file contents for r: "<mode> <command>\n". Backslashes,
// newlines and carriage returns in the command are escaped as \\, \n and \r
// so the file is always a single line.
func Encode(r Result) []byte {
	return []byte(r.Mode.String() + " " + commandEscaper.Replace(r.Command) + "\n")
}

// Decode parses file contents written by Encode. Everything after the first
// space up to the final newline is the escaped command.
func Decode(data []byte) (Result, error) {
	s := strings.TrimSuffix(string(data), "\n")
	if strings.ContainsAny(s, "\n\r") {
		return Result{}, errors.New("malformed result: more than one line")
	}
	token, cmd, ok := strings.Cut(s, " ")
	if !ok {
		return Result{}, fmt.Errorf("malformed result %q", s)
	}
	mode, err := ParseMode(token)
	if err != nil {
		return Result{}, err
	}
	return Result{Mode: mode, Command: unescapeCommand(cmd)}, nil
}

// unescapeCommand reverses commandEscaper. Unknown escapes are kept as is.
func unescapeCommand(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(c)
			continue
		}
		i++
	}
	return b.String()
}

// Emit replaces the file at path with r. The file is written to a temporary
// name in the same directory and renamed into place, so a reader sees either
// the old contents or the complete new result.
func Emit(path string, r Result) error {
	if err := emit(path, Encode(r)); err != nil {
		return &EmitError{Path: path, Err: err}
	}
	return nil
}

func emit(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Clear removes any previous result. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Read returns the result at path. ok is false when no result is present.
func Read(path string) (r Result, ok bool, err error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the configured result file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, false, nil
		}
		return Result{}, false, err
	}
	r, err = Decode(data)
	if err != nil {
		return Result{}, false, err
	}
	return r, true, nil
}
