package history

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// maxLineBytes bounds a single physical line. Longer lines are treated as a
// corrupt history file.
const maxLineBytes = 1024 * 1024

// zshMeta is the zsh metafication marker: the byte after it is XORed with 0x20.
const zshMeta = 0x83

// Entry is one parsed history entry, before de-duplication.
type Entry struct {
	Timestamp time.Time // Zero value if timestamp not available
	Command   string
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineBytes)
	return scanner
}

// isBlank reports whether a command carries no text worth offering.
func isBlank(cmd string) bool {
	return strings.TrimSpace(cmd) == ""
}

func clean(cmd string) string {
	return strings.ToValidUTF8(cmd, "\uFFFD")
}

// --- zsh ---

// parseZsh parses zsh history, plain or extended (`: <ts>:<dur>;<command>`).
// A line ending in an odd number of backslashes continues on the next line.
func parseZsh(r io.Reader) ([]Entry, error) {
	scanner := newScanner(r)

	var p zshParser
	for scanner.Scan() {
		p.processLine(unmetafy(scanner.Bytes()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Flush any pending multiline command
	if p.multilineCmd.Len() > 0 {
		p.add(strings.TrimSuffix(p.multilineCmd.String(), "\n"))
	}
	return p.entries, nil
}

// unmetafy decodes zsh's on-disk encoding of bytes >= 0x80.
func unmetafy(b []byte) string {
	idx := -1
	for i, c := range b {
		if c == zshMeta {
			idx = i
			break
		}
	}
	if idx < 0 {
		return string(b)
	}

	out := make([]byte, 0, len(b))
	out = append(out, b[:idx]...)
	for i := idx; i < len(b); i++ {
		if b[i] == zshMeta && i+1 < len(b) {
			i++
			out = append(out, b[i]^0x20)
			continue
		}
		out = append(out, b[i])
	}
	return string(out)
}

type zshParser struct {
	multilineCmd     strings.Builder
	pendingTimestamp time.Time
	entries          []Entry
}

func (p *zshParser) processLine(line string) {
	if p.multilineCmd.Len() > 0 {
		p.continueMultiline(line)
		return
	}
	p.parseFreshLine(line)
}

func (p *zshParser) continueMultiline(line string) {
	if hasUnescapedTrailingBackslash(line) {
		p.multilineCmd.WriteString(line[:len(line)-1])
		p.multilineCmd.WriteString("\n")
		return
	}
	p.multilineCmd.WriteString(line)
	p.add(p.multilineCmd.String())
	p.multilineCmd.Reset()
}

func (p *zshParser) parseFreshLine(line string) {
	if ts, cmd, ok := splitExtended(line); ok {
		p.pendingTimestamp = ts
		line = cmd
	}
	if hasUnescapedTrailingBackslash(line) {
		p.multilineCmd.WriteString(line[:len(line)-1])
		p.multilineCmd.WriteString("\n")
		return
	}
	p.add(line)
}

func (p *zshParser) add(cmd string) {
	if !isBlank(cmd) {
		p.entries = append(p.entries, Entry{Command: clean(cmd), Timestamp: p.pendingTimestamp})
	}
	p.pendingTimestamp = time.Time{}
}

// splitExtended splits `: <ts>:<dur>;<command>`. Lines that merely start with
// ": " (the shell no-op builtin) are left alone unless both numbers parse.
func splitExtended(line string) (time.Time, string, bool) {
	if !strings.HasPrefix(line, ": ") {
		return time.Time{}, "", false
	}
	semi := strings.IndexByte(line, ';')
	if semi < 0 {
		return time.Time{}, "", false
	}
	meta := strings.TrimSpace(line[2:semi]) // "<ts>:<dur>"
	tsStr, durStr, ok := strings.Cut(meta, ":")
	if !ok {
		return time.Time{}, "", false
	}
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return time.Time{}, "", false
	}
	if _, err := strconv.ParseInt(durStr, 10, 64); err != nil {
		return time.Time{}, "", false
	}
	return time.Unix(ts, 0), line[semi+1:], true
}

func hasUnescapedTrailingBackslash(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// --- bash ---

// parseBash parses bash history. With HISTTIMEFORMAT set, timestamp lines
// of the form #<unix_ts> precede each command.
func parseBash(r io.Reader) ([]Entry, error) {
	var entries []Entry
	var pendingTimestamp time.Time

	scanner := newScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if isBlank(line) {
			continue
		}

		if strings.HasPrefix(line, "#") && len(line) > 1 {
			if ts, err := strconv.ParseInt(line[1:], 10, 64); err == nil {
				pendingTimestamp = time.Unix(ts, 0)
				continue
			}
		}

		entries = append(entries, Entry{Command: clean(line), Timestamp: pendingTimestamp})
		pendingTimestamp = time.Time{}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// --- fish ---

// parseFish parses fish's pseudo-YAML history:
//
//   - cmd: <command>
//     when: <unix_timestamp>
func parseFish(r io.Reader) ([]Entry, error) {
	p := &fishParser{}

	scanner := newScanner(r)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

type fishParser struct {
	currentTimestamp time.Time
	currentCmd       string
	entries          []Entry
	inPaths          bool
}

func (p *fishParser) parseLine(line string) {
	switch {
	case strings.HasPrefix(line, "- cmd: "):
		p.flush()
		p.currentCmd = strings.TrimPrefix(line, "- cmd: ")
		p.inPaths = false
	case strings.HasPrefix(line, "  when: "):
		if ts, err := strconv.ParseInt(strings.TrimPrefix(line, "  when: "), 10, 64); err == nil {
			p.currentTimestamp = time.Unix(ts, 0)
		}
		p.inPaths = false
	case strings.HasPrefix(line, "  paths:"):
		p.inPaths = true
	case p.inPaths && strings.HasPrefix(line, "    "):
	case !strings.HasPrefix(line, " "):
		p.inPaths = false
	}
}

func (p *fishParser) flush() {
	if !isBlank(p.currentCmd) {
		p.entries = append(p.entries, Entry{
			Command:   clean(decodeFishEscapes(p.currentCmd)),
			Timestamp: p.currentTimestamp,
		})
	}
	p.currentCmd = ""
	p.currentTimestamp = time.Time{}
}

func (p *fishParser) finish() []Entry {
	p.flush()
	return p.entries
}

// decodeFishEscapes decodes fish shell escape sequences.
// Fish uses: \\ for literal backslash, \n for newline.
func decodeFishEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				result.WriteByte('\\')
				i++
				continue
			case 'n':
				result.WriteByte('\n')
				i++
				continue
			}
		}
		result.WriteByte(s[i])
	}
	return result.String()
}
