package picker

import (
	"regexp"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset sequences: ESC ( B, ESC ) B, etc.
//   - Other two-byte escapes: ESC followed by a single byte in [#()*+\-./]
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

const (
	ellipsis    = "\u2026"
	newlineMark = '\u21b5'
)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// cell is one displayed rune of a command and whether it is a matched
// character.
type cell struct {
	r     rune
	match bool
}

// displayCells converts a command into display cells. Escape sequences are
// dropped, newlines become ↵, tabs become spaces, and other control
// characters become '?'. positions are rune offsets into text of matched
// characters; they keep pointing at the same characters after the rewrite.
func displayCells(text string, positions []int) []cell {
	strip := ansiRE.FindAllStringIndex(text, -1)
	cells := make([]cell, 0, len(text))

	runeIdx, next, span := 0, 0, 0
	for byteIdx, r := range text {
		for span < len(strip) && byteIdx >= strip[span][1] {
			span++
		}
		inEscape := span < len(strip) && byteIdx >= strip[span][0]

		matched := false
		for next < len(positions) && positions[next] < runeIdx {
			next++
		}
		if next < len(positions) && positions[next] == runeIdx {
			matched = true
		}
		runeIdx++

		if inEscape {
			continue
		}
		switch {
		case r == '\n':
			r = newlineMark
		case r == '\t':
			r = ' '
		case unicode.IsControl(r):
			r = '?'
		}
		cells = append(cells, cell{r: r, match: matched})
	}
	return cells
}

func cellsWidth(cells []cell) int {
	w := 0
	for _, c := range cells {
		w += runewidth.RuneWidth(c.r)
	}
	return w
}

// truncateCells shortens cells to maxWidth display columns by cutting the
// middle. The returned bool is true when cells were cut; head and tail are
// then the kept ends, to be joined by an ellipsis.
func truncateCells(cells []cell, maxWidth int) (head, tail []cell, cut bool) {
	if maxWidth <= 0 {
		return nil, nil, false
	}
	if cellsWidth(cells) <= maxWidth {
		return cells, nil, false
	}

	// Not enough room for head + ellipsis + tail: just hard-truncate.
	if maxWidth < 3 {
		return prefixCells(cells, maxWidth), nil, false
	}

	// Give one extra column to the head when maxWidth-1 is odd.
	remaining := maxWidth - runewidth.StringWidth(ellipsis)
	headWidth := (remaining + 1) / 2
	tailWidth := remaining / 2

	return prefixCells(cells, headWidth), suffixCells(cells, tailWidth), true
}

// prefixCells returns the longest prefix whose display width does not
// exceed maxWidth.
func prefixCells(cells []cell, maxWidth int) []cell {
	w := 0
	for i, c := range cells {
		rw := runewidth.RuneWidth(c.r)
		if w+rw > maxWidth {
			return cells[:i]
		}
		w += rw
	}
	return cells
}

// suffixCells returns the longest suffix whose display width does not
// exceed maxWidth.
func suffixCells(cells []cell, maxWidth int) []cell {
	w := 0
	start := len(cells)
	for i := len(cells) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(cells[i].r)
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return cells[start:]
}

func cellsString(cells []cell) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		rs[i] = c.r
	}
	return string(rs)
}

// MiddleTruncate truncates a string in the middle with an ellipsis character
// if its display width exceeds maxWidth. It is display-width-aware, correctly
// handling CJK characters and emoji that occupy two columns.
//
// If maxWidth < 3 (minimum for "x...x"), the string is simply truncated from
// the right to fit maxWidth.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	cells := make([]cell, 0, len(s))
	for _, r := range s {
		cells = append(cells, cell{r: r})
	}
	head, tail, cut := truncateCells(cells, maxWidth)
	if !cut {
		return cellsString(head)
	}
	return cellsString(head) + ellipsis + cellsString(tail)
}
