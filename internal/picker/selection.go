package picker

import (
	"unicode"

	"github.com/runger/hpick/internal/handoff"
)

// Selection is the user-visible state of a picker session. Transitions
// return a new value; the receiver is never modified.
type Selection struct {
	Query  string
	Cursor int // Index into the ranked list
	Mode   handoff.Mode
}

// Insert appends printable runes to the query. Control characters are
// dropped. The cursor returns to the top when the query changes.
func (s Selection) Insert(rs []rune) Selection {
	buf := []rune(s.Query)
	n := len(buf)
	for _, r := range rs {
		if unicode.IsControl(r) {
			continue
		}
		buf = append(buf, r)
	}
	if len(buf) == n {
		return s
	}
	s.Query = string(buf)
	s.Cursor = 0
	return s
}

// DeleteBackward removes the last rune of the query.
func (s Selection) DeleteBackward() Selection {
	if s.Query == "" {
		return s
	}
	rs := []rune(s.Query)
	s.Query = string(rs[:len(rs)-1])
	s.Cursor = 0
	return s
}

// ClearQuery empties the query.
func (s Selection) ClearQuery() Selection {
	if s.Query == "" {
		return s
	}
	s.Query = ""
	s.Cursor = 0
	return s
}

// Next moves the cursor one row down a list of n matches, stopping at the end.
func (s Selection) Next(n int) Selection {
	if s.Cursor < n-1 {
		s.Cursor++
	}
	return s
}

// Prev moves the cursor one row up, stopping at the top.
func (s Selection) Prev() Selection {
	if s.Cursor > 0 {
		s.Cursor--
	}
	return s
}

// ToggleMode switches between edit and execute.
func (s Selection) ToggleMode() Selection {
	s.Mode = s.Mode.Toggle()
	return s
}

// Clamp keeps the cursor inside a list of n matches. With n == 0 the cursor
// is 0 and there is no selected row.
func (s Selection) Clamp(n int) Selection {
	switch {
	case n <= 0 || s.Cursor < 0:
		s.Cursor = 0
	case s.Cursor >= n:
		s.Cursor = n - 1
	}
	return s
}
