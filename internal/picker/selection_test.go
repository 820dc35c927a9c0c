package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runger/hpick/internal/handoff"
)

func TestSelection_Insert(t *testing.T) {
	s := Selection{Query: "gi", Cursor: 3}

	s = s.Insert([]rune("t"))
	assert.Equal(t, "git", s.Query)
	assert.Equal(t, 0, s.Cursor)
}

func TestSelection_InsertDropsControlCharacters(t *testing.T) {
	s := Selection{Cursor: 2}.Insert([]rune("a\x1b\nb"))
	assert.Equal(t, "ab", s.Query)

	// Nothing printable: no change at all.
	s = Selection{Query: "x", Cursor: 2}.Insert([]rune("\x07"))
	assert.Equal(t, Selection{Query: "x", Cursor: 2}, s)
}

func TestSelection_DeleteBackward(t *testing.T) {
	s := Selection{Query: "échö", Cursor: 1}.DeleteBackward()
	assert.Equal(t, "éch", s.Query)
	assert.Equal(t, 0, s.Cursor)

	empty := Selection{Cursor: 1}
	assert.Equal(t, empty, empty.DeleteBackward())
}

func TestSelection_ClearQuery(t *testing.T) {
	s := Selection{Query: "git", Cursor: 4, Mode: handoff.ModeExecute}.ClearQuery()
	assert.Equal(t, Selection{Mode: handoff.ModeExecute}, s)
}

func TestSelection_NextPrev(t *testing.T) {
	s := Selection{}
	s = s.Next(3)
	s = s.Next(3)
	assert.Equal(t, 2, s.Cursor)
	s = s.Next(3)
	assert.Equal(t, 2, s.Cursor, "stops at the last row")

	s = s.Prev().Prev().Prev()
	assert.Equal(t, 0, s.Cursor, "stops at the first row")

	assert.Equal(t, 0, Selection{}.Next(0).Cursor)
}

func TestSelection_ToggleModeKeepsQueryAndCursor(t *testing.T) {
	s := Selection{Query: "ls", Cursor: 1}
	s = s.ToggleMode()
	assert.Equal(t, Selection{Query: "ls", Cursor: 1, Mode: handoff.ModeExecute}, s)
	assert.Equal(t, handoff.ModeEdit, s.ToggleMode().Mode)
}

func TestSelection_Clamp(t *testing.T) {
	tests := []struct {
		cursor, n, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{5, 3, 2},
		{-1, 3, 0},
		{1, 3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Selection{Cursor: tt.cursor}.Clamp(tt.n).Cursor, "cursor %d n %d", tt.cursor, tt.n)
	}
}
