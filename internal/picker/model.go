package picker

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/hpick/internal/fuzzy"
	"github.com/runger/hpick/internal/handoff"
	"github.com/runger/hpick/internal/logging"
)

// Layout controls the vertical arrangement of the picker.
type Layout int

const (
	// LayoutDefault puts the query on top and the best match below it.
	LayoutDefault Layout = iota
	// LayoutReverse puts the query at the bottom with the list growing
	// upward, so the best match sits next to the prompt.
	LayoutReverse
)

// ParseLayout maps a config value to a Layout. Unknown values are the default.
func ParseLayout(s string) Layout {
	if s == "reverse" {
		return LayoutReverse
	}
	return LayoutDefault
}

// Model is the Bubble Tea model for the history picker.
type Model struct {
	ranker  Ranker
	keys    KeyMap
	help    help.Model
	sel     Selection
	matches []fuzzy.Match
	offset  int // First visible row of matches

	layout   Layout
	width    int
	height   int
	showTime bool
	now      func() time.Time
	logger   *slog.Logger

	result    *handoff.Result
	cancelled bool
}

// NewModel creates a picker over r with an empty query.
func NewModel(r Ranker) Model {
	m := Model{
		ranker: r,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		now:    time.Now,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	m.rerank()
	return m
}

// WithQuery sets the initial query.
func (m Model) WithQuery(q string) Model {
	m.sel = m.sel.Insert([]rune(q))
	m.rerank()
	return m
}

// WithMode sets the initial commit mode.
func (m Model) WithMode(mode handoff.Mode) Model {
	m.sel.Mode = mode
	return m
}

// WithLayout sets the layout.
func (m Model) WithLayout(l Layout) Model {
	m.layout = l
	return m
}

// WithKeyMap replaces the key bindings.
func (m Model) WithKeyMap(k KeyMap) Model {
	m.keys = k
	return m
}

// WithSize sets the terminal size used until the first WindowSizeMsg.
func (m Model) WithSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	m.scrollToCursor()
	return m
}

// WithShowTime enables the relative age column. now supplies the reference
// time; nil means time.Now.
func (m Model) WithShowTime(show bool, now func() time.Time) Model {
	m.showTime = show
	if now != nil {
		m.now = now
	}
	return m
}

// WithLogger sets the logger used for rank timing.
func (m Model) WithLogger(l *slog.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// Selection returns the current selection state.
func (m Model) Selection() Selection {
	return m.sel
}

// Matches returns the ranked list currently shown.
func (m Model) Matches() []fuzzy.Match {
	return m.matches
}

// Result returns the committed result. ok is false when the session was
// cancelled or is still running.
func (m Model) Result() (handoff.Result, bool) {
	if m.result == nil {
		return handoff.Result{}, false
	}
	return *m.result, true
}

// IsCancelled reports whether the user cancelled the session.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// Init implements tea.Model. Ranking is synchronous, so there is nothing to
// start.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil
	}

	return m, nil
}

// handleKey maps a key to a logical action and applies it to the selection.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Accept):
		return m.commit(m.sel.Mode)

	case key.Matches(msg, m.keys.Execute):
		return m.commit(handoff.ModeExecute)

	case key.Matches(msg, m.keys.ToggleMode):
		m.sel = m.sel.ToggleMode()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		// The reverse layout draws the list upward, so "up" moves away from
		// the best match.
		if m.layout == LayoutReverse {
			m.sel = m.sel.Next(len(m.matches))
		} else {
			m.sel = m.sel.Prev()
		}
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.layout == LayoutReverse {
			m.sel = m.sel.Prev()
		} else {
			m.sel = m.sel.Next(len(m.matches))
		}
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.setSelection(m.sel.DeleteBackward()), nil

	case key.Matches(msg, m.keys.Clear):
		return m.setSelection(m.sel.ClearQuery()), nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return m, nil
		}
		return m.setSelection(m.sel.Insert(msg.Runes)), nil
	}

	return m, nil
}

// setSelection applies a query transition, re-ranking when the query changed.
func (m Model) setSelection(next Selection) Model {
	changed := next.Query != m.sel.Query
	m.sel = next
	if changed {
		m.rerank()
	}
	return m
}

// commit records the match under the cursor and ends the session. With no
// matches it does nothing and the session continues.
func (m Model) commit(mode handoff.Mode) (tea.Model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}
	m.result = &handoff.Result{
		Mode:    mode,
		Command: m.matches[m.sel.Cursor].Record.Text,
	}
	return m, tea.Quit
}

// rerank recomputes the list for the current query and resets the window.
func (m *Model) rerank() {
	start := time.Now()
	m.matches = m.ranker.Rank(m.sel.Query)
	logging.LogRank(m.logger, len(m.sel.Query), len(m.matches), time.Since(start))

	m.sel = m.sel.Clamp(len(m.matches))
	m.offset = 0
	m.scrollToCursor()
}

// scrollToCursor moves the window so the cursor row is visible.
func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.sel.Cursor < m.offset {
		m.offset = m.sel.Cursor
	}
	if m.sel.Cursor >= m.offset+h {
		m.offset = m.sel.Cursor - h + 1
	}
	if maxOffset := len(m.matches) - h; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
}

// listHeight returns the number of visible list rows (terminal height minus
// the query, status, and help lines).
func (m Model) listHeight() int {
	const chrome = 3
	h := m.height - chrome
	if m.height == 0 {
		h = 20 // Sensible default before the size is known
	}
	if h < 1 {
		h = 1
	}
	return h
}
