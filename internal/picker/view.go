package picker

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/runger/hpick/internal/handoff"
)

// ageWidth fits the longest go-humanize relative time ("a long while ago").
const ageWidth = 16

var (
	selectedStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	matchSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	truncStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	queryStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cursorStyle        = lipgloss.NewStyle().Reverse(true)
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	editBadgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	execBadgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160"))
)

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{
		m.viewQuery(),
		m.viewList(),
		m.viewStatus(),
		m.help.View(m.keys),
	}
	if m.layout == LayoutReverse {
		for i, j := 0, len(sections)-1; i < j; i, j = i+1, j-1 {
			sections[i], sections[j] = sections[j], sections[i]
		}
	}
	return strings.Join(sections, "\n")
}

// viewQuery renders the prompt, the query, and the mode badge.
func (m Model) viewQuery() string {
	badge := editBadgeStyle.Render(" EDIT ")
	if m.sel.Mode == handoff.ModeExecute {
		badge = execBadgeStyle.Render(" EXEC ")
	}
	return queryStyle.Render("> ") + m.sel.Query + cursorStyle.Render(" ") + "  " + badge
}

// viewStatus renders the match counter. The reverse layout turns it into a
// separator between the list and the prompt.
func (m Model) viewStatus() string {
	status := fmt.Sprintf("  %d/%d ", len(m.matches), m.ranker.Len())
	if m.layout != LayoutReverse {
		return dimStyle.Render(status)
	}
	rule := m.width - len(status)
	if rule < 2 {
		rule = 2
	}
	return dimStyle.Render(status + strings.Repeat("─", rule))
}

// viewList renders the visible window of the ranked list.
func (m Model) viewList() string {
	h := m.listHeight()

	var rows []string
	if len(m.matches) == 0 {
		msg := "No matches"
		if m.ranker.Len() == 0 {
			msg = "No history"
		}
		rows = append(rows, dimStyle.Render("  "+msg))
	} else {
		end := min(m.offset+h, len(m.matches))
		for i := m.offset; i < end; i++ {
			rows = append(rows, m.renderRow(i))
		}
	}

	if m.layout == LayoutReverse {
		// Best match nearest the prompt, padded so the list hugs the bottom.
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
		if pad := h - len(rows); pad > 0 {
			rows = append(make([]string, pad), rows...)
		}
	}

	return strings.Join(rows, "\n")
}

// renderRow renders match i with its selection marker and optional age.
func (m Model) renderRow(i int) string {
	match := m.matches[i]
	base, hl, marker := normalStyle, matchStyle, "  "
	if i == m.sel.Cursor {
		base, hl, marker = selectedStyle, matchSelectedStyle, "> "
	}

	avail := m.width - len(marker)
	if m.width == 0 {
		avail = 78
	}

	var b strings.Builder
	b.WriteString(base.Render(marker))
	if m.showTime {
		age := formatAge(match.Record.Timestamp, m.now())
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-*s", ageWidth, age)))
		b.WriteString(" ")
		avail -= ageWidth + 1
	}
	b.WriteString(renderCommand(match.Record.Text, match.Positions, avail, base, hl))
	return b.String()
}

// renderCommand renders text in at most width columns, highlighting the
// characters at positions. Long commands lose their middle.
func renderCommand(text string, positions []int, width int, base, hl lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	head, tail, cut := truncateCells(displayCells(text, positions), width)
	if !cut {
		return renderCells(head, base, hl)
	}
	return renderCells(head, base, hl) + truncStyle.Render(ellipsis) + renderCells(tail, base, hl)
}

// renderCells renders runs of matched and unmatched cells with their styles.
func renderCells(cells []cell, base, hl lipgloss.Style) string {
	var b strings.Builder
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && cells[end].match == cells[start].match {
			end++
		}
		style := base
		if cells[start].match {
			style = hl
		}
		b.WriteString(style.Render(cellsString(cells[start:end])))
		start = end
	}
	return b.String()
}

// formatAge renders a record timestamp relative to now. Records without a
// timestamp have no age.
func formatAge(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
