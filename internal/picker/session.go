package picker

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderError reports a failure of the terminal UI: the terminal could not
// be put into raw mode, read from, or written to.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("terminal: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Run drives m on the alternate screen of the terminal behind in and out
// until the user commits or cancels. The terminal is restored before Run
// returns, on every path. Cancelling ctx ends the session like the cancel
// key: the returned model is cancelled and the error is nil.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) (Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		m.cancelled = true
		return m, nil
	}
	if err != nil {
		return m, &RenderError{Err: err}
	}

	fm, ok := final.(Model)
	if !ok {
		return m, &RenderError{Err: fmt.Errorf("unexpected model type %T", final)}
	}
	return fm, nil
}
