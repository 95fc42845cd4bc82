package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"layerspeed/internal/session"
)

func clipboardCopy(text string) {
	termenv.Copy(text)
}

// Run starts the interactive session on out and blocks until the user quits.
// The returned session holds every edit made during the run.
func Run(ctx context.Context, out io.Writer, opts Options) (*session.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx
	model := NewModel(opts)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return model.Session(), fmt.Errorf("interactive session: %w", err)
	}
	return model.Session(), nil
}
