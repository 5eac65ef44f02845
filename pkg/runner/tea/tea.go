package teaui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/query"
)

// Run launches the journal browser and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, svc *app.Service, caller query.Caller) error {
	m := New(svc, caller)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
