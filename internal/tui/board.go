package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
)

// RunBoard opens the interactive board for date.
func RunBoard(ctx context.Context, svc *engine.Service, date time.Time, out io.Writer) error {
	events, cancel := svc.Subscribe(0)
	defer cancel()

	m := newBoardModel(ctx, svc, date, events)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
