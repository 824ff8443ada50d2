package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

var boardDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestBoard(t *testing.T) (boardModel, *engine.Service) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := engine.NewService(db, engine.WithClock(engine.ClockFunc(func() time.Time { return boardDate })))
	for _, title := range []string{"water", "read"} {
		_, err := svc.CreateTemplate(ctx, engine.TaskDefinition{Title: title, Points: decimal.NewFromInt(2), Target: 2, IsRoutine: true})
		require.NoError(t, err)
	}

	m := newBoardModel(ctx, svc, boardDate, nil)
	return load(t, m), svc
}

func load(t *testing.T, m boardModel) boardModel {
	t.Helper()
	next, _ := m.Update(m.loadCmd()())
	return next.(boardModel)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command until the board settles.
func press(t *testing.T, m boardModel, key tea.KeyMsg) boardModel {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(boardModel)
	for cmd != nil {
		next, cmd = m.Update(cmd())
		m = next.(boardModel)
	}
	return m
}

func TestBoardLoadsMaterializedTasks(t *testing.T) {
	m, _ := newTestBoard(t)

	require.NotNil(t, m.day)
	assert.False(t, m.loading)
	require.Len(t, m.tasks, 2)
	assert.Equal(t, 0, m.points)

	view := m.View()
	assert.Contains(t, view, "2026-03-10")
	assert.Contains(t, view, "water")
	assert.Contains(t, view, "read")
}

func TestBoardIncrementAndNavigate(t *testing.T) {
	m, svc := newTestBoard(t)

	m = press(t, m, runes("+"))
	assert.Equal(t, 1, m.tasks[0].CompletedCount)
	assert.Equal(t, 2, m.points)
	assert.True(t, strings.HasPrefix(m.lastLog, "Incremented"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selected)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selected)

	m = press(t, m, runes("-"))
	assert.Contains(t, m.lastLog, "nothing to do")

	m = press(t, m, runes("K"))
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "read", m.tasks[0].Title)

	tasks, err := svc.Tasks(context.Background(), m.day.ID)
	require.NoError(t, err)
	assert.Equal(t, "read", tasks[0].Title)
	assert.Equal(t, "water", tasks[1].Title)
}

func TestBoardDuplicateAndDelete(t *testing.T) {
	m, _ := newTestBoard(t)

	m = press(t, m, runes("y"))
	require.Len(t, m.tasks, 3)
	assert.Equal(t, "water", m.tasks[2].Title)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.selected)

	m = press(t, m, runes("d"))
	require.Len(t, m.tasks, 2)
	assert.Equal(t, 1, m.selected)
	assert.Equal(t, []string{"water", "read"}, []string{m.tasks[0].Title, m.tasks[1].Title})
}

func TestBoardAppliesEventsForItsDay(t *testing.T) {
	m, _ := newTestBoard(t)

	next, _ := m.Update(eventMsg{ev: engine.Event{Kind: engine.PointsChanged, DayID: m.day.ID, Points: 9}, ok: true})
	m = next.(boardModel)
	assert.Equal(t, 9, m.points)

	next, _ = m.Update(eventMsg{ev: engine.Event{Kind: engine.PointsChanged, DayID: "other", Points: 1}, ok: true})
	m = next.(boardModel)
	assert.Equal(t, 9, m.points)
}
