package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/storage"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	date   time.Time
	events <-chan engine.Event

	width  int
	height int

	day      *storage.Day
	tasks    []storage.Task
	points   int
	progress float64
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	day   *storage.Day
	tasks []storage.Task
	err   error
}

type mutatedMsg struct {
	verb string
	res  *engine.Result
	err  error
}

type eventMsg struct {
	ev engine.Event
	ok bool
}

func newBoardModel(ctx context.Context, svc *engine.Service, date time.Time, events <-chan engine.Event) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		date:    date,
		events:  events,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitEvent())
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		day, tasks, err := m.svc.TasksForDate(m.ctx, m.date)
		return loadedMsg{day: day, tasks: tasks, err: err}
	}
}

// waitEvent blocks on the subscription; it is re-armed after every event.
func (m boardModel) waitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.events
		return eventMsg{ev: ev, ok: ok}
	}
}

func (m boardModel) mutateCmd(verb string, fn func() (*engine.Result, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := fn()
		return mutatedMsg{verb: verb, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = ui.IconWarn + " Load failed: " + msg.err.Error()
			return m, nil
		}
		m.day = msg.day
		m.tasks = msg.tasks
		m.points = engine.ComputeAggregate(m.tasks)
		m.progress = engine.ComputeProgress(m.points, m.day.Target*len(m.tasks))
		m.clampSelection()
		return m, nil
	case eventMsg:
		if !msg.ok {
			return m, nil
		}
		if m.day != nil && msg.ev.DayID == m.day.ID {
			switch msg.ev.Kind {
			case engine.PointsChanged:
				m.points = msg.ev.Points
			case engine.ProgressChanged:
				m.progress = msg.ev.Progress
			}
		}
		return m, m.waitEvent()
	case mutatedMsg:
		if msg.err != nil {
			m.lastLog = ui.IconWarn + " " + msg.verb + " failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.res.Changed {
			m.lastLog = fmt.Sprintf("%s: nothing to do for %q.", msg.verb, msg.res.Task.Title)
			return m, nil
		}
		m.lastLog = fmt.Sprintf("%s %q at %s.", msg.verb, msg.res.Task.Title, time.Now().Format("15:04:05"))
		return m, m.loadCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.lastLog = "Refreshing…"
		return m, m.loadCmd()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil
	}

	t := m.current()
	if t == nil {
		return m, nil
	}
	id := t.ID
	switch msg.String() {
	case "+", " ", "c":
		return m, m.mutateCmd("Incremented", func() (*engine.Result, error) { return m.svc.Increment(m.ctx, id) })
	case "-", "u":
		return m, m.mutateCmd("Decremented", func() (*engine.Result, error) { return m.svc.Decrement(m.ctx, id) })
	case "y":
		return m, m.mutateCmd("Duplicated", func() (*engine.Result, error) { return m.svc.Duplicate(m.ctx, id) })
	case "d":
		if m.selected == len(m.tasks)-1 && m.selected > 0 {
			m.selected--
		}
		return m, m.mutateCmd("Deleted", func() (*engine.Result, error) { return m.svc.Delete(m.ctx, id) })
	case "K", "shift+up":
		return m.move(-1)
	case "J", "shift+down":
		return m.move(+1)
	}
	return m, nil
}

func (m boardModel) move(dir int) (tea.Model, tea.Cmd) {
	from := m.selected
	to := from + dir
	if to < 0 || to >= len(m.tasks) || m.day == nil {
		return m, nil
	}
	// Insertion index is "before the item at", so moving down skips one further.
	insert := to
	if dir > 0 {
		insert = to + 1
	}
	m.selected = to
	dayID := m.day.ID
	title := m.tasks[from].Title
	return m, func() tea.Msg {
		_, err := m.svc.Reorder(m.ctx, dayID, []int{from}, insert)
		if err != nil {
			return mutatedMsg{verb: "Move", err: err}
		}
		return mutatedMsg{verb: "Moved", res: &engine.Result{Task: storage.Task{Title: title}, Changed: true}}
	}
}

func (m boardModel) current() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m *boardModel) clampSelection() {
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	return m.renderHeader() + "\n\n" + m.renderTasks() + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	if m.day == nil {
		return "tally — loading…"
	}
	return ui.Panel.Render(fmt.Sprintf("%s | %s | %d pts | goal %d %s %s",
		ui.Heading(ui.IconDay, storage.DateKey(m.day.Date)),
		ui.LabelValue("tasks", len(m.tasks)),
		m.points,
		m.day.Target*len(m.tasks),
		ui.ProgressBar(m.progress, 24),
		ui.Percent(m.progress)))
}

func (m boardModel) renderTasks() string {
	if m.loading && m.day == nil {
		return "Loading…"
	}
	if len(m.tasks) == 0 {
		return ui.Muted.Render("(no tasks for this day)")
	}
	lines := make([]string, 0, len(m.tasks))
	for i, t := range m.tasks {
		title := t.Title
		cursor := "  "
		if i == m.selected {
			cursor = "> "
			title = ui.SelectedRow.Render(title)
		}
		line := fmt.Sprintf("%s%s %s %s %s %s",
			cursor,
			ui.KindIcon(t.IsTemplate, t.IsRoutine),
			title,
			ui.Flags(t.IsCritical, t.IsOptional),
			ui.Count(t.CompletedCount, t.Target, t.Max),
			ui.Muted.Render(ui.Points(t.Points)+" pts"))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderFooter() string {
	keys := ui.H2.Render("keys") + " " + ui.Muted.Render("↑/↓ move • +/- count • J/K reorder • y dup • d delete • r refresh • q quit")
	return keys + "\n" + m.lastLog
}
