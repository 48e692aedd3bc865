// Package todolist renders the scrollable todo list shared by the day
// view and the backlog view.
package todolist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haruapp/haru/internal/dateutil"
	"github.com/haruapp/haru/internal/keys"
	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/repository"
	"github.com/haruapp/haru/internal/theme"
)

// Mode selects what the list shows.
type Mode int

const (
	// ModeDay shows the todos scheduled on a single day. When that day
	// is today, overdue todos from earlier days are listed on top.
	ModeDay Mode = iota
	// ModeBacklog shows the undated todos.
	ModeBacklog
)

// TodosLoadedMsg is sent when todos have been loaded from the
// repository. Mode tells the app which list the result belongs to.
type TodosLoadedMsg struct {
	Mode  Mode
	Items []TodoItem
	Err   error
}

// EditTodoMsg asks the app to open the edit form for a todo.
type EditTodoMsg struct {
	Todo model.Todo
}

// OpenChecklistMsg asks the app to open the checklist editor for a todo.
type OpenChecklistMsg struct {
	Todo model.Todo
}

// MutatedMsg is sent after a toggle, delete or reschedule completes, so
// the app can reload whatever views are affected.
type MutatedMsg struct {
	Err error
}

// Model is the todo list view component.
type Model struct {
	list   list.Model
	repo   *repository.TodoRepo
	keys   *keys.KeyMap
	mode   Mode
	userID string
	day    string
	width  int
	height int
}

// New creates a todo list in the given mode. For ModeDay the day is the
// storage date-key to show; ModeBacklog ignores it.
func New(repo *repository.TodoRepo, k *keys.KeyMap, mode Mode, userID string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:   l,
		repo:   repo,
		keys:   k,
		mode:   mode,
		userID: userID,
		day:    dateutil.Today(),
		width:  width,
		height: height,
	}
}

// Day returns the storage date-key currently on screen.
func (m Model) Day() string { return m.day }

// SetDay switches the day view to another date and reloads.
func (m *Model) SetDay(day string) tea.Cmd {
	m.day = day
	return m.Load()
}

// Selected returns the todo under the cursor, if any.
func (m Model) Selected() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

// Init returns a command that loads the initial set of todos.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TodosLoadedMsg:
		if msg.Mode != m.mode {
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = it
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		todo, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.toggleComplete(todo)

	case key.Matches(msg, m.keys.Delete):
		todo, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteTodo(todo.ID)

	case key.Matches(msg, m.keys.Edit):
		todo, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTodoMsg{Todo: todo} }

	case key.Matches(msg, m.keys.Checklist):
		todo, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return OpenChecklistMsg{Todo: todo} }

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Load()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the todo list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.mode == ModeBacklog {
		return style.Render("Backlog is empty.\nPress n to add an unscheduled todo.")
	}
	return style.Render("Nothing planned for this day.\nPress n to add a todo.")
}

// Load returns a tea.Cmd that queries the repository for the current
// mode and day.
func (m Model) Load() tea.Cmd {
	repo := m.repo
	userID := m.userID
	mode := m.mode
	day := m.day

	return func() tea.Msg {
		ctx := context.Background()

		if mode == ModeBacklog {
			todos, err := repo.ListBacklog(ctx, userID)
			return TodosLoadedMsg{Mode: mode, Items: wrap(todos, false), Err: err}
		}

		var items []TodoItem
		if day == dateutil.Today() {
			overdue, err := repo.ListOverdue(ctx, userID, day)
			if err != nil {
				return TodosLoadedMsg{Mode: mode, Err: err}
			}
			items = append(items, wrap(overdue, true)...)
		}

		todos, err := repo.ListForDate(ctx, userID, day)
		if err != nil {
			return TodosLoadedMsg{Mode: mode, Err: err}
		}
		items = append(items, wrap(todos, false)...)
		return TodosLoadedMsg{Mode: mode, Items: items}
	}
}

func (m Model) toggleComplete(todo model.Todo) tea.Cmd {
	repo := m.repo
	userID := m.userID
	completed := !todo.Completed

	return func() tea.Msg {
		err := repo.Update(context.Background(), userID, todo.ID, repository.TodoPatch{
			Completed: &completed,
		})
		return MutatedMsg{Err: err}
	}
}

func (m Model) deleteTodo(id string) tea.Cmd {
	repo := m.repo
	userID := m.userID

	return func() tea.Msg {
		err := repo.Delete(context.Background(), userID, id)
		return MutatedMsg{Err: err}
	}
}

func wrap(todos []model.Todo, overdue bool) []TodoItem {
	items := make([]TodoItem, len(todos))
	for i, t := range todos {
		items[i] = TodoItem{Todo: t, Overdue: overdue}
	}
	return items
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
