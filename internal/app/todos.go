package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haruapp/haru/internal/dateutil"
	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/repository"
	"github.com/haruapp/haru/internal/ui/todolist"
)

// visitRecordedMsg is sent after today's visit record was checked.
type visitRecordedMsg struct{ err error }

// streakMsg carries the current consecutive-day visit count.
type streakMsg struct {
	days int
	err  error
}

// createTodo persists a new todo from the form.
func (m *Model) createTodo(todo model.Todo) tea.Cmd {
	todos := m.todos
	userID := m.userID
	return func() tea.Msg {
		_, err := todos.Add(context.Background(), userID, todo)
		return todolist.MutatedMsg{Err: err}
	}
}

// patchTodo applies an edit-form patch to an existing todo.
func (m *Model) patchTodo(id string, patch repository.TodoPatch) tea.Cmd {
	todos := m.todos
	userID := m.userID
	return func() tea.Msg {
		err := todos.Update(context.Background(), userID, id, patch)
		return todolist.MutatedMsg{Err: err}
	}
}

// saveChecklist persists the checklist editor's state. The repository
// recomputes the completed flag from the items.
func (m *Model) saveChecklist(id string, items []model.ChecklistItem) tea.Cmd {
	todos := m.todos
	userID := m.userID
	return func() tea.Msg {
		err := todos.Update(context.Background(), userID, id, repository.TodoPatch{
			Checklist: &items,
		})
		return todolist.MutatedMsg{Err: err}
	}
}

// scheduleTodo moves a backlog todo onto the given day.
func (m *Model) scheduleTodo(id, day string) tea.Cmd {
	todos := m.todos
	userID := m.userID
	return func() tea.Msg {
		err := todos.Update(context.Background(), userID, id, repository.TodoPatch{
			Date: &day,
		})
		return todolist.MutatedMsg{Err: err}
	}
}

// recordVisit writes today's visit record if it does not exist yet.
func (m *Model) recordVisit() tea.Cmd {
	visits := m.visits
	userID := m.userID
	return func() tea.Msg {
		_, err := visits.RecordOnce(context.Background(), userID, dateutil.Today())
		return visitRecordedMsg{err: err}
	}
}

// loadStreak computes the consecutive-day visit count for the banner.
func (m *Model) loadStreak() tea.Cmd {
	visits := m.visits
	userID := m.userID
	return func() tea.Msg {
		days, err := visits.Streak(context.Background(), userID, dateutil.Today())
		return streakMsg{days: days, err: err}
	}
}

// reloadLists refreshes both the day and backlog lists after a
// mutation; a reschedule moves items between them.
func (m *Model) reloadLists() tea.Cmd {
	return tea.Batch(m.dayList.Load(), m.backlogList.Load())
}
