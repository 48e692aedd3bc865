package todolist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/theme"
)

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
// Overdue marks items pulled in from days before the one on screen.
type TodoItem struct {
	Todo    model.Todo
	Overdue bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Title }

// ItemDelegate implements list.ItemDelegate for rendering todo lines.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single todo line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}
	todo := ti.Todo

	var checkbox string
	if todo.Completed {
		checkbox = "[x]"
	} else {
		checkbox = "[ ]"
	}

	tagDot := lipgloss.NewStyle().
		Foreground(theme.TagColor(todo.Tag)).
		Render("●")

	line := fmt.Sprintf("%s %s %s", checkbox, tagDot, todo.Title)

	if n := len(todo.Checklist); n > 0 {
		done := 0
		for _, item := range todo.Checklist {
			if item.Completed {
				done++
			}
		}
		line += theme.HelpStyle.Render(fmt.Sprintf(" (%d/%d)", done, n))
	}

	if ti.Overdue && todo.Date != nil {
		line += lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(" ‹ " + *todo.Date)
	}

	if todo.Completed {
		line = theme.CompletedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
