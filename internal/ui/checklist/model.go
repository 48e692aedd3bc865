// Package checklist is the inline editor for a todo's checklist.
// Toggling or editing items emits the full updated slice; the app
// persists it and lets the repository recompute the completed flag.
package checklist

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/theme"
)

// ChangedMsg is dispatched whenever the checklist content changes.
type ChangedMsg struct {
	TodoID string
	Items  []model.ChecklistItem
}

// ClosedMsg is dispatched when the user leaves the checklist editor.
type ClosedMsg struct{}

// Model is the checklist editor view.
type Model struct {
	todoID string
	title  string
	items  []model.ChecklistItem
	cursor int
	adding bool
	input  textinput.Model
	width  int
	height int
}

// New creates a checklist editor for the given todo.
func New(todo model.Todo, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "new item..."
	ti.Prompt = "+ "
	ti.CharLimit = 120

	items := make([]model.ChecklistItem, len(todo.Checklist))
	copy(items, todo.Checklist)

	return Model{
		todoID: todo.ID,
		title:  todo.Title,
		items:  items,
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the checklist editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.adding {
		return m.handleAddKeys(keyMsg)
	}
	return m.handleNormalKeys(keyMsg)
}

func (m Model) handleAddKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Reset()
		if text == "" {
			return m, nil
		}
		m.items = append(m.items, model.ChecklistItem{
			ID:   strconv.FormatInt(time.Now().UnixMilli(), 10),
			Text: text,
		})
		m.cursor = len(m.items) - 1
		return m, m.changed()

	case "esc":
		m.adding = false
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "x", " ":
		if len(m.items) == 0 {
			return m, nil
		}
		m.items[m.cursor].Completed = !m.items[m.cursor].Completed
		return m, m.changed()

	case "d":
		if len(m.items) == 0 {
			return m, nil
		}
		m.items = append(m.items[:m.cursor], m.items[m.cursor+1:]...)
		if m.cursor >= len(m.items) && m.cursor > 0 {
			m.cursor--
		}
		return m, m.changed()

	case "n":
		m.adding = true
		return m, m.input.Focus()

	case "esc", "q":
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	return m, nil
}

func (m Model) changed() tea.Cmd {
	items := make([]model.ChecklistItem, len(m.items))
	copy(items, m.items)
	todoID := m.todoID
	return func() tea.Msg {
		return ChangedMsg{TodoID: todoID, Items: items}
	}
}

// View renders the checklist editor.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Checklist: " + m.title))
	b.WriteString("\n")

	if len(m.items) == 0 && !m.adding {
		b.WriteString(theme.HelpStyle.Render("No items yet. Press n to add one."))
	}

	for i, item := range m.items {
		var box string
		if item.Completed {
			box = "[x]"
		} else {
			box = "[ ]"
		}
		line := fmt.Sprintf("%s %s", box, item.Text)
		if item.Completed {
			line = theme.CompletedStyle.Render(line)
		}
		if i == m.cursor && !m.adding {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("x toggle · n add · d delete · esc back"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Render(b.String())
}

// SetSize updates the editor dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
