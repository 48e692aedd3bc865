// Package todoform is the create/edit form for a todo.
package todoform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/haruapp/haru/internal/dateutil"
	"github.com/haruapp/haru/internal/model"
	"github.com/haruapp/haru/internal/repository"
	"github.com/haruapp/haru/internal/theme"
)

// SubmittedMsg is dispatched when the form is confirmed. For a new todo
// Todo carries the values; for an edit, EditID is set and Patch carries
// the changes.
type SubmittedMsg struct {
	EditID string
	Todo   model.Todo
	Patch  repository.TodoPatch
}

// CanceledMsg is dispatched when the user aborts the form.
type CanceledMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// stay valid across Bubble Tea model copies.
type formBindings struct {
	title string
	date  string
	tag   string
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	hadDate  bool
	width    int
	height   int
}

// New creates a todo form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{tag: string(model.TagBlue)},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new todo. The date field is
// prefilled with the given storage date-key; clear it to send the todo
// to the backlog.
func (m *Model) StartCreate(date string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.hadDate = false
	m.fb.title = ""
	m.fb.date = date
	m.fb.tag = string(model.TagBlue)
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing todo's values.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.editMode = true
	m.editID = todo.ID
	m.hadDate = todo.Date != nil
	m.fb.title = todo.Title
	if todo.Date != nil {
		m.fb.date = *todo.Date
	} else {
		m.fb.date = ""
	}
	m.fb.tag = string(todo.Tag)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CanceledMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.editMode {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	tagOpts := make([]huh.Option[string], len(model.Tags))
	for i, t := range model.Tags {
		tagOpts[i] = huh.NewOption(tagLabel(t), string(t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD, empty for backlog").
				Value(&m.fb.date).
				Validate(validateOptionalDate),
			huh.NewSelect[string]().
				Title("Tag").
				Options(tagOpts...).
				Value(&m.fb.tag),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	title := strings.TrimSpace(m.fb.title)
	date := strings.TrimSpace(m.fb.date)
	tag := model.Tag(m.fb.tag)

	if m.editMode {
		patch := repository.TodoPatch{
			Title: &title,
			Tag:   &tag,
		}
		if date != "" {
			patch.Date = &date
		} else if m.hadDate {
			patch.ClearDate = true
		}
		editID := m.editID
		return func() tea.Msg { return SubmittedMsg{EditID: editID, Patch: patch} }
	}

	todo := model.Todo{
		Title: title,
		Tag:   tag,
	}
	if date != "" {
		todo.Date = &date
	}
	return func() tea.Msg { return SubmittedMsg{Todo: todo} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func tagLabel(t model.Tag) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func validateTitle(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("title is required")
	}
	if len([]rune(trimmed)) > model.MaxTitleLen {
		return fmt.Errorf("title must be at most %d characters", model.MaxTitleLen)
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := dateutil.ParseStorage(s); err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DD")
	}
	return nil
}
