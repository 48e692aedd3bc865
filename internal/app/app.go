// Package app holds the root Bubble Tea model: view routing, the day
// and backlog lists, the streak banner and access to the repositories.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/haruapp/haru/internal/dateutil"
	"github.com/haruapp/haru/internal/repository"
	"github.com/haruapp/haru/internal/rules"
	"github.com/haruapp/haru/internal/theme"
	"github.com/haruapp/haru/internal/ui"
	"github.com/haruapp/haru/internal/ui/checklist"
	helpview "github.com/haruapp/haru/internal/ui/help"
	"github.com/haruapp/haru/internal/ui/todoform"
	"github.com/haruapp/haru/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDay ViewState = iota
	ViewBacklog
	ViewForm
	ViewChecklist
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout
// and access to the repositories.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	todos        *repository.TodoRepo
	visits       *repository.VisitRepo
	keys         *KeyMap
	log          *zap.Logger

	userID  string
	backend string

	dayList       todolist.Model
	backlogList   todolist.Model
	formView      todoform.Model
	checklistView checklist.Model
	helpView      helpview.Model

	streakDays    int
	streakMessage string
	errorMessage  string
	ready         bool
}

// New creates the root application model. The backend label shows in
// the header so a mock-mode session is recognizable at a glance.
func New(todos *repository.TodoRepo, visits *repository.VisitRepo, log *zap.Logger, userID, backend string) Model {
	keys := DefaultKeyMap()

	return Model{
		currentView: ViewDay,
		todos:       todos,
		visits:      visits,
		keys:        keys,
		log:         log,
		userID:      userID,
		backend:     backend,
		dayList:     todolist.New(todos, keys, todolist.ModeDay, userID, 80, 24),
		backlogList: todolist.New(todos, keys, todolist.ModeBacklog, userID, 80, 24),
		formView:    todoform.New(80, 24),
		helpView:    helpview.New(keys, 80, 24),
	}
}

// Init loads both lists and records today's visit.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dayList.Init(),
		m.backlogList.Init(),
		m.recordVisit(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.dayList.SetSize(contentWidth, contentHeight)
		m.backlogList.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.checklistView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		return m.updateActiveView(msg)

	case visitRecordedMsg:
		if msg.err != nil {
			m.log.Warn("recording visit failed", zap.Error(msg.err))
		}
		return m, m.loadStreak()

	case streakMsg:
		if msg.err != nil {
			m.log.Warn("loading streak failed", zap.Error(msg.err))
			return m, nil
		}
		m.streakDays = msg.days
		m.streakMessage = rules.StreakMessage(msg.days)
		return m, nil

	case todolist.TodosLoadedMsg:
		if msg.Err != nil {
			m.errorMessage = friendlyError(msg.Err)
			return m, nil
		}
		m.errorMessage = ""
		var cmd tea.Cmd
		if msg.Mode == todolist.ModeBacklog {
			m.backlogList, cmd = m.backlogList.Update(msg)
		} else {
			m.dayList, cmd = m.dayList.Update(msg)
		}
		return m, cmd

	case todolist.MutatedMsg:
		if msg.Err != nil {
			m.errorMessage = friendlyError(msg.Err)
			return m, nil
		}
		m.errorMessage = ""
		return m, m.reloadLists()

	case todolist.EditTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m, m.formView.StartEdit(msg.Todo)

	case todolist.OpenChecklistMsg:
		m.previousView = m.currentView
		m.currentView = ViewChecklist
		m.checklistView = checklist.New(msg.Todo, m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, m.checklistView.Init()

	case todoform.SubmittedMsg:
		m.currentView = m.previousView
		if msg.EditID != "" {
			return m, m.patchTodo(msg.EditID, msg.Patch)
		}
		return m, m.createTodo(msg.Todo)

	case todoform.CanceledMsg:
		m.currentView = m.previousView
		return m, nil

	case checklist.ChangedMsg:
		return m, m.saveChecklist(msg.TodoID, msg.Items)

	case checklist.ClosedMsg:
		m.currentView = m.previousView
		return m, m.reloadLists()

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that apply across views. Form and
// checklist views own their input, so only quit works there.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	switch m.currentView {
	case ViewForm, ViewChecklist:
		return false, m, nil

	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.currentView = m.previousView
			return true, m, nil
		}
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case key.Matches(msg, m.keys.New):
		m.previousView = m.currentView
		m.currentView = ViewForm
		date := ""
		if m.previousView == ViewDay {
			date = m.dayList.Day()
		}
		return true, m, m.formView.StartCreate(date)

	case key.Matches(msg, m.keys.Backlog):
		if m.currentView == ViewBacklog {
			m.currentView = ViewDay
			return true, m, m.dayList.Load()
		}
		m.currentView = ViewBacklog
		return true, m, m.backlogList.Load()
	}

	if m.currentView == ViewDay {
		switch {
		case key.Matches(msg, m.keys.PrevDay):
			return true, m, m.dayList.SetDay(shiftDay(m.dayList.Day(), -1))
		case key.Matches(msg, m.keys.NextDay):
			return true, m, m.dayList.SetDay(shiftDay(m.dayList.Day(), 1))
		case key.Matches(msg, m.keys.Today):
			return true, m, m.dayList.SetDay(dateutil.Today())
		}
	}

	if m.currentView == ViewBacklog {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.currentView = ViewDay
			return true, m, m.dayList.Load()
		case key.Matches(msg, m.keys.Schedule):
			todo, ok := m.backlogList.Selected()
			if !ok {
				return true, m, nil
			}
			return true, m, m.scheduleTodo(todo.ID, m.dayList.Day())
		}
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDay:
		m.dayList, cmd = m.dayList.Update(msg)
	case ViewBacklog:
		m.backlogList, cmd = m.backlogList.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewChecklist:
		m.checklistView, cmd = m.checklistView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.backend)
	banner := m.layout.RenderBanner(m.streakMessage)
	content := m.renderContent()

	statusBar := m.layout.RenderStatusBar(m.keyHints())
	if m.errorMessage != "" {
		statusBar = m.layout.RenderStatusBar(theme.ErrorStyle.Render(m.errorMessage))
	}

	return m.layout.RenderWithFrame(header, banner, content, statusBar)
}

func (m Model) headerTitle() string {
	switch m.currentView {
	case ViewBacklog:
		return "haru | backlog"
	default:
		display, err := dateutil.ToDisplay(m.dayList.Day())
		if err != nil {
			display = m.dayList.Day()
		}
		if m.streakDays > 1 {
			return fmt.Sprintf("haru | %s (%d day streak)", display, m.streakDays)
		}
		return "haru | " + display
	}
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDay:
		return m.dayList.View()
	case ViewBacklog:
		return m.backlogList.View()
	case ViewForm:
		return m.formView.View()
	case ViewChecklist:
		return m.checklistView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewBacklog:
		return "s schedule | n new | e edit | d delete | x done | b day view | ? help"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewChecklist:
		return "x toggle | n add | d delete | esc back"
	case ViewHelp:
		return "? close help"
	default:
		return "h/l day | t today | b backlog | n new | x done | c checklist | ? help"
	}
}

// shiftDay moves a storage date-key by n days, recovering to today if
// the key is somehow malformed.
func shiftDay(day string, n int) string {
	next, err := dateutil.AddDays(day, n)
	if err != nil {
		return dateutil.Today()
	}
	return next
}

func friendlyError(err error) string {
	if errors.Is(err, repository.ErrAuthRequired) {
		return "login required"
	}
	return err.Error()
}
