package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"taskboard/internal/dashboard"
	"taskboard/internal/service"
)

type screen int

const (
	screenLogin screen = iota
	screenDashboard
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeEdit
)

type action string

const (
	actionLoad   action = "load"
	actionLogin  action = "login"
	actionSignup action = "signup"
	actionAdd    action = "add"
	actionEdit   action = "edit"
	actionDelete action = "delete"
	actionToggle action = "toggle"
	actionLogout action = "logout"
)

// resultMsg reports the outcome of a backend call started by the model.
type resultMsg struct {
	action action
	err    error
}

// Model is the bubbletea model for the terminal dashboard.
type Model struct {
	ctx    context.Context
	ctrl   *dashboard.Controller
	auth   service.Identity
	routes <-chan string
	logger zerolog.Logger

	screen screen
	mode   mode
	state  dashboard.State
	cursor int
	busy   bool
	status string
	failed bool

	// login screen
	email    textinput.Model
	password textinput.Model
	signup   bool

	// dashboard screen
	search   textinput.Model
	title    textinput.Model
	desc     textinput.Model
	editForm *dashboard.EditForm

	spinner spinner.Model
	width   int
}

// New returns a model over ctrl. Routes requested by the controller are read
// from routes.
func New(ctx context.Context, ctrl *dashboard.Controller, auth service.Identity, routes <-chan string, logger zerolog.Logger) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 256
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256
	password.Width = 40

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search titles"
	search.Width = 40

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 512
	title.Width = 50

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 2048
	desc.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(blue)

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		auth:     auth,
		routes:   routes,
		logger:   logger,
		screen:   screenDashboard,
		email:    email,
		password: password,
		search:   search,
		title:    title,
		desc:     desc,
		spinner:  s,
	}
	if auth.CurrentUser() == nil {
		m = m.showLogin()
	} else {
		m.busy = true
	}
	m.state = ctrl.Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForRoute(m.routes), m.spinner.Tick, textinput.Blink}
	if m.screen == screenDashboard {
		cmds = append(cmds, m.loadCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 14; w > 20 {
			m.title.Width = w
			m.desc.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case routeMsg:
		m.logger.Debug().Str("route", string(msg)).Msg("route requested")
		if string(msg) == dashboard.RouteLogin {
			m = m.showLogin()
		}
		return m, waitForRoute(m.routes)

	case resultMsg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.state = m.ctrl.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.state.Filtered))

	if msg.err != nil {
		m.logger.Error().Err(msg.err).Str("action", string(msg.action)).Msg("backend call failed")
		m.setError(msg.err)
		return m, nil
	}

	switch msg.action {
	case actionLogin, actionSignup:
		m.screen = screenDashboard
		m.mode = modeList
		m.email.Blur()
		m.password.Blur()
		m.password.SetValue("")
		m.busy = true
		m.setStatus("")
		return m, m.loadCmd()
	case actionLoad:
		m.setStatus(fmt.Sprintf("%d tasks", len(m.state.Tasks)))
	case actionAdd:
		m.closeForm()
		m.cursor = clampCursor(len(m.state.Filtered)-1, len(m.state.Filtered))
		m.setStatus("Added task")
	case actionEdit:
		m.closeForm()
		m.setStatus("Saved task")
	case actionDelete:
		m.setStatus("Deleted task")
	case actionToggle:
		m.setStatus("Toggled task")
	case actionLogout:
		m.setStatus("Signed out")
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if m.email.Focused() {
			m.email.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.email.Focus()
	case "ctrl+u":
		m.signup = !m.signup
		return m, nil
	case "enter":
		if m.email.Focused() {
			m.email.Blur()
			return m, m.password.Focus()
		}
		if m.busy {
			return m, nil
		}
		email := strings.TrimSpace(m.email.Value())
		password := m.password.Value()
		if email == "" || password == "" {
			m.setError(errors.New("email and password required"))
			return m, nil
		}
		m.busy = true
		m.setStatus("Signing in...")
		return m, m.signInCmd(email, password, m.signup)
	}

	var cmd tea.Cmd
	if m.email.Focused() {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.state.Filtered))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.state.Filtered))
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "esc":
		if m.state.Query != "" {
			m.search.SetValue("")
			m.applySearch()
		}
	case "a":
		m.mode = modeAdd
		m.title.SetValue("")
		m.desc.SetValue("")
		m.desc.Blur()
		m.setStatus("")
		return m, m.title.Focus()
	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		selected, err := m.ctrl.Edit(task.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.editForm = dashboard.NewEditForm(selected)
		m.mode = modeEdit
		m.state = m.ctrl.Snapshot()
		m.title.SetValue(selected.Title())
		m.desc.SetValue(renderField(selected.Fields[service.FieldDescription]))
		m.desc.Blur()
		m.setStatus("")
		return m, m.title.Focus()
	case "d":
		task, ok := m.selected()
		if !ok || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.deleteCmd(task.ID)
	case "x", " ":
		task, ok := m.selected()
		if !ok || m.busy {
			return m, nil
		}
		done, _ := task.Completed()
		m.busy = true
		return m, m.toggleCmd(task.ID, !done)
	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.loadCmd()
	case "L":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.logoutCmd()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.busy {
			return m, nil
		}
		if m.mode == modeEdit && m.editForm != nil {
			m.editForm.Cancel(m.ctrl)
		}
		m.closeForm()
		m.state = m.ctrl.Snapshot()
		m.setStatus("Cancelled")
		return m, nil
	case "tab", "shift+tab":
		if m.title.Focused() {
			m.title.Blur()
			return m, m.desc.Focus()
		}
		m.desc.Blur()
		return m, m.title.Focus()
	case "enter":
		if m.busy {
			return m, nil
		}
		if strings.TrimSpace(m.title.Value()) == "" {
			m.setError(dashboard.ErrTitleRequired)
			return m, nil
		}
		m.busy = true
		if m.mode == modeAdd {
			return m, m.addCmd(m.title.Value(), m.desc.Value())
		}
		return m, m.editCmd(m.editForm, m.title.Value(), m.desc.Value())
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m *Model) applySearch() {
	m.ctrl.SetSearch(m.search.Value())
	m.state = m.ctrl.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.state.Filtered))
}

func (m Model) showLogin() Model {
	m.screen = screenLogin
	m.mode = modeList
	m.busy = false
	m.editForm = nil
	m.search.SetValue("")
	m.search.Blur()
	m.title.Blur()
	m.desc.Blur()
	m.password.SetValue("")
	m.password.Blur()
	m.email.Focus()
	return m
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.editForm = nil
	m.title.Blur()
	m.desc.Blur()
	m.title.SetValue("")
	m.desc.SetValue("")
}

func (m Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Filtered) {
		return service.Task{}, false
	}
	return m.state.Filtered[m.cursor], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(err error) {
	m.status = "error: " + err.Error()
	m.failed = true
}

func (m Model) loadCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return resultMsg{action: actionLoad, err: ctrl.LoadTasks(ctx)}
	}
}

func (m Model) signInCmd(email, password string, signup bool) tea.Cmd {
	ctx, auth := m.ctx, m.auth
	return func() tea.Msg {
		if signup {
			_, err := auth.SignUp(ctx, email, password)
			return resultMsg{action: actionSignup, err: err}
		}
		_, err := auth.SignIn(ctx, email, password)
		return resultMsg{action: actionLogin, err: err}
	}
}

func (m Model) addCmd(title, desc string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	form := &dashboard.AddForm{Title: title}
	if strings.TrimSpace(desc) != "" {
		form.Set(service.FieldDescription, desc)
	}
	form.Set(service.FieldCompleted, false)
	return func() tea.Msg {
		_, err := form.Submit(ctx, ctrl)
		return resultMsg{action: actionAdd, err: err}
	}
}

func (m Model) editCmd(form *dashboard.EditForm, title, desc string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	form.Set(service.FieldTitle, title)
	if current, _ := form.Value(service.FieldDescription); renderField(current) != desc {
		form.Set(service.FieldDescription, desc)
	}
	return func() tea.Msg {
		return resultMsg{action: actionEdit, err: form.Submit(ctx, ctrl)}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return resultMsg{action: actionDelete, err: ctrl.DeleteTask(ctx, id)}
	}
}

func (m Model) toggleCmd(id string, completed bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		err := ctrl.UpdateTask(ctx, id, service.Fields{service.FieldCompleted: completed})
		return resultMsg{action: actionToggle, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return resultMsg{action: actionLogout, err: ctrl.Logout(ctx)}
	}
}

// renderField renders a field value for a text input.
func renderField(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
