package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/output"
	"taskboard/internal/service"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.screen == screenLogin {
		return m.loginView()
	}
	return m.dashboardView()
}

func (m Model) loginView() string {
	var b strings.Builder

	heading := "Sign in"
	if m.signup {
		heading = "Create account"
	}
	b.WriteString(titleStyle.Render("taskboard") + "  " + heading + "\n\n")
	b.WriteString(labelStyle.Render("Email") + m.email.View() + "\n")
	b.WriteString(labelStyle.Render("Password") + m.password.View() + "\n\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.statusView())
	b.WriteString(helpStyle.Render("enter: submit • tab: next field • ctrl+u: sign in/create account • esc: quit"))
	return b.String()
}

func (m Model) dashboardView() string {
	var b strings.Builder

	header := titleStyle.Render("taskboard")
	if m.state.User != nil {
		header += "  " + userStyle.Render(m.state.User.Email)
	}
	b.WriteString(header + "\n")

	if m.mode == modeSearch || m.state.Query != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString("\n")

	list := m.listView()
	if m.mode == modeEdit {
		list = dimStyle.Render(list)
	}
	b.WriteString(list)

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString("\n" + m.formView() + "\n")
	}

	b.WriteString("\n")
	if m.busy || m.state.Loading {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.statusView())
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) listView() string {
	if len(m.state.Filtered) == 0 {
		if m.busy || m.state.Loading {
			return "Loading tasks...\n"
		}
		if m.state.Query != "" {
			return output.NoMatches + "\n"
		}
		return output.NoTasks + "\n"
	}

	var b strings.Builder
	for i, t := range m.state.Filtered {
		line := taskLine(t)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func taskLine(t service.Task) string {
	mark := output.Marker(t)
	if done, _ := t.Completed(); done {
		mark = doneStyle.Render(strings.TrimSpace(mark)) + " "
	}
	return mark + output.NormalizeTitle(t.Title())
}

func (m Model) formView() string {
	heading := "New task"
	if m.mode == modeEdit {
		heading = "Edit task"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(heading),
		labelStyle.Render("Title")+m.title.View(),
		labelStyle.Render("Notes")+m.desc.View(),
	)
	return formStyle.Render(body)
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return errorStyle.Render(m.status) + "\n"
	}
	return m.status + "\n"
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeSearch:
		return "type to filter • enter: keep • esc: clear"
	case modeAdd, modeEdit:
		return "enter: save • tab: next field • esc: cancel"
	}
	return "↑/↓: move • /: search • a: add • e: edit • x: toggle • d: delete • r: reload • L: logout • q: quit"
}
