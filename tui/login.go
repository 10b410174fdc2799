package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicware/go-clinic-console/api"
)

type loginModel struct {
	inputs  []textinput.Model // username, password
	focus   int
	busy    bool
	lastErr error
}

func newLoginModel() loginModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 100

	return loginModel{inputs: []textinput.Model{username, password}}
}

func (m loginModel) focusCmd() tea.Cmd {
	return m.inputs[0].Focus()
}

func (m loginModel) update(msg tea.Msg, client *api.Client) (loginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.busy {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			return m.moveFocus(key.String())
		case "enter":
			username := m.inputs[0].Value()
			password := m.inputs[1].Value()
			if username == "" || password == "" {
				return m, nil
			}
			m.busy = true
			m.lastErr = nil
			return m, loginCmd(client, username, password)
		case "ctrl+r":
			return m, func() tea.Msg { return switchScreenMsg{to: screenRegister} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) moveFocus(key string) (loginModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	if key == "shift+tab" || key == "up" {
		m.focus--
	} else {
		m.focus++
	}
	if m.focus < 0 {
		m.focus = len(m.inputs) - 1
	}
	if m.focus >= len(m.inputs) {
		m.focus = 0
	}
	return m, m.inputs[m.focus].Focus()
}

// fail re-enables the form after a rejected login; the typed credentials
// stay put for correction.
func (m *loginModel) fail(err error) {
	m.busy = false
	m.lastErr = err
}

func (m loginModel) view() string {
	lines := []string{
		titleStyle.Render("Clinic Console — Login"),
		labelStyle.Render("Username:"),
		m.inputs[0].View(),
		labelStyle.Render("Password:"),
		m.inputs[1].View(),
		"",
	}
	if m.busy {
		lines = append(lines, statusStyle.Render("Logging in..."))
	}
	if m.lastErr != nil {
		lines = append(lines, errorStyle.Render("Login failed. Please check your credentials."))
	}
	lines = append(lines, helpStyle.Render("enter: login • ctrl+r: register • ctrl+c: quit"))
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
