package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicware/go-clinic-console/api"
	apperrors "github.com/clinicware/go-clinic-console/internal/errors"
)

type registerModel struct {
	inputs  []textinput.Model // username, email, password, password2
	focus   int
	busy    bool
	lastErr error
}

func newRegisterModel() registerModel {
	username := textinput.New()
	username.Placeholder = "Username"

	email := textinput.New()
	email.Placeholder = "Email"

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword

	password2 := textinput.New()
	password2.Placeholder = "Confirm Password"
	password2.EchoMode = textinput.EchoPassword

	return registerModel{inputs: []textinput.Model{username, email, password, password2}}
}

func (m registerModel) focusCmd() tea.Cmd {
	return m.inputs[0].Focus()
}

func (m registerModel) update(msg tea.Msg, client *api.Client) (registerModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.busy {
		switch key.String() {
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "enter":
			for _, in := range m.inputs {
				if in.Value() == "" {
					return m, nil
				}
			}
			if m.inputs[2].Value() != m.inputs[3].Value() {
				m.lastErr = apperrors.ErrPasswordsDontMatch
				return m, nil
			}
			m.busy = true
			m.lastErr = nil
			return m, registerCmd(client, m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value(), m.inputs[3].Value())
		case "esc":
			return m, func() tea.Msg { return switchScreenMsg{to: screenLogin} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m registerModel) moveFocus(delta int) (registerModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m, m.inputs[m.focus].Focus()
}

func (m *registerModel) fail(err error) {
	m.busy = false
	m.lastErr = err
}

func (m registerModel) view() string {
	labels := []string{"Username:", "Email:", "Password:", "Confirm Password:"}
	lines := []string{titleStyle.Render("Clinic Console — Register")}
	for i, in := range m.inputs {
		lines = append(lines, labelStyle.Render(labels[i]), in.View())
	}
	lines = append(lines, "")
	if m.busy {
		lines = append(lines, statusStyle.Render("Registering..."))
	}
	if m.lastErr != nil {
		lines = append(lines, errorStyle.Render(m.lastErr.Error()))
	}
	lines = append(lines, helpStyle.Render("enter: register • esc: back to login • ctrl+c: quit"))
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
