// Package tui renders the clinic console: login/register screens and a
// tabbed home screen with the patient and assessment registers.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/clinicware/go-clinic-console/api"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenHome
)

func (s screen) String() string {
	switch s {
	case screenLogin:
		return "login"
	case screenRegister:
		return "register"
	case screenHome:
		return "home"
	default:
		return "unknown"
	}
}

// Model is the top-level bubbletea model. It routes messages to the
// active screen and owns the login/logout transitions between them.
type Model struct {
	client *api.Client
	log    zerolog.Logger

	width  int
	height int
	screen screen

	login    loginModel
	register registerModel
	home     homeModel
}

func NewModel(client *api.Client, log zerolog.Logger) Model {
	m := Model{
		client:   client,
		log:      log.With().Str("component", "tui").Logger(),
		screen:   screenLogin,
		login:    newLoginModel(),
		register: newRegisterModel(),
		home:     newHomeModel(client),
	}
	// A persisted session from a previous run skips the login screen; a
	// dead token will surface through the refresh-and-retry path instead.
	if client.Username() != "" {
		m.screen = screenHome
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenHome {
		return m.home.enter()
	}
	return m.login.focusCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.home.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case loginDoneMsg:
		if msg.err != nil {
			m.login.fail(msg.err)
			return m, nil
		}
		return m.enterHome()

	case registerDoneMsg:
		if msg.err != nil {
			m.register.fail(msg.err)
			return m, nil
		}
		return m.enterHome()

	case loggedOutMsg:
		// Explicit reset: session cleared, all controller and form state
		// dropped, back to the logged-out view.
		m.screen = screenLogin
		m.login = newLoginModel()
		m.register = newRegisterModel()
		m.home = newHomeModel(m.client)
		return m, m.login.focusCmd()

	case switchScreenMsg:
		m.screen = msg.to
		switch msg.to {
		case screenLogin:
			m.login = newLoginModel()
			return m, m.login.focusCmd()
		case screenRegister:
			m.register = newRegisterModel()
			return m, m.register.focusCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.login, cmd = m.login.update(msg, m.client)
	case screenRegister:
		m.register, cmd = m.register.update(msg, m.client)
	case screenHome:
		m.home, cmd = m.home.update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.login.view()
	case screenRegister:
		return m.register.view()
	case screenHome:
		return m.home.view()
	default:
		return ""
	}
}

func (m Model) enterHome() (tea.Model, tea.Cmd) {
	m.screen = screenHome
	m.home = newHomeModel(m.client)
	m.home.width = m.width
	return m, m.home.enter()
}
