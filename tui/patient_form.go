package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicware/go-clinic-console/api"
	"github.com/clinicware/go-clinic-console/records"
)

// patientFormModel is the patient create/edit modal. A nil record means
// create (all fields empty); otherwise the fields are populated from the
// record being edited.
type patientFormModel struct {
	editID  int // 0 = create
	inputs  []textinput.Model
	focus   int
	busy    bool
	lastErr error
}

var patientFieldLabels = []string{"Full Name:", "Gender:", "Phone Number:", "Date of Birth:", "Address:"}

func newPatientFormModel(record *records.Patient) patientFormModel {
	placeholders := []string{"Full Name", "Gender", "Phone Number", "YYYY-MM-DD", "Address"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 200
		inputs[i] = in
	}

	m := patientFormModel{inputs: inputs}
	if record != nil {
		m.editID = record.ID
		m.inputs[0].SetValue(record.FullName)
		m.inputs[1].SetValue(record.Gender)
		m.inputs[2].SetValue(record.PhoneNumber)
		m.inputs[3].SetValue(record.DateOfBirth)
		m.inputs[4].SetValue(record.Address)
	}
	return m
}

func (m patientFormModel) focusCmd() tea.Cmd {
	return m.inputs[0].Focus()
}

// update returns the form, a command, and whether the modal was closed.
func (m patientFormModel) update(msg tea.Msg, client *api.Client) (patientFormModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.busy {
		switch key.String() {
		case "esc":
			return m, nil, true
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "enter":
			return m.submit(client)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd, false
}

func (m patientFormModel) moveFocus(delta int) (patientFormModel, tea.Cmd, bool) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m, m.inputs[m.focus].Focus(), false
}

func (m patientFormModel) submit(client *api.Client) (patientFormModel, tea.Cmd, bool) {
	draft := records.Patient{
		FullName:    m.inputs[0].Value(),
		Gender:      m.inputs[1].Value(),
		PhoneNumber: m.inputs[2].Value(),
		DateOfBirth: m.inputs[3].Value(),
		Address:     m.inputs[4].Value(),
	}
	if err := draft.Validate(); err != nil {
		m.lastErr = err
		return m, nil, false
	}

	m.busy = true
	m.lastErr = nil
	editID := m.editID
	return m, func() tea.Msg {
		var err error
		if editID == 0 {
			err = client.CreatePatient(context.Background(), draft)
		} else {
			err = client.UpdatePatient(context.Background(), editID, draft)
		}
		return submitDoneMsg{tab: tabPatients, err: err}
	}, false
}

// fail reopens the form for correction after a rejected submission.
func (m *patientFormModel) fail(err error) {
	m.busy = false
	m.lastErr = err
}

func (m patientFormModel) view() string {
	title := "Add Patient"
	if m.editID != 0 {
		title = "Edit Patient"
	}
	lines := []string{titleStyle.Render(title)}
	for i, in := range m.inputs {
		lines = append(lines, labelStyle.Render(patientFieldLabels[i]), in.View())
	}
	lines = append(lines, "")
	if m.busy {
		lines = append(lines, statusStyle.Render("Saving..."))
	}
	if m.lastErr != nil {
		lines = append(lines, errorStyle.Render(m.lastErr.Error()))
	}
	lines = append(lines, helpStyle.Render("enter: save • tab: next field • esc: cancel"))
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
