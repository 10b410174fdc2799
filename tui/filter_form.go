package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicware/go-clinic-console/records"
)

const (
	filterFocusType = iota
	filterFocusPatient
	filterFocusDate
)

// filterFormModel is the assessment filter modal. The type picker cycles
// through the known types plus an "any" slot; the other two fields are
// free text. Applying empty fields means unconstrained.
type filterFormModel struct {
	typeIdx int // 0 = any, otherwise index+1 into AssessmentTypes
	patient textinput.Model
	date    textinput.Model
	focus   int
}

func newFilterFormModel(current map[string]string) filterFormModel {
	patient := textinput.New()
	patient.Placeholder = "Patient full name"
	patient.SetValue(current[records.FilterPatient])

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	date.SetValue(current[records.FilterDatePerformed])

	m := filterFormModel{patient: patient, date: date}
	for i, t := range records.AssessmentTypes {
		if string(t) == current[records.FilterAssessmentType] {
			m.typeIdx = i + 1
		}
	}
	return m
}

func (m filterFormModel) focusCmd() tea.Cmd {
	return nil
}

// update returns the form, a command, the applied filter set (nil until
// the user submits), and whether the modal was closed without applying.
func (m filterFormModel) update(msg tea.Msg) (filterFormModel, tea.Cmd, map[string]string, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, nil, nil, true
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "left", "right":
			if m.focus == filterFocusType {
				n := len(records.AssessmentTypes) + 1
				delta := 1
				if key.String() == "left" {
					delta = -1
				}
				m.typeIdx = (m.typeIdx + delta + n) % n
				return m, nil, nil, false
			}
		case "enter":
			return m, nil, m.filters(), false
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case filterFocusPatient:
		m.patient, cmd = m.patient.Update(msg)
	case filterFocusDate:
		m.date, cmd = m.date.Update(msg)
	}
	return m, cmd, nil, false
}

func (m filterFormModel) moveFocus(delta int) (filterFormModel, tea.Cmd, map[string]string, bool) {
	m.patient.Blur()
	m.date.Blur()
	m.focus = (m.focus + delta + 3) % 3
	switch m.focus {
	case filterFocusPatient:
		return m, m.patient.Focus(), nil, false
	case filterFocusDate:
		return m, m.date.Focus(), nil, false
	}
	return m, nil, nil, false
}

// filters builds the full filter set. Empty values are kept: the query
// contract sends them through as "no constraint".
func (m filterFormModel) filters() map[string]string {
	assessmentType := ""
	if m.typeIdx > 0 {
		assessmentType = string(records.AssessmentTypes[m.typeIdx-1])
	}
	return map[string]string{
		records.FilterAssessmentType: assessmentType,
		records.FilterPatient:        m.patient.Value(),
		records.FilterDatePerformed:  m.date.Value(),
	}
}

func (m filterFormModel) view() string {
	typeValue := "Any"
	if m.typeIdx > 0 {
		typeValue = string(records.AssessmentTypes[m.typeIdx-1])
	}
	typeView := "  " + typeValue
	if m.focus == filterFocusType {
		typeView = selectedRowStyle.Render("< " + typeValue + " >")
	}

	lines := []string{
		titleStyle.Render("Filter Assessments"),
		labelStyle.Render("Assessment Type:"),
		typeView,
		labelStyle.Render("Patient:"),
		m.patient.View(),
		labelStyle.Render("Date Performed:"),
		m.date.View(),
		"",
		helpStyle.Render("enter: apply • ←/→: change type • esc: cancel"),
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
