package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicware/go-clinic-console/api"
	"github.com/clinicware/go-clinic-console/records"
)

// Focus slots before the question/answer pairs begin.
const (
	assessFocusType = iota
	assessFocusPatient
	assessFocusDate
	assessFocusScore
	assessFocusFirstQA
)

// qaPair is one editable question/answer row of the form.
type qaPair struct {
	question textinput.Model
	answer   textinput.Model
}

func newQAPair(qa records.QuestionAnswer) qaPair {
	q := textinput.New()
	q.Placeholder = "Question"
	q.CharLimit = 300
	q.SetValue(qa.Question)

	a := textinput.New()
	a.Placeholder = "Answer"
	a.CharLimit = 300
	a.SetValue(qa.Answer)

	return qaPair{question: q, answer: a}
}

// assessmentFormModel is the assessment create/edit modal. The type and
// patient fields are pickers cycled with left/right; the question list
// grows and shrinks with ctrl+a / ctrl+d but never below one pair.
type assessmentFormModel struct {
	editID   int // 0 = create
	patients []records.Patient

	typeIdx    int
	patientIdx int // index into patients; -1 when the list is empty
	date       textinput.Model
	score      textinput.Model
	pairs      []qaPair

	focus   int
	busy    bool
	lastErr error
}

func newAssessmentFormModel(record *records.Assessment, patients []records.Patient) assessmentFormModel {
	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10

	score := textinput.New()
	score.Placeholder = "Final Score"
	score.CharLimit = 10

	m := assessmentFormModel{
		patients:   patients,
		date:       date,
		score:      score,
		patientIdx: -1,
	}
	if len(patients) > 0 {
		m.patientIdx = 0
	}

	if record == nil {
		m.pairs = []qaPair{newQAPair(records.QuestionAnswer{})}
		return m
	}

	m.editID = record.ID
	for i, t := range records.AssessmentTypes {
		if t == record.AssessmentType {
			m.typeIdx = i
		}
	}
	for i, p := range patients {
		if p.ID == record.Patient {
			m.patientIdx = i
		}
	}
	m.date.SetValue(record.AssessmentDate)
	m.score.SetValue(strconv.FormatFloat(record.FinalScore, 'f', -1, 64))
	if len(record.QuestionsAndAnswers) == 0 {
		m.pairs = []qaPair{newQAPair(records.QuestionAnswer{})}
	} else {
		for _, qa := range record.QuestionsAndAnswers {
			m.pairs = append(m.pairs, newQAPair(qa))
		}
	}
	return m
}

func (m assessmentFormModel) focusCmd() tea.Cmd {
	return nil // the type picker focuses first and has no cursor
}

func (m assessmentFormModel) fieldCount() int {
	return assessFocusFirstQA + 2*len(m.pairs)
}

func (m assessmentFormModel) update(msg tea.Msg, client *api.Client) (assessmentFormModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.busy {
		switch key.String() {
		case "esc":
			return m, nil, true
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "left", "right":
			if m.focus == assessFocusType || m.focus == assessFocusPatient {
				m.cycle(key.String() == "right")
				return m, nil, false
			}
		case "ctrl+a":
			m.pairs = append(m.pairs, newQAPair(records.QuestionAnswer{}))
			return m.setFocus(assessFocusFirstQA + 2*(len(m.pairs)-1))
		case "ctrl+d":
			return m.removeCurrentPair()
		case "enter":
			return m.submit(client)
		}
	}

	return m.updateFocused(msg)
}

func (m *assessmentFormModel) cycle(forward bool) {
	delta := 1
	if !forward {
		delta = -1
	}
	switch m.focus {
	case assessFocusType:
		n := len(records.AssessmentTypes)
		m.typeIdx = (m.typeIdx + delta + n) % n
	case assessFocusPatient:
		if len(m.patients) > 0 {
			n := len(m.patients)
			m.patientIdx = (m.patientIdx + delta + n) % n
		}
	}
}

// removeCurrentPair deletes the focused question/answer row. At least one
// pair always remains; the service rejects empty lists anyway and the
// form should never be able to build one.
func (m assessmentFormModel) removeCurrentPair() (assessmentFormModel, tea.Cmd, bool) {
	if m.focus < assessFocusFirstQA || len(m.pairs) <= 1 {
		return m, nil, false
	}
	idx := (m.focus - assessFocusFirstQA) / 2
	m.pairs = append(m.pairs[:idx], m.pairs[idx+1:]...)
	return m.setFocus(assessFocusFirstQA + 2*min(idx, len(m.pairs)-1))
}

func (m assessmentFormModel) moveFocus(delta int) (assessmentFormModel, tea.Cmd, bool) {
	n := m.fieldCount()
	return m.setFocus((m.focus + delta + n) % n)
}

func (m assessmentFormModel) setFocus(focus int) (assessmentFormModel, tea.Cmd, bool) {
	m.blurAll()
	m.focus = focus
	switch {
	case m.focus == assessFocusDate:
		return m, m.date.Focus(), false
	case m.focus == assessFocusScore:
		return m, m.score.Focus(), false
	case m.focus >= assessFocusFirstQA:
		idx := (m.focus - assessFocusFirstQA) / 2
		if (m.focus-assessFocusFirstQA)%2 == 0 {
			return m, m.pairs[idx].question.Focus(), false
		}
		return m, m.pairs[idx].answer.Focus(), false
	}
	return m, nil, false
}

func (m *assessmentFormModel) blurAll() {
	m.date.Blur()
	m.score.Blur()
	for i := range m.pairs {
		m.pairs[i].question.Blur()
		m.pairs[i].answer.Blur()
	}
}

func (m assessmentFormModel) updateFocused(msg tea.Msg) (assessmentFormModel, tea.Cmd, bool) {
	var cmd tea.Cmd
	switch {
	case m.focus == assessFocusDate:
		m.date, cmd = m.date.Update(msg)
	case m.focus == assessFocusScore:
		m.score, cmd = m.score.Update(msg)
	case m.focus >= assessFocusFirstQA:
		idx := (m.focus - assessFocusFirstQA) / 2
		if idx < len(m.pairs) {
			if (m.focus-assessFocusFirstQA)%2 == 0 {
				m.pairs[idx].question, cmd = m.pairs[idx].question.Update(msg)
			} else {
				m.pairs[idx].answer, cmd = m.pairs[idx].answer.Update(msg)
			}
		}
	}
	return m, cmd, false
}

func (m assessmentFormModel) draft() (records.Assessment, error) {
	score, err := strconv.ParseFloat(m.score.Value(), 64)
	if err != nil && m.score.Value() != "" {
		return records.Assessment{}, fmt.Errorf("final score must be numeric: %q", m.score.Value())
	}

	draft := records.Assessment{
		AssessmentType: records.AssessmentTypes[m.typeIdx],
		AssessmentDate: m.date.Value(),
		FinalScore:     score,
	}
	if m.patientIdx >= 0 && m.patientIdx < len(m.patients) {
		draft.Patient = m.patients[m.patientIdx].ID
	}
	for _, pair := range m.pairs {
		if pair.question.Value() == "" && pair.answer.Value() == "" {
			continue // skip fully blank rows rather than failing on them
		}
		draft.QuestionsAndAnswers = append(draft.QuestionsAndAnswers, records.QuestionAnswer{
			Question: pair.question.Value(),
			Answer:   pair.answer.Value(),
		})
	}
	return draft, nil
}

func (m assessmentFormModel) submit(client *api.Client) (assessmentFormModel, tea.Cmd, bool) {
	draft, err := m.draft()
	if err == nil {
		err = draft.Validate()
	}
	if err != nil {
		m.lastErr = err
		return m, nil, false
	}

	m.busy = true
	m.lastErr = nil
	editID := m.editID
	return m, func() tea.Msg {
		var err error
		if editID == 0 {
			err = client.CreateAssessment(context.Background(), draft)
		} else {
			err = client.UpdateAssessment(context.Background(), editID, draft)
		}
		return submitDoneMsg{tab: tabAssessments, err: err}
	}, false
}

func (m *assessmentFormModel) fail(err error) {
	m.busy = false
	m.lastErr = err
}

func (m assessmentFormModel) view() string {
	title := "Add Assessment"
	if m.editID != 0 {
		title = "Edit Assessment"
	}

	patientName := "(no patients loaded)"
	if m.patientIdx >= 0 && m.patientIdx < len(m.patients) {
		patientName = m.patients[m.patientIdx].FullName
	}

	lines := []string{
		titleStyle.Render(title),
		labelStyle.Render("Assessment Type:"),
		m.pickerView(string(records.AssessmentTypes[m.typeIdx]), m.focus == assessFocusType),
		labelStyle.Render("Patient:"),
		m.pickerView(patientName, m.focus == assessFocusPatient),
		labelStyle.Render("Assessment Date:"),
		m.date.View(),
		labelStyle.Render("Final Score:"),
		m.score.View(),
		labelStyle.Render("Questions and Answers:"),
	}
	for _, pair := range m.pairs {
		lines = append(lines, "  "+pair.question.View(), "  "+pair.answer.View())
	}
	lines = append(lines, "")
	if m.busy {
		lines = append(lines, statusStyle.Render("Saving..."))
	}
	if m.lastErr != nil {
		lines = append(lines, errorStyle.Render(m.lastErr.Error()))
	}
	lines = append(lines, helpStyle.Render("enter: save • ←/→: change picker • ctrl+a: add Q&A • ctrl+d: remove Q&A • esc: cancel"))
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m assessmentFormModel) pickerView(value string, focused bool) string {
	if focused {
		return selectedRowStyle.Render("< " + value + " >")
	}
	return "  " + value
}
