package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinicware/go-clinic-console/api"
	"github.com/clinicware/go-clinic-console/listctl"
	"github.com/clinicware/go-clinic-console/records"
)

type loginDoneMsg struct{ err error }

type registerDoneMsg struct{ err error }

type loggedOutMsg struct{}

type switchScreenMsg struct{ to screen }

// seedMsg carries the lazy first load of both registers, fetched together
// when the home screen opens so neither tab starts empty.
type seedMsg struct {
	patients    *records.PatientPage
	assessments *records.AssessmentPage
	err         error
}

// patientsMsg is a resolved patient list fetch. gen ties it back to the
// controller generation that issued it.
type patientsMsg struct {
	gen  int64
	page *records.PatientPage
	err  error
}

// assessmentsMsg is a resolved assessment list fetch.
type assessmentsMsg struct {
	gen  int64
	page *records.AssessmentPage
	err  error
}

// submitDoneMsg reports a form submission round trip.
type submitDoneMsg struct {
	tab tab
	err error
}

// deleteDoneMsg reports a delete round trip. Deletion is never applied
// optimistically; the row disappears only after the follow-up re-fetch.
type deleteDoneMsg struct {
	tab tab
	err error
}

func loginCmd(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: client.Login(context.Background(), username, password)}
	}
}

func registerCmd(client *api.Client, username, email, password, password2 string) tea.Cmd {
	return func() tea.Msg {
		return registerDoneMsg{err: client.Register(context.Background(), username, email, password, password2)}
	}
}

func logoutCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		_ = client.Logout()
		return loggedOutMsg{}
	}
}

func seedCmd(client *api.Client, patientQ, assessmentQ records.ListQuery) tea.Cmd {
	return func() tea.Msg {
		patients, err := client.ListPatients(context.Background(), patientQ)
		if err != nil {
			return seedMsg{err: err}
		}
		assessments, err := client.ListAssessments(context.Background(), assessmentQ)
		if err != nil {
			return seedMsg{err: err}
		}
		return seedMsg{patients: patients, assessments: assessments}
	}
}

func fetchPatientsCmd(client *api.Client, f listctl.Fetch) tea.Cmd {
	return func() tea.Msg {
		page, err := client.ListPatients(context.Background(), f.Query)
		return patientsMsg{gen: f.Gen, page: page, err: err}
	}
}

func fetchAssessmentsCmd(client *api.Client, f listctl.Fetch) tea.Cmd {
	return func() tea.Msg {
		page, err := client.ListAssessments(context.Background(), f.Query)
		return assessmentsMsg{gen: f.Gen, page: page, err: err}
	}
}

func deletePatientCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{tab: tabPatients, err: client.DeletePatient(context.Background(), id)}
	}
}

func deleteAssessmentCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{tab: tabAssessments, err: client.DeleteAssessment(context.Background(), id)}
	}
}
