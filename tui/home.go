package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicware/go-clinic-console/api"
	"github.com/clinicware/go-clinic-console/listctl"
	"github.com/clinicware/go-clinic-console/records"
)

type tab int

const (
	tabPatients tab = iota
	tabAssessments
)

func (t tab) String() string {
	if t == tabPatients {
		return "patients"
	}
	return "assessments"
}

type overlay int

const (
	overlayNone overlay = iota
	overlayPatientForm
	overlayAssessmentForm
	overlayFilter
)

// Sortable columns per tab, in display order. Digit keys 1..n sort by the
// matching column.
var (
	patientColumns    = []string{"id", "full_name", "gender", "phone_number", "date_of_birth", "address"}
	assessmentColumns = []string{"assessment_type", "patient", "assessment_date", "final_score"}
)

// homeModel is the shell: the tab switcher that owns both list
// controllers and the modal overlays.
type homeModel struct {
	client *api.Client
	width  int

	activeTab tab
	overlay   overlay

	patients    *listctl.Controller[records.Patient]
	assessments *listctl.Controller[records.Assessment]

	patientSel    int
	assessmentSel int

	patientForm    patientFormModel
	assessmentForm assessmentFormModel
	filterForm     filterFormModel

	spin   spinner.Model
	banner string
}

func newHomeModel(client *api.Client) homeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return homeModel{
		client:   client,
		patients: listctl.New[records.Patient]("id", nil),
		assessments: listctl.New[records.Assessment]("assessment_date", map[string]string{
			records.FilterAssessmentType: "",
			records.FilterPatient:        "",
			records.FilterDatePerformed:  "",
		}),
		spin: s,
	}
}

// enter lazily loads both registers together so the inactive tab is
// seeded before it is ever shown.
func (h homeModel) enter() tea.Cmd {
	return tea.Batch(h.spin.Tick, seedCmd(h.client, h.patients.Query(), h.assessments.Query()))
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return h, cmd

	case seedMsg:
		return h.applySeed(msg)

	case patientsMsg:
		if msg.err != nil {
			h.patients.Fail(msg.gen, msg.err)
			return h, nil
		}
		if h.patients.Apply(msg.gen, msg.page.Patients, msg.page.NumPages) {
			h.patientSel = clamp(h.patientSel, len(msg.page.Patients))
		}
		return h, nil

	case assessmentsMsg:
		if msg.err != nil {
			h.assessments.Fail(msg.gen, msg.err)
			return h, nil
		}
		if h.assessments.Apply(msg.gen, msg.page.Assessments, msg.page.NumPages) {
			h.assessmentSel = clamp(h.assessmentSel, len(msg.page.Assessments))
		}
		return h, nil

	case submitDoneMsg:
		return h.applySubmitDone(msg)

	case deleteDoneMsg:
		if msg.err != nil {
			// No optimistic removal happened, so there is nothing to roll
			// back; the row is still on screen.
			h.banner = "Delete failed: " + msg.err.Error()
			return h, nil
		}
		return h, h.refreshTab(msg.tab)

	case tea.KeyMsg:
		if h.overlay != overlayNone {
			return h.updateOverlay(msg)
		}
		return h.handleKey(msg)
	}

	if h.overlay != overlayNone {
		return h.updateOverlay(msg)
	}
	return h, nil
}

func (h homeModel) applySeed(msg seedMsg) (homeModel, tea.Cmd) {
	if msg.err == nil {
		h.patients.Seed(msg.patients.Patients)
		h.assessments.Seed(msg.assessments.Assessments)
	}
	// The seed only prevents an empty flash; each controller still runs
	// its own authoritative fetch, which supersedes it.
	return h, tea.Batch(
		fetchPatientsCmd(h.client, h.patients.Refresh()),
		fetchAssessmentsCmd(h.client, h.assessments.Refresh()),
	)
}

func (h homeModel) applySubmitDone(msg submitDoneMsg) (homeModel, tea.Cmd) {
	if msg.err != nil {
		// The modal stays open with the draft intact for correction.
		switch h.overlay {
		case overlayPatientForm:
			h.patientForm.fail(msg.err)
		case overlayAssessmentForm:
			h.assessmentForm.fail(msg.err)
		}
		return h, nil
	}
	h.overlay = overlayNone
	return h, h.refreshTab(msg.tab)
}

func (h homeModel) updateOverlay(msg tea.Msg) (homeModel, tea.Cmd) {
	var cmd tea.Cmd
	var closed bool
	switch h.overlay {
	case overlayPatientForm:
		h.patientForm, cmd, closed = h.patientForm.update(msg, h.client)
	case overlayAssessmentForm:
		h.assessmentForm, cmd, closed = h.assessmentForm.update(msg, h.client)
	case overlayFilter:
		var applied map[string]string
		h.filterForm, cmd, applied, closed = h.filterForm.update(msg)
		if applied != nil {
			h.overlay = overlayNone
			h.assessmentSel = 0
			return h, fetchAssessmentsCmd(h.client, h.assessments.SetFilters(applied))
		}
	}
	if closed {
		// Closing mid-flight just abandons the eventual response; the
		// generation guard ignores it.
		h.overlay = overlayNone
	}
	return h, cmd
}

func (h homeModel) handleKey(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	h.banner = ""
	switch msg.String() {
	case "q":
		return h, tea.Quit

	case "ctrl+l":
		return h, logoutCmd(h.client)

	case "tab", "p", "a":
		return h.switchTab(msg.String())

	case "up", "k":
		h.moveSelection(-1)
		return h, nil

	case "down", "j":
		h.moveSelection(1)
		return h, nil

	case "left", "right":
		return h.turnPage(msg.String())

	case "1", "2", "3", "4", "5", "6":
		return h.sortByColumn(int(msg.String()[0] - '1'))

	case "r":
		return h, h.refreshTab(h.activeTab)

	case "f":
		if h.activeTab == tabAssessments {
			h.overlay = overlayFilter
			h.filterForm = newFilterFormModel(h.assessments.Query().Filters)
			return h, h.filterForm.focusCmd()
		}
		return h, nil

	case "c":
		return h.openCreateForm()

	case "e", "enter":
		return h.openEditForm()

	case "x":
		return h.deleteSelected()
	}
	return h, nil
}

func (h homeModel) switchTab(key string) (homeModel, tea.Cmd) {
	next := h.activeTab
	switch key {
	case "p":
		next = tabPatients
	case "a":
		next = tabAssessments
	case "tab":
		next = (h.activeTab + 1) % 2
	}
	if next == h.activeTab {
		return h, nil
	}
	h.activeTab = next
	// Tab activation re-fetches, matching the shell's lazy-load contract.
	return h, h.refreshTab(next)
}

func (h *homeModel) moveSelection(delta int) {
	switch h.activeTab {
	case tabPatients:
		h.patientSel = clamp(h.patientSel+delta, len(h.patients.Items()))
	case tabAssessments:
		h.assessmentSel = clamp(h.assessmentSel+delta, len(h.assessments.Items()))
	}
}

func (h homeModel) turnPage(key string) (homeModel, tea.Cmd) {
	delta := 1
	if key == "left" {
		delta = -1
	}
	switch h.activeTab {
	case tabPatients:
		page := h.patients.Page() + delta
		if page < 1 || page > h.patients.TotalPages() {
			return h, nil
		}
		return h, fetchPatientsCmd(h.client, h.patients.SetPage(page))
	default:
		page := h.assessments.Page() + delta
		if page < 1 || page > h.assessments.TotalPages() {
			return h, nil
		}
		return h, fetchAssessmentsCmd(h.client, h.assessments.SetPage(page))
	}
}

func (h homeModel) sortByColumn(idx int) (homeModel, tea.Cmd) {
	switch h.activeTab {
	case tabPatients:
		if idx >= len(patientColumns) {
			return h, nil
		}
		return h, fetchPatientsCmd(h.client, h.patients.SetSort(patientColumns[idx]))
	default:
		if idx >= len(assessmentColumns) {
			return h, nil
		}
		return h, fetchAssessmentsCmd(h.client, h.assessments.SetSort(assessmentColumns[idx]))
	}
}

func (h homeModel) refreshTab(t tab) tea.Cmd {
	if t == tabPatients {
		return fetchPatientsCmd(h.client, h.patients.Refresh())
	}
	return fetchAssessmentsCmd(h.client, h.assessments.Refresh())
}

func (h homeModel) openCreateForm() (homeModel, tea.Cmd) {
	switch h.activeTab {
	case tabPatients:
		h.overlay = overlayPatientForm
		h.patientForm = newPatientFormModel(nil)
		return h, h.patientForm.focusCmd()
	default:
		h.overlay = overlayAssessmentForm
		h.assessmentForm = newAssessmentFormModel(nil, h.patients.Items())
		return h, h.assessmentForm.focusCmd()
	}
}

func (h homeModel) openEditForm() (homeModel, tea.Cmd) {
	switch h.activeTab {
	case tabPatients:
		items := h.patients.Items()
		if h.patientSel >= len(items) {
			return h, nil
		}
		record := items[h.patientSel]
		h.overlay = overlayPatientForm
		h.patientForm = newPatientFormModel(&record)
		return h, h.patientForm.focusCmd()
	default:
		items := h.assessments.Items()
		if h.assessmentSel >= len(items) {
			return h, nil
		}
		record := items[h.assessmentSel]
		h.overlay = overlayAssessmentForm
		h.assessmentForm = newAssessmentFormModel(&record, h.patients.Items())
		return h, h.assessmentForm.focusCmd()
	}
}

func (h homeModel) deleteSelected() (homeModel, tea.Cmd) {
	switch h.activeTab {
	case tabPatients:
		items := h.patients.Items()
		if h.patientSel >= len(items) {
			return h, nil
		}
		return h, deletePatientCmd(h.client, items[h.patientSel].ID)
	default:
		items := h.assessments.Items()
		if h.assessmentSel >= len(items) {
			return h, nil
		}
		return h, deleteAssessmentCmd(h.client, items[h.assessmentSel].ID)
	}
}

func clamp(v, length int) int {
	if length == 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v >= length {
		return length - 1
	}
	return v
}

func (h homeModel) view() string {
	switch h.overlay {
	case overlayPatientForm:
		return h.patientForm.view()
	case overlayAssessmentForm:
		return h.assessmentForm.view()
	case overlayFilter:
		return h.filterForm.view()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Clinic Console — %s", h.client.Username())))
	b.WriteString("\n")
	b.WriteString(h.renderTabs())
	b.WriteString("\n\n")
	if h.activeTab == tabPatients {
		b.WriteString(h.renderPatients())
	} else {
		b.WriteString(h.renderAssessments())
	}
	b.WriteString("\n")
	b.WriteString(h.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: switch • ←/→: page • 1-6: sort • c: create • e: edit • x: delete • f: filter • r: refresh • ctrl+l: logout • q: quit"))
	return b.String()
}

func (h homeModel) renderTabs() string {
	patients := tabStyle.Render("Patients")
	assessments := tabStyle.Render("Assessments")
	if h.activeTab == tabPatients {
		patients = activeTabStyle.Render("Patients")
	} else {
		assessments = activeTabStyle.Render("Assessments")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, patients, assessments)
}

func (h homeModel) renderPatients() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-5s %-24s %-8s %-14s %-12s %s",
		"1:ID", "2:Full Name", "3:Gender", "4:Phone", "5:DOB", "6:Address")))
	b.WriteString("\n")

	items := h.patients.Items()
	if len(items) == 0 {
		b.WriteString(statusStyle.Render("No patient data available"))
		return b.String()
	}
	for i, p := range items {
		row := fmt.Sprintf("%-5d %-24s %-8s %-14s %-12s %s",
			p.ID, truncate(p.FullName, 24), truncate(p.Gender, 8),
			truncate(p.PhoneNumber, 14), p.DateOfBirth, truncate(p.Address, 30))
		if i == h.patientSel {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (h homeModel) renderAssessments() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-18s %-24s %-12s %-5s %s",
		"1:Type", "2:Patient", "3:Date", "Q&A", "4:Score")))
	b.WriteString("\n")

	items := h.assessments.Items()
	if len(items) == 0 {
		b.WriteString(statusStyle.Render("No assessment data available"))
		return b.String()
	}
	for i, a := range items {
		row := fmt.Sprintf("%-18s %-24s %-12s %-5d %.1f",
			truncate(string(a.AssessmentType), 18),
			truncate(h.patientName(a.Patient), 24),
			a.AssessmentDate, len(a.QuestionsAndAnswers), a.FinalScore)
		if i == h.assessmentSel {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

// patientName resolves a patient ID against the loaded patient rows. Only
// the current page is loaded, so a miss is expected and non-fatal.
func (h homeModel) patientName(id int) string {
	for _, p := range h.patients.Items() {
		if p.ID == id {
			return p.FullName
		}
	}
	return fmt.Sprintf("Patient #%d", id)
}

func (h homeModel) renderStatus() string {
	var ctl interface {
		Loading() bool
		Err() error
	}
	var page, total int
	var sortBy string
	var order records.SortOrder
	if h.activeTab == tabPatients {
		ctl, page, total = h.patients, h.patients.Page(), h.patients.TotalPages()
		sortBy, order = h.patients.SortBy(), h.patients.Order()
	} else {
		ctl, page, total = h.assessments, h.assessments.Page(), h.assessments.TotalPages()
		sortBy, order = h.assessments.SortBy(), h.assessments.Order()
	}

	status := fmt.Sprintf("Page %d/%d • sort %s %s", page, total, sortBy, order)
	if ctl.Loading() {
		status = h.spin.View() + " " + status
	}
	if err := ctl.Err(); err != nil {
		status += "  " + errorStyle.Render(err.Error())
	}
	if h.banner != "" {
		status += "  " + errorStyle.Render(h.banner)
	}
	return statusStyle.Render(status)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
