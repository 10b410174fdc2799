package listctl_test

import (
	"errors"
	"testing"

	"github.com/clinicware/go-clinic-console/listctl"
	"github.com/clinicware/go-clinic-console/records"
	"github.com/stretchr/testify/require"
)

func newAssessmentController() *listctl.Controller[records.Assessment] {
	return listctl.New[records.Assessment]("assessment_date", map[string]string{
		records.FilterAssessmentType: "",
		records.FilterPatient:        "",
		records.FilterDatePerformed:  "",
	})
}

func TestDefaults(t *testing.T) {
	c := newAssessmentController()

	require.Equal(t, listctl.Idle, c.Phase())
	require.Equal(t, 1, c.Page())
	require.Equal(t, "assessment_date", c.SortBy())
	require.Equal(t, records.OrderAscending, c.Order())
	require.Equal(t, 1, c.TotalPages())
	require.Empty(t, c.Items())
}

func TestSortToggleFlipsOnEveryCall(t *testing.T) {
	c := newAssessmentController()

	f := c.SetSort("assessment_date")
	require.Equal(t, records.OrderDescending, f.Query.Order)

	f = c.SetSort("assessment_date")
	require.Equal(t, records.OrderAscending, f.Query.Order)

	// Switching fields flips the order too, rather than resetting to
	// ascending. That is the contract the views rely on.
	f = c.SetSort("final_score")
	require.Equal(t, "final_score", f.Query.SortBy)
	require.Equal(t, records.OrderDescending, f.Query.Order)
}

func TestSetFiltersResetsPageAndDropsRows(t *testing.T) {
	c := newAssessmentController()

	f := c.Refresh()
	require.True(t, c.Apply(f.Gen, []records.Assessment{{ID: 1}}, 4))

	f = c.SetPage(3)
	require.True(t, c.Apply(f.Gen, []records.Assessment{{ID: 9}}, 4))
	require.Equal(t, 3, c.Page())

	f = c.SetFilters(map[string]string{records.FilterAssessmentType: "Nutrition"})
	require.Equal(t, 1, f.Query.Page)
	require.Equal(t, listctl.Loading, c.Phase())
	require.Empty(t, c.Items())
	require.Equal(t, "Nutrition", f.Query.Filters[records.FilterAssessmentType])
}

func TestSetPagePreservesSortAndFilters(t *testing.T) {
	c := newAssessmentController()

	c.SetFilters(map[string]string{records.FilterPatient: "Ann"})
	c.SetSort("final_score")
	f := c.SetPage(2)

	require.Equal(t, 2, f.Query.Page)
	require.Equal(t, "final_score", f.Query.SortBy)
	require.Equal(t, "Ann", f.Query.Filters[records.FilterPatient])
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	c := newAssessmentController()

	first := c.Refresh()
	second := c.SetSort("final_score")

	// The newer fetch resolves first.
	require.True(t, c.Apply(second.Gen, []records.Assessment{{ID: 2}}, 2))

	// The older one resolves late and must be ignored.
	require.False(t, c.Apply(first.Gen, []records.Assessment{{ID: 1}}, 9))
	require.Len(t, c.Items(), 1)
	require.Equal(t, 2, c.Items()[0].ID)
	require.Equal(t, 2, c.TotalPages())

	require.False(t, c.Fail(first.Gen, errors.New("late failure")))
	require.Equal(t, listctl.Loaded, c.Phase())
	require.NoError(t, c.Err())
}

func TestFailKeepsLastGoodRows(t *testing.T) {
	c := newAssessmentController()

	f := c.Refresh()
	require.True(t, c.Apply(f.Gen, []records.Assessment{{ID: 1}, {ID: 2}}, 3))

	f = c.SetPage(2)
	boom := errors.New("service unavailable")
	require.True(t, c.Fail(f.Gen, boom))

	require.Equal(t, listctl.Errored, c.Phase())
	require.ErrorIs(t, c.Err(), boom)
	require.Len(t, c.Items(), 2)
}

func TestSeedIsSupersededByAuthoritativeFetch(t *testing.T) {
	c := listctl.New[records.Patient]("id", nil)

	c.Seed([]records.Patient{{ID: 1, FullName: "Seeded"}})
	require.Len(t, c.Items(), 1)

	f := c.Refresh()
	require.True(t, c.Apply(f.Gen, []records.Patient{{ID: 2, FullName: "Authoritative"}}, 1))
	require.Len(t, c.Items(), 1)
	require.Equal(t, "Authoritative", c.Items()[0].FullName)
}

func TestSeedIgnoredOnceActive(t *testing.T) {
	c := listctl.New[records.Patient]("id", nil)

	f := c.Refresh()
	require.True(t, c.Apply(f.Gen, []records.Patient{{ID: 2}}, 1))

	c.Seed([]records.Patient{{ID: 1}})
	require.Equal(t, 2, c.Items()[0].ID)
}

func TestResetInvalidatesInFlightFetches(t *testing.T) {
	c := newAssessmentController()

	f := c.Refresh()
	c.Reset()

	require.False(t, c.Apply(f.Gen, []records.Assessment{{ID: 1}}, 2))
	require.Equal(t, listctl.Idle, c.Phase())
	require.Empty(t, c.Items())
	require.Equal(t, 1, c.Page())
}

func TestQuerySnapshotIsIsolated(t *testing.T) {
	c := newAssessmentController()

	f := c.Refresh()
	f.Query.Filters[records.FilterPatient] = "mutated"

	require.Equal(t, "", c.Query().Filters[records.FilterPatient])
}

func TestSetPageClampsToOne(t *testing.T) {
	c := newAssessmentController()

	f := c.SetPage(0)
	require.Equal(t, 1, f.Query.Page)
}
