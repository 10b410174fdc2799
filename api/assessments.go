package api

import (
	"context"
	"net/http"

	"github.com/clinicware/go-clinic-console/records"
)

const (
	assessmentListPath       = "/api/assessments_list/"
	assessmentCollectionPath = "/api/assessments/"
)

// ListAssessments fetches one page of the assessment register. The query's
// filters (assessment_type, patient, date_performed) ride along verbatim,
// empty values included.
func (c *Client) ListAssessments(ctx context.Context, q records.ListQuery) (*records.AssessmentPage, error) {
	var page records.AssessmentPage
	if err := c.do(ctx, http.MethodGet, assessmentListPath, q.Values(), nil, &page); err != nil {
		return nil, err
	}
	if page.NumPages < 1 {
		page.NumPages = 1
	}
	return &page, nil
}

// CreateAssessment submits a new assessment for a patient.
func (c *Client) CreateAssessment(ctx context.Context, a records.Assessment) error {
	a.ID = 0
	return c.do(ctx, http.MethodPost, assessmentCollectionPath, nil, a, nil)
}

// UpdateAssessment replaces the assessment with the given ID.
func (c *Client) UpdateAssessment(ctx context.Context, id int, a records.Assessment) error {
	a.ID = 0
	return c.do(ctx, http.MethodPut, itemPath(assessmentCollectionPath, id), nil, a, nil)
}

func (c *Client) DeleteAssessment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(assessmentCollectionPath, id), nil, nil, nil)
}
