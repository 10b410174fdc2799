package api

import (
	"context"
	"net/http"

	"github.com/clinicware/go-clinic-console/records"
)

const (
	patientListPath       = "/api/patient_list/"
	patientCollectionPath = "/api/patients/"
)

// ListPatients fetches one page of the patient register.
func (c *Client) ListPatients(ctx context.Context, q records.ListQuery) (*records.PatientPage, error) {
	var page records.PatientPage
	if err := c.do(ctx, http.MethodGet, patientListPath, q.Values(), nil, &page); err != nil {
		return nil, err
	}
	if page.NumPages < 1 {
		page.NumPages = 1
	}
	return &page, nil
}

// CreatePatient submits a new patient. The service assigns the ID.
func (c *Client) CreatePatient(ctx context.Context, p records.Patient) error {
	p.ID = 0
	return c.do(ctx, http.MethodPost, patientCollectionPath, nil, p, nil)
}

// UpdatePatient replaces the patient with the given ID.
func (c *Client) UpdatePatient(ctx context.Context, id int, p records.Patient) error {
	p.ID = 0
	return c.do(ctx, http.MethodPut, itemPath(patientCollectionPath, id), nil, p, nil)
}

func (c *Client) DeletePatient(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(patientCollectionPath, id), nil, nil, nil)
}
