package records

import (
	"fmt"

	"github.com/clinicware/go-clinic-console/internal/errors"
)

// Validate checks a patient draft before submission. Every field is
// required by the service, so an empty one fails here rather than with a
// round trip.
func (p Patient) Validate() error {
	fields := map[string]string{
		"full_name":     p.FullName,
		"gender":        p.Gender,
		"phone_number":  p.PhoneNumber,
		"date_of_birth": p.DateOfBirth,
		"address":       p.Address,
	}
	for _, name := range []string{"full_name", "gender", "phone_number", "date_of_birth", "address"} {
		if fields[name] == "" {
			return errors.Wrapf(errors.ErrMissingField, "patient %s", name)
		}
	}
	return nil
}

// Validate checks an assessment draft before submission.
func (a Assessment) Validate() error {
	if !ValidType(a.AssessmentType) {
		return fmt.Errorf("%q: %w", a.AssessmentType, errors.ErrUnknownAssessment)
	}
	if a.Patient == 0 {
		return errors.ErrMissingPatientRef
	}
	if a.AssessmentDate == "" {
		return errors.Wrapf(errors.ErrMissingField, "assessment assessment_date")
	}
	if len(a.QuestionsAndAnswers) == 0 {
		return errors.ErrNoQuestionAnswers
	}
	for i, qa := range a.QuestionsAndAnswers {
		if qa.Question == "" {
			return errors.Wrapf(errors.ErrMissingField, "question %d", i+1)
		}
	}
	return nil
}
