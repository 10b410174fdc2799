package errors

import (
	"errors"
	"fmt"
)

// Common error types for the clinic console
var (
	// Session errors
	ErrNoSession       = errors.New("no session")
	ErrUnauthenticated = errors.New("unauthenticated")

	// Validation errors (caught client-side, before submission)
	ErrValidation         = errors.New("validation failed")
	ErrMissingField       = errors.New("required field is empty")
	ErrUnknownAssessment  = errors.New("unknown assessment type")
	ErrNoQuestionAnswers  = errors.New("at least one question/answer pair is required")
	ErrMissingPatientRef  = errors.New("assessment must reference a patient")
	ErrPasswordsDontMatch = errors.New("passwords do not match")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// RequestError is a non-auth rejection from the service: any non-2xx
// status other than the 401s absorbed by the refresh-and-retry cycle.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed: status %d", e.Status)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.Status, e.Body)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
