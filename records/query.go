package records

import (
	"net/url"
	"strconv"
)

// SortOrder is the direction parameter of the list endpoints.
type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// Flipped returns the opposite order.
func (o SortOrder) Flipped() SortOrder {
	if o == OrderAscending {
		return OrderDescending
	}
	return OrderAscending
}

// Filter keys accepted by the assessment list endpoint.
const (
	FilterAssessmentType = "assessment_type"
	FilterPatient        = "patient"
	FilterDatePerformed  = "date_performed"
)

// ListQuery is the pagination/sort/filter contract shared by the patient
// and assessment list endpoints. It fully determines one fetch.
type ListQuery struct {
	Page    int
	SortBy  string
	Order   SortOrder
	Filters map[string]string
}

// Values encodes the query the way the service expects it. Filter values
// are sent even when empty; the service treats an empty filter as
// unconstrained, not as a match on the empty string.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("sort_by", q.SortBy)
	v.Set("order", string(q.Order))
	for key, value := range q.Filters {
		v.Set(key, value)
	}
	return v
}
