package records

// Patient is a patient register entry as the service serialises it.
// ID is service-assigned and immutable after creation.
type Patient struct {
	ID          int    `json:"id,omitempty"`
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD, as the service stores it
	Address     string `json:"address"`
}

// AssessmentType is one of the service's predefined assessment categories.
type AssessmentType string

const (
	CognitiveStatus AssessmentType = "Cognitive Status"
	PhysicalHealth  AssessmentType = "Physical Health"
	MentalHealth    AssessmentType = "Mental Health"
	Nutrition       AssessmentType = "Nutrition"
	Other           AssessmentType = "Other"
)

// AssessmentTypes lists every valid assessment type, in display order.
var AssessmentTypes = []AssessmentType{
	CognitiveStatus,
	PhysicalHealth,
	MentalHealth,
	Nutrition,
	Other,
}

// QuestionAnswer is one entry of an assessment's ordered question list.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Assessment is an assessment register entry. Patient holds the ID of the
// patient the assessment belongs to; QuestionsAndAnswers preserves the
// order the clinician entered.
type Assessment struct {
	ID                  int              `json:"id,omitempty"`
	AssessmentType      AssessmentType   `json:"assessment_type"`
	Patient             int              `json:"patient"`
	AssessmentDate      string           `json:"assessment_date"` // YYYY-MM-DD
	QuestionsAndAnswers []QuestionAnswer `json:"questions_and_answers"`
	FinalScore          float64          `json:"final_score"`
}

// PatientPage is one page of the patient register.
type PatientPage struct {
	Patients []Patient `json:"patients"`
	NumPages int       `json:"num_pages"`
}

// AssessmentPage is one page of the assessment register.
type AssessmentPage struct {
	Assessments []Assessment `json:"assessments"`
	NumPages    int          `json:"num_pages"`
}

// ValidType reports whether t is one of the predefined assessment types.
func ValidType(t AssessmentType) bool {
	for _, known := range AssessmentTypes {
		if known == t {
			return true
		}
	}
	return false
}
