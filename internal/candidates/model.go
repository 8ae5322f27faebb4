package candidates

import "time"

// Candidate statuses. A candidate starts Pending; Approved and Rejected are terminal.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is a known candidate status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Candidate is an application document. JobID is a weak reference to the
// relational job posting; nothing enforces integrity across the two stores.
type Candidate struct {
	ID         string    `json:"id"`
	JobID      int       `json:"jobId"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	CVFileName string    `json:"cvFileName"`
	CVFileKey  string    `json:"-"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
	Analysis   *Analysis `json:"analysis,omitempty"`
}

// Analysis is the enrichment result written once by the pipeline.
type Analysis struct {
	OverallScore  float64          `json:"overallScore"`
	Summary       string           `json:"summary"`
	ExtractedInfo ExtractedInfo    `json:"extractedInfo"`
	Criteria      []CriterionScore `json:"criteria"`
	RedFlags      []string         `json:"redFlags"`
	AnalyzedAt    time.Time        `json:"analyzedAt"`
}

// ExtractedInfo holds contact and background details pulled from the CV text.
type ExtractedInfo struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Skills            []string `json:"skills"`
	Education         []string `json:"education"`
	Experience        []string `json:"experience"`
	YearsOfExperience int      `json:"yearsOfExperience"`
}

// Met states for a criterion evaluation.
const (
	MetTrue      = "true"
	MetFalse     = "false"
	MetPartially = "partially"
)

// CriterionScore evaluates one job requirement against the CV.
type CriterionScore struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Met       string  `json:"met"`
	Evidence  string  `json:"evidence"`
}
