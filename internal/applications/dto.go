package applications

import (
	"time"

	"hirehub-backend/internal/candidates"
)

// CandidateResponse is the outward-facing representation of a candidate.
// The storage key stays internal; the CV is reachable via the download route.
type CandidateResponse struct {
	ID         string                `json:"id"`
	JobID      int                   `json:"jobId"`
	FullName   string                `json:"fullName"`
	Email      string                `json:"email"`
	Phone      string                `json:"phone"`
	CVFileName string                `json:"cvFileName"`
	Status     string                `json:"status"`
	UploadedAt time.Time             `json:"uploadedAt"`
	Analysis   *candidates.Analysis  `json:"analysis,omitempty"`
}

func toCandidateResponse(c candidates.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:         c.ID,
		JobID:      c.JobID,
		FullName:   c.FullName,
		Email:      c.Email,
		Phone:      c.Phone,
		CVFileName: c.CVFileName,
		Status:     c.Status,
		UploadedAt: c.UploadedAt,
		Analysis:   c.Analysis,
	}
}

func toCandidateResponses(list []candidates.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCandidateResponse(c))
	}
	return out
}
