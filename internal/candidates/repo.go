package candidates

import "context"

// Repo defines persistence operations for candidate documents.
//
// SetStatus and SetAnalysis write disjoint fields and are last-writer-wins per
// field; both report false (not an error) when no document with the id exists.
type Repo interface {
	Create(ctx context.Context, candidate Candidate) error
	GetByID(ctx context.Context, id string) (Candidate, error)
	// ListByJob returns candidates for a job, newest submission first,
	// optionally filtered by status ("" means all).
	ListByJob(ctx context.Context, jobID int, status string) ([]Candidate, error)
	CountByJob(ctx context.Context, jobID int) (int, error)
	SetStatus(ctx context.Context, id string, status string) (bool, error)
	SetAnalysis(ctx context.Context, id string, analysis Analysis) (bool, error)
}
