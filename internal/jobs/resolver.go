package jobs

import (
	"context"
	"errors"
)

// Job posting statuses as stored by the job-posting service. This core only
// reads them; a job does not need to be Open to receive applications.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
	StatusDraft  = "Draft"
)

// ErrNotFound indicates the job id does not resolve to a posting.
var ErrNotFound = errors.New("job posting not found")

// Posting is the read-only view of a job posting this core consumes.
type Posting struct {
	ID           int
	Title        string
	Requirements string
	Status       string
}

// Resolver looks up job postings in the relational store. It is read-only:
// the job-posting service owns all writes.
type Resolver interface {
	Exists(ctx context.Context, jobID int) (bool, error)
	// Requirements returns the requirements text for a job, or ErrNotFound.
	Requirements(ctx context.Context, jobID int) (string, error)
}
