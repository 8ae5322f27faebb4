package applications

import "errors"

var (
	// ErrJobNotFound indicates the job id does not resolve to a posting.
	ErrJobNotFound = errors.New("job posting not found")
	// ErrCandidateNotFound indicates the candidate is absent or belongs to
	// a different job.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrInvalidInput indicates a validation failure on the inbound request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidStatus indicates an unknown target status.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrAlreadyDecided indicates a status write against a candidate that
	// already left the Pending state.
	ErrAlreadyDecided = errors.New("candidate already decided")
)
