package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGResolver implements Resolver against the job_postings table.
type PGResolver struct {
	DB *sql.DB
}

// Exists reports whether a job posting with the id exists.
func (r *PGResolver) Exists(ctx context.Context, jobID int) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM job_postings WHERE id = $1`, jobID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Requirements returns the requirements text for a job posting.
func (r *PGResolver) Requirements(ctx context.Context, jobID int) (string, error) {
	var requirements string
	err := r.DB.QueryRowContext(ctx, `SELECT requirements FROM job_postings WHERE id = $1`, jobID).Scan(&requirements)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return requirements, nil
}

var _ Resolver = (*PGResolver)(nil)
