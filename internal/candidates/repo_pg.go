package candidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres. The nested analysis is held in a single
// JSONB column and written wholesale, which keeps the status and analysis
// writers on disjoint columns.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new candidate document.
func (r *PGRepo) Create(ctx context.Context, candidate Candidate) error {
	const query = `
INSERT INTO candidates (id, job_id, full_name, email, phone, cv_file_name, cv_file_key, status, uploaded_at, analysis)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	analysisPayload, err := marshalAnalysis(candidate.Analysis)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		candidate.ID,
		candidate.JobID,
		candidate.FullName,
		candidate.Email,
		candidate.Phone,
		candidate.CVFileName,
		candidate.CVFileKey,
		candidate.Status,
		candidate.UploadedAt,
		analysisPayload,
	)
	return err
}

// GetByID returns a candidate by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	const query = `
SELECT id, job_id, full_name, email, phone, cv_file_name, cv_file_key, status, uploaded_at, analysis
FROM candidates
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Candidate{}, ErrNotFound
	}
	return candidate, err
}

// ListByJob returns candidates for a job, newest first, optionally filtered by status.
func (r *PGRepo) ListByJob(ctx context.Context, jobID int, status string) ([]Candidate, error) {
	query := `
SELECT id, job_id, full_name, email, phone, cv_file_name, cv_file_key, status, uploaded_at, analysis
FROM candidates
WHERE job_id = $1`
	args := []any{jobID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY uploaded_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Candidate, 0)
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate)
	}
	return out, rows.Err()
}

// CountByJob returns the number of candidates for a job.
func (r *PGRepo) CountByJob(ctx context.Context, jobID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE job_id = $1`, jobID).Scan(&count)
	return count, err
}

// SetStatus updates only the status column. Returns false if no row matched.
func (r *PGRepo) SetStatus(ctx context.Context, id string, status string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE candidates SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetAnalysis overwrites only the analysis column. Returns false if no row matched.
func (r *PGRepo) SetAnalysis(ctx context.Context, id string, analysis Analysis) (bool, error) {
	payload, err := marshalAnalysis(&analysis)
	if err != nil {
		return false, err
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE candidates SET analysis = $2 WHERE id = $1`, id, payload)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var c Candidate
	var analysisRaw sql.NullString
	err := row.Scan(
		&c.ID,
		&c.JobID,
		&c.FullName,
		&c.Email,
		&c.Phone,
		&c.CVFileName,
		&c.CVFileKey,
		&c.Status,
		&c.UploadedAt,
		&analysisRaw,
	)
	if err != nil {
		return Candidate{}, err
	}
	if analysisRaw.Valid && analysisRaw.String != "" {
		var analysis Analysis
		if err := json.Unmarshal([]byte(analysisRaw.String), &analysis); err != nil {
			return Candidate{}, fmt.Errorf("decode analysis for candidate %s: %w", c.ID, err)
		}
		c.Analysis = &analysis
	}
	return c, nil
}

func marshalAnalysis(analysis *Analysis) (any, error) {
	if analysis == nil {
		return nil, nil
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return string(payload), nil
}

var _ Repo = (*PGRepo)(nil)
