package candidates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Candidate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Candidate)}
}

// Create stores a new candidate document.
func (r *MemoryRepo) Create(ctx context.Context, candidate Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[candidate.ID] = candidate
	return nil
}

// GetByID returns a candidate by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

// ListByJob returns candidates for a job, newest first, optionally filtered by status.
func (r *MemoryRepo) ListByJob(ctx context.Context, jobID int, status string) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Candidate, 0)
	for _, c := range r.data {
		if c.JobID != jobID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// CountByJob returns the number of candidates for a job.
func (r *MemoryRepo) CountByJob(ctx context.Context, jobID int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, c := range r.data {
		if c.JobID == jobID {
			count++
		}
	}
	return count, nil
}

// SetStatus updates only the status field. Returns false if the document is absent.
func (r *MemoryRepo) SetStatus(ctx context.Context, id string, status string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return false, nil
	}
	c.Status = status
	r.data[id] = c
	return true, nil
}

// SetAnalysis updates only the analysis field. Returns false if the document is absent.
func (r *MemoryRepo) SetAnalysis(ctx context.Context, id string, analysis Analysis) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return false, nil
	}
	c.Analysis = &analysis
	r.data[id] = c
	return true, nil
}

var _ Repo = (*MemoryRepo)(nil)
