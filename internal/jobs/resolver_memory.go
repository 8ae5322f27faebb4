package jobs

import (
	"context"
	"sync"
)

// MemoryResolver is an in-memory Resolver for dev and tests.
type MemoryResolver struct {
	mu       sync.RWMutex
	postings map[int]Posting
}

// NewMemoryResolver constructs a MemoryResolver with the given postings.
func NewMemoryResolver(postings ...Posting) *MemoryResolver {
	r := &MemoryResolver{postings: make(map[int]Posting, len(postings))}
	for _, p := range postings {
		r.postings[p.ID] = p
	}
	return r
}

// Add registers a posting.
func (r *MemoryResolver) Add(p Posting) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postings[p.ID] = p
}

// Exists reports whether a posting with the id exists.
func (r *MemoryResolver) Exists(ctx context.Context, jobID int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.postings[jobID]
	return ok, nil
}

// Requirements returns the requirements text for a posting.
func (r *MemoryResolver) Requirements(ctx context.Context, jobID int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.postings[jobID]
	if !ok {
		return "", ErrNotFound
	}
	return p.Requirements, nil
}

var _ Resolver = (*MemoryResolver)(nil)
