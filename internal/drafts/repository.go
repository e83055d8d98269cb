package drafts

import (
	"context"
	"sync"
	"time"
)

// Repository stores drafts until they expire.
type Repository interface {
	Put(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRepository is used when Redis is not configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{drafts: make(map[string]Draft)}
}

func (r *MemoryRepository) Put(_ context.Context, d *Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = *d
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Draft, error) {
	r.mu.RLock()
	d, ok := r.drafts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !d.ExpiresAt.IsZero() && time.Now().UTC().After(d.ExpiresAt) {
		r.mu.Lock()
		delete(r.drafts, id)
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}
