package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mailcraft/mailcraft/internal/document"
)

// ErrNotFound is document.ErrNotFound, re-exported for callers of this package.
var ErrNotFound = document.ErrNotFound

// Repository persists saved templates. Save assigns the id and creation time;
// Update replaces name, layout and config of an existing record, keeping both.
type Repository interface {
	Save(ctx context.Context, t *document.PersistedTemplate) (*document.PersistedTemplate, error)
	Update(ctx context.Context, id string, t *document.PersistedTemplate) (*document.PersistedTemplate, error)
	FindByID(ctx context.Context, id string) (*document.PersistedTemplate, error)
	List(ctx context.Context) ([]*document.PersistedTemplate, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRepo is an in-process repository used when MongoDB is not
// configured and in tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.PersistedTemplate
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.PersistedTemplate), now: time.Now}
}

func clone(t *document.PersistedTemplate) *document.PersistedTemplate {
	c := *t
	c.Config.Variables = copyMap(t.Config.Variables)
	c.Config.Styles = copyMap(t.Config.Styles)
	c.Config.Images = append([]string{}, t.Config.Images...)
	if t.Config.Sections != nil {
		c.Config.Sections = append([]string{}, t.Config.Sections...)
	}
	return &c
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *MemoryRepo) Save(_ context.Context, t *document.PersistedTemplate) (*document.PersistedTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := clone(t)
	rec.ID = uuid.NewString()
	rec.CreatedAt = m.now().UTC()
	m.store[rec.ID] = rec
	return clone(rec), nil
}

func (m *MemoryRepo) Update(_ context.Context, id string, t *document.PersistedTemplate) (*document.PersistedTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := clone(t)
	rec.ID = cur.ID
	rec.CreatedAt = cur.CreatedAt
	m.store[id] = rec
	return clone(rec), nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (*document.PersistedTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.store[id]; ok {
		return clone(t), nil
	}
	return nil, ErrNotFound
}

// List returns newest first.
func (m *MemoryRepo) List(_ context.Context) ([]*document.PersistedTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.PersistedTemplate, 0, len(m.store))
	for _, t := range m.store {
		out = append(out, clone(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
