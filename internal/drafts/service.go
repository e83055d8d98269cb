package drafts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mailcraft/mailcraft/internal/document"
)

// Saver persists a projected document as a template.
type Saver interface {
	SaveDocument(ctx context.Context, d document.Document) (*document.PersistedTemplate, error)
	UpdateDocument(ctx context.Context, id string, d document.Document) (*document.PersistedTemplate, error)
}

// Service applies editor operations to stored drafts. Each call reads the
// draft, applies the change and writes it back; concurrent edits of the same
// draft are last-write-wins.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

// NewService returns a draft service; ttl <= 0 keeps drafts forever.
func NewService(r Repository, ttl time.Duration) *Service {
	return &Service{repo: r, ttl: ttl, now: time.Now}
}

func (s *Service) stamp(d *Draft) {
	now := s.now().UTC()
	d.UpdatedAt = now
	if s.ttl > 0 {
		d.ExpiresAt = now.Add(s.ttl)
	}
}

// Create starts a draft from doc, e.g. document.New() or a hydrated template.
func (s *Service) Create(ctx context.Context, doc document.Document, templateID string) (*Draft, error) {
	d := &Draft{ID: uuid.NewString(), TemplateID: templateID, Document: doc}
	s.stamp(d)
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Draft, error) {
	return s.repo.Get(ctx, id)
}

// Apply runs one operation against the draft. A rejected operation leaves
// the stored draft unchanged.
func (s *Service) Apply(ctx context.Context, id string, op Op) (*Draft, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := op.Apply(d.Document)
	if err != nil {
		return nil, err
	}
	d.Document = doc
	s.stamp(d)
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("store draft %s: %w", id, err)
	}
	return d, nil
}

// Save projects the draft into a template, creating it on first save and
// overwriting it afterwards.
func (s *Service) Save(ctx context.Context, id string, saver Saver) (*Draft, *document.PersistedTemplate, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var t *document.PersistedTemplate
	if d.TemplateID != "" {
		t, err = saver.UpdateDocument(ctx, d.TemplateID, d.Document)
	} else {
		t, err = saver.SaveDocument(ctx, d.Document)
	}
	if err != nil {
		return nil, nil, err
	}
	d.TemplateID = t.ID
	s.stamp(d)
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, nil, fmt.Errorf("store draft %s: %w", id, err)
	}
	return d, t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
