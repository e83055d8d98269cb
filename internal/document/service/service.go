package service

import (
	"context"
	"fmt"

	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/internal/document/repository"
	"github.com/mailcraft/mailcraft/internal/render"
	"github.com/mailcraft/mailcraft/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = document.ErrNotFound
)

// Service defines the template operations used by the handler layer.
type Service interface {
	// SaveDocument projects a live document and stores it as a new template.
	SaveDocument(ctx context.Context, d document.Document) (*document.PersistedTemplate, error)
	// UpdateDocument overwrites an existing template with a projected document.
	UpdateDocument(ctx context.Context, id string, d document.Document) (*document.PersistedTemplate, error)
	// SaveTemplate stores a template that was projected by the client.
	SaveTemplate(ctx context.Context, t document.PersistedTemplate) (*document.PersistedTemplate, error)
	Get(ctx context.Context, id string) (*document.PersistedTemplate, error)
	List(ctx context.Context) ([]*document.PersistedTemplate, error)
	Delete(ctx context.Context, id string) error
	Render(ctx context.Context, id string) (*render.Output, error)
	RenderHistory(ctx context.Context, id string, limit int) ([]render.Entry, error)
	// Preview renders an unsaved document against its layout.
	Preview(ctx context.Context, d document.Document) (*render.Output, error)
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(layouts render.LayoutSource) Service {
	repo := repository.NewMemoryRepo()
	return New(repo, "memory", layouts, render.NewMemoryHistory(50))
}

// NewMongoService returns a Service backed by MongoDB: templates live in
// templatesCol and render records in historyCol.
func NewMongoService(templatesCol, historyCol *mongo.Collection, layouts render.LayoutSource) Service {
	repo := repository.NewMongoRepo(templatesCol)
	var hist render.History = render.NopHistory{}
	if historyCol != nil {
		hist = render.NewMongoHistory(historyCol)
	}
	return New(repo, "mongo", layouts, hist)
}

// New wires a Service over any repository. storeName labels metrics.
func New(repo repository.Repository, storeName string, layouts render.LayoutSource, hist render.History) Service {
	return &templateService{
		repo:   repo,
		store:  storeName,
		engine: render.NewEngine(repo, layouts, hist),
	}
}

type templateService struct {
	repo   repository.Repository
	store  string
	engine *render.Engine
}

func (s *templateService) SaveDocument(ctx context.Context, d document.Document) (*document.PersistedTemplate, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p := document.Project(d)
	return s.save(ctx, &p)
}

func (s *templateService) UpdateDocument(ctx context.Context, id string, d document.Document) (*document.PersistedTemplate, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p := document.Project(d)
	t, err := s.repo.Update(ctx, id, &p)
	if err != nil {
		return nil, fmt.Errorf("update template %s: %w", id, err)
	}
	metrics.TemplatesSaved.WithLabelValues(s.store).Inc()
	return t, nil
}

func (s *templateService) SaveTemplate(ctx context.Context, t document.PersistedTemplate) (*document.PersistedTemplate, error) {
	n, err := document.Normalize(t)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, &n)
}

func (s *templateService) save(ctx context.Context, t *document.PersistedTemplate) (*document.PersistedTemplate, error) {
	saved, err := s.repo.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	metrics.TemplatesSaved.WithLabelValues(s.store).Inc()
	return saved, nil
}

func (s *templateService) Get(ctx context.Context, id string) (*document.PersistedTemplate, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	return t, nil
}

func (s *templateService) List(ctx context.Context) ([]*document.PersistedTemplate, error) {
	return s.repo.List(ctx)
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

func (s *templateService) Render(ctx context.Context, id string) (*render.Output, error) {
	return s.engine.RenderByID(ctx, id)
}

func (s *templateService) RenderHistory(ctx context.Context, id string, limit int) ([]render.Entry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.engine.History(ctx, id, limit)
}

func (s *templateService) Preview(_ context.Context, d document.Document) (*render.Output, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p := document.Project(d)
	return s.engine.RenderTemplate(&p)
}
