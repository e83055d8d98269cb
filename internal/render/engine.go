package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/pkg/logger"
	"github.com/mailcraft/mailcraft/pkg/metrics"
)

// ErrTemplateNotFound is returned when the template id does not resolve.
// It is document.ErrNotFound, so either sentinel matches with errors.Is.
var ErrTemplateNotFound = document.ErrNotFound

const ContentTypeHTML = "text/html; charset=utf-8"

// TemplateFinder is the read side of the template store.
type TemplateFinder interface {
	FindByID(ctx context.Context, id string) (*document.PersistedTemplate, error)
}

// LayoutSource supplies skeleton text by layout id.
type LayoutSource interface {
	Get(name string) (string, error)
}

// Output is a complete rendered document ready to be handed to a client.
type Output struct {
	TemplateID  string
	Filename    string
	ContentType string
	Body        string
	// Unresolved lists placeholders still present in Body.
	Unresolved []string
}

// Engine renders stored templates against their layouts.
type Engine struct {
	templates TemplateFinder
	layouts   LayoutSource
	history   History
}

// NewEngine wires the engine; a nil history disables render records.
func NewEngine(templates TemplateFinder, layouts LayoutSource, history History) *Engine {
	if history == nil {
		history = NopHistory{}
	}
	return &Engine{templates: templates, layouts: layouts, history: history}
}

// RenderByID loads the template and its layout and renders them. When the
// template is missing no output is produced and the error wraps
// ErrTemplateNotFound.
func (e *Engine) RenderByID(ctx context.Context, id string) (*Output, error) {
	start := time.Now()
	t, err := e.templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			metrics.TemplatesRendered.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("render %s: %w", id, ErrTemplateNotFound)
		}
		metrics.TemplatesRendered.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("render %s: load template: %w", id, err)
	}
	out, err := e.RenderTemplate(t)
	if err != nil {
		metrics.TemplatesRendered.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("render %s: %w", id, err)
	}
	metrics.TemplatesRendered.WithLabelValues("ok").Inc()
	metrics.RenderDuration.Observe(time.Since(start).Seconds())

	if len(out.Unresolved) > 0 {
		logger.Debugf("render %s: unresolved placeholders %v", id, out.Unresolved)
	}
	entry := &Entry{
		TemplateID: out.TemplateID,
		Layout:     t.Layout,
		Filename:   out.Filename,
		Bytes:      len(out.Body),
		Unresolved: out.Unresolved,
		RenderedAt: time.Now().UTC(),
	}
	if err := e.history.Record(ctx, entry); err != nil {
		logger.Warnf("render %s: record history: %v", id, err)
	}
	return out, nil
}

// RenderTemplate renders an already loaded template.
func (e *Engine) RenderTemplate(t *document.PersistedTemplate) (*Output, error) {
	layoutID := t.Layout
	if layoutID == "" {
		layoutID = document.DefaultLayout
	}
	skeleton, err := e.layouts.Get(layoutID)
	if err != nil {
		return nil, fmt.Errorf("load layout %q: %w", layoutID, err)
	}
	body := Render(skeleton, *t)
	return &Output{
		TemplateID:  t.ID,
		Filename:    t.Filename(),
		ContentType: ContentTypeHTML,
		Body:        body,
		Unresolved:  Placeholders(body),
	}, nil
}

// History returns recent render records for a template.
func (e *Engine) History(ctx context.Context, templateID string, limit int) ([]Entry, error) {
	return e.history.List(ctx, templateID, limit)
}
