// Package handler exposes the template builder over HTTP.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/internal/document/service"
	"github.com/mailcraft/mailcraft/internal/drafts"
	"github.com/mailcraft/mailcraft/internal/layout"
	"github.com/mailcraft/mailcraft/internal/storage"
	"github.com/mailcraft/mailcraft/pkg/logger"
)

// Layouts is the read side of the layout store.
type Layouts interface {
	Get(name string) (string, error)
	List() []layout.Entry
}

// ImageUploader stores uploaded images and returns their URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
	MaxBytes() int64
}

// Handler serves the template, draft, layout and upload endpoints. Drafts
// and uploads are optional; their routes are skipped when nil.
type Handler struct {
	svc     service.Service
	drafts  *drafts.Service
	layouts Layouts
	uploads ImageUploader
}

func New(svc service.Service, d *drafts.Service, layouts Layouts, uploads ImageUploader) *Handler {
	return &Handler{svc: svc, drafts: d, layouts: layouts, uploads: uploads}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/uploadEmailConfig", h.saveTemplate)
	r.POST("/api/renderAndDownloadTemplate", h.renderAndDownload)
	r.GET("/api/getEmailLayout", h.getLayout)
	r.GET("/api/layouts", h.listLayouts)

	r.GET("/api/templates", h.listTemplates)
	r.GET("/api/templates/:id", h.getTemplate)
	r.DELETE("/api/templates/:id", h.deleteTemplate)
	r.GET("/api/templates/:id/render", h.renderInline)
	r.GET("/api/templates/:id/renders", h.renderHistory)

	if h.uploads != nil {
		r.POST("/api/uploadImage", h.uploadImage)
	}
	if h.drafts != nil {
		r.POST("/api/drafts", h.createDraft)
		r.GET("/api/drafts/:id", h.getDraft)
		r.PATCH("/api/drafts/:id", h.applyDraftOp)
		r.DELETE("/api/drafts/:id", h.deleteDraft)
		r.GET("/api/drafts/:id/preview", h.previewDraft)
		r.POST("/api/drafts/:id/save", h.saveDraft)
		r.POST("/api/templates/:id/edit", h.editTemplate)
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// writeError maps domain errors to a status. Anything unrecognised is logged
// and reported as a generic 500.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case document.IsValidation(err):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, document.ErrNotFound):
		fail(c, http.StatusNotFound, "Template not found")
	case errors.Is(err, drafts.ErrNotFound):
		fail(c, http.StatusNotFound, "Draft not found")
	case errors.Is(err, layout.ErrInvalidName):
		fail(c, http.StatusBadRequest, "Invalid layout name")
	case errors.Is(err, layout.ErrNotFound):
		fail(c, http.StatusNotFound, "Layout not found")
	case errors.Is(err, storage.ErrTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, "Image exceeds size limit")
	case errors.Is(err, storage.ErrUnsupportedType):
		fail(c, http.StatusBadRequest, "Unsupported image type")
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		fail(c, http.StatusInternalServerError, fallback)
	}
}
