package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/internal/drafts"
)

func (h *Handler) createDraft(c *gin.Context) {
	var req struct {
		Document json.RawMessage `json:"document"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	doc := document.New()
	if hasDocument(req.Document) {
		d, err := decodeDocument(req.Document)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		doc = d
	}
	d, err := h.drafts.Create(c.Request.Context(), doc, "")
	if err != nil {
		writeError(c, err, "Error creating draft")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "draft": d})
}

// editTemplate opens a saved template in a new draft. Saving that draft
// overwrites the template.
func (h *Handler) editTemplate(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err, "Error loading template")
		return
	}
	doc, err := document.Hydrate(*t)
	if err != nil {
		writeError(c, err, "Error loading template")
		return
	}
	d, err := h.drafts.Create(ctx, doc, t.ID)
	if err != nil {
		writeError(c, err, "Error creating draft")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "draft": d})
}

func (h *Handler) getDraft(c *gin.Context) {
	d, err := h.drafts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Error loading draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": d})
}

func (h *Handler) applyDraftOp(c *gin.Context) {
	var op drafts.Op
	if err := c.ShouldBindJSON(&op); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.drafts.Apply(c.Request.Context(), c.Param("id"), op)
	if err != nil {
		writeError(c, err, "Error updating draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": d})
}

func (h *Handler) deleteDraft(c *gin.Context) {
	if err := h.drafts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "Error deleting draft")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) previewDraft(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := h.drafts.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err, "Error loading draft")
		return
	}
	out, err := h.svc.Preview(ctx, d.Document)
	if err != nil {
		writeError(c, err, "Error rendering draft")
		return
	}
	writeHTML(c, out, false)
}

func (h *Handler) saveDraft(c *gin.Context) {
	d, t, err := h.drafts.Save(c.Request.Context(), c.Param("id"), h.svc)
	if err != nil {
		writeError(c, err, "Error saving template configuration")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": d, "template": t})
}
