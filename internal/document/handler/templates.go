package handler

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/internal/render"
)

// saveRequest is either an already projected template ({name, layout,
// config}) or a live document to project server-side.
type saveRequest struct {
	Name     string          `json:"name"`
	Layout   string          `json:"layout"`
	Config   document.Config `json:"config"`
	Document json.RawMessage `json:"document,omitempty"`
}

// hasDocument reports whether raw carries a document; an explicit null is
// treated as absent.
func hasDocument(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// decodeDocument fills a new document from raw JSON so omitted fields keep
// their editor defaults.
func decodeDocument(raw json.RawMessage) (document.Document, error) {
	d := document.New()
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, err
	}
	return d, d.Validate()
}

func (h *Handler) saveTemplate(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	var (
		t   *document.PersistedTemplate
		err error
	)
	if hasDocument(req.Document) {
		d, derr := decodeDocument(req.Document)
		if derr != nil {
			fail(c, http.StatusBadRequest, derr.Error())
			return
		}
		t, err = h.svc.SaveDocument(ctx, d)
	} else {
		t, err = h.svc.SaveTemplate(ctx, document.PersistedTemplate{Name: req.Name, Layout: req.Layout, Config: req.Config})
	}
	if err != nil {
		writeError(c, err, "Error saving template configuration")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": t})
}

func (h *Handler) listTemplates(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error listing templates")
		return
	}
	if list == nil {
		list = []*document.PersistedTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": list})
}

func (h *Handler) getTemplate(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Error loading template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": t})
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "Error deleting template")
		return
	}
	c.Status(http.StatusNoContent)
}

func writeHTML(c *gin.Context, out *render.Output, attachment bool) {
	if attachment {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	}
	if len(out.Unresolved) > 0 {
		c.Header("X-Unresolved-Placeholders", strings.Join(out.Unresolved, ","))
	}
	c.Data(http.StatusOK, out.ContentType, []byte(out.Body))
}

func (h *Handler) renderAndDownload(c *gin.Context) {
	var req struct {
		TemplateID string `json:"templateId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		fail(c, http.StatusBadRequest, "templateId is required")
		return
	}
	out, err := h.svc.Render(c.Request.Context(), req.TemplateID)
	if err != nil {
		writeError(c, err, "Error rendering template")
		return
	}
	writeHTML(c, out, true)
}

func (h *Handler) renderInline(c *gin.Context) {
	out, err := h.svc.Render(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Error rendering template")
		return
	}
	writeHTML(c, out, false)
}

func (h *Handler) renderHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		fail(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	entries, err := h.svc.RenderHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeError(c, err, "Error loading render history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "renders": entries})
}
