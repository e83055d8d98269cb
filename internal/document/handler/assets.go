package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/internal/storage"
)

func (h *Handler) getLayout(c *gin.Context) {
	name := c.DefaultQuery("name", document.DefaultLayout)
	text, err := h.layouts.Get(name)
	if err != nil {
		writeError(c, err, "Error loading layout file")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "layout": text})
}

func (h *Handler) listLayouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "layouts": h.layouts.List()})
}

// uploadImage accepts the file under "image" or "file".
func (h *Handler) uploadImage(c *gin.Context) {
	// multipart overhead on top of the image itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes()+1<<20)

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		fh, err = c.FormFile("file")
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(c, storage.ErrTooLarge, "Error uploading image")
		return
	}
	if err != nil {
		fail(c, http.StatusBadRequest, "No image file provided")
		return
	}
	if fh.Size > h.uploads.MaxBytes() {
		writeError(c, storage.ErrTooLarge, "Error uploading image")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err, "Error uploading image")
		return
	}
	defer f.Close()

	url, err := h.uploads.UploadImage(c.Request.Context(), fh.Filename, f)
	if err != nil {
		writeError(c, err, "Error uploading image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url, "url": url})
}
