package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/mailcraft/mailcraft/pkg/metrics"
)

// DefaultMaxImageBytes is the upload limit used when none is configured.
const DefaultMaxImageBytes = 5 << 20

var (
	ErrTooLarge        = errors.New("image exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the blob backend behind the uploader.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Driver() string
}

// Uploader accepts image payloads and returns a URL for them. Only the URL
// ever reaches a document.
type Uploader struct {
	store    ObjectStore
	maxBytes int64
}

func NewUploader(store ObjectStore, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Uploader{store: store, maxBytes: maxBytes}
}

func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// UploadImage checks type and size, then stores the image under
// images/<uuid><ext>. The type is sniffed from the content, not taken from
// the client's filename or header.
func (u *Uploader) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}
	ct := http.DetectContentType(data)
	ext, ok := allowedTypes[ct]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" && ext == ".jpg" {
		ext = e
	}
	key := "images/" + uuid.NewString() + ext
	url, err := u.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), ct)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	metrics.ImagesUploaded.WithLabelValues(u.store.Driver()).Inc()
	return url, nil
}
