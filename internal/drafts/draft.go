// Package drafts keeps the document of an editing session between requests.
package drafts

import (
	"errors"
	"time"

	"github.com/mailcraft/mailcraft/internal/document"
)

var ErrNotFound = errors.New("draft not found")

// Draft is one editing session. TemplateID is set after the first save so
// later saves overwrite the same template.
type Draft struct {
	ID         string            `json:"id"`
	TemplateID string            `json:"templateId,omitempty"`
	Document   document.Document `json:"document"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	ExpiresAt  time.Time         `json:"expiresAt"`
}
